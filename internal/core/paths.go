package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizePath converts p to a clean, absolute, forward-slash path so that
// results are stable across platforms and across requests that mix relative
// and absolute inputs.
func NormalizePath(root, p string) (string, *Error) {
	if p == "" {
		return "", Errorf(InvalidInput, "core.NormalizePath", "path is empty")
	}
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}
	abs = filepath.Clean(abs)
	return filepath.ToSlash(abs), nil
}

// RelativeTo renders abs relative to root for display, falling back to abs
// unchanged if it does not live under root.
func RelativeTo(root, abs string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// Location renders the spec's canonical "<path>:<line>" location format.
func Location(path string, line int) string {
	if line <= 0 {
		return path
	}
	return fmt.Sprintf("%s:%d", path, line)
}
