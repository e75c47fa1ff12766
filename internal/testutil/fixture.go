package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteModule writes files (path → contents, relative to the module root)
// into a fresh temp directory and returns the directory. Mirrors the
// teacher's CopyProjectTo fixture-staging helper (copying a named testdata
// project into a scratch directory before loading it) — here the fixture is
// supplied inline since this project's tests script small, single-purpose
// modules rather than reusing a shared testdata tree.
func WriteModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, contents := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
	}
	return dir
}
