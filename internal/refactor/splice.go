// Package refactor is C6, the refactoring engine: rename, extract
// interface, implement interface, change signature (§4.5). Every operation
// follows the spec's "Pattern: text-based edits for complex refactors"
// (§9): parse once to find spans, splice text in descending offset order,
// invalidate the model — no tree-level rewrite, because the goal is to
// keep edits minimal and auditable as a diff.
package refactor

import (
	"fmt"
	"sort"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"
)

// Edit is one byte-range replacement within a single file.
type Edit struct {
	Start, End int // byte offsets into the original file content
	NewText    string
}

// ApplyEdits splices edits into src in descending start-offset order
// (§4.5.4 step 5's "apply all edits within the file in descending
// start-offset order to preserve offsets" rule, reused by every C6
// operation that touches more than one span in a file).
func ApplyEdits(src string, edits []Edit) string {
	sorted := append([]Edit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })
	out := src
	for _, e := range sorted {
		out = out[:e.Start] + e.NewText + out[e.End:]
	}
	return out
}

// FileChange describes one file touched by a refactor operation, used to
// build the spec's rename/change-signature/extract-interface summaries and
// the unified-diff preview (§2 DOMAIN STACK: github.com/sourcegraph/go-diff).
type FileChange struct {
	Path    string
	Before  string
	After   string
	Renamed bool   // true for the file that was itself renamed (§4.5.1 step 3)
	NewPath string // set when Renamed
}

// UnifiedDiff renders one FileChange as a unified diff, computing a tight
// single-hunk line range (trimming the common prefix/suffix of lines) and
// then letting github.com/sourcegraph/go-diff's FileDiff/Hunk model do the
// "--- / +++ / @@" framing — this project doesn't reimplement a diff
// printer, it reuses the library's.
func UnifiedDiff(fc FileChange) (string, error) {
	newPath := fc.Path
	if fc.Renamed {
		newPath = fc.NewPath
	}
	if fc.Before == fc.After {
		return "", nil
	}
	before := strings.SplitAfter(fc.Before, "\n")
	after := strings.SplitAfter(fc.After, "\n")

	prefix := commonPrefixLen(before, after)
	suffix := commonSuffixLen(before[prefix:], after[prefix:])

	origStart := prefix
	origLines := len(before) - prefix - suffix
	newStart := prefix
	newLines := len(after) - prefix - suffix

	var body strings.Builder
	for i := 0; i < origLines; i++ {
		fmt.Fprintf(&body, "-%s", before[prefix+i])
	}
	for i := 0; i < newLines; i++ {
		fmt.Fprintf(&body, "+%s", after[prefix+i])
	}

	hunk := &sgdiff.Hunk{
		OrigStartLine: int32(origStart + 1),
		OrigLines:     int32(origLines),
		NewStartLine:  int32(newStart + 1),
		NewLines:      int32(newLines),
		Body:          []byte(body.String()),
	}
	fd := &sgdiff.FileDiff{
		OrigName: fc.Path,
		NewName:  newPath,
		Hunks:    []*sgdiff.Hunk{hunk},
	}
	out, err := sgdiff.PrintFileDiff(fd)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func commonPrefixLen(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffixLen(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
