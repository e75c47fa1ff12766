// Package testutil holds shared test helpers, mirroring the teacher's
// gopls/mcpbridge/test/testutil package. The teacher's own golden_files.go
// only names the *.golden constants (ResultText formats an MCP CallToolResult
// for logging, never diffs it against one); no golden-comparison helper's
// defining file was retrieved with the teacher. Golden below fills that role
// directly against testify/require, which the teacher already uses throughout
// gopls/mcpbridge/test for assertions.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// update, when set via `go test -update`, overwrites every golden file a
// test compares against instead of failing on a mismatch.
var update = flag.Bool("update", false, "update golden files instead of comparing against them")

// Golden compares got against testdata/<name>, failing the test on a
// mismatch. With -update, it writes got to testdata/<name> instead.
func Golden(t *testing.T, name string, got string) {
	t.Helper()
	path := filepath.Join("testdata", name)

	if *update {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(got), 0o644))
		return
	}

	want, err := os.ReadFile(path)
	require.NoErrorf(t, err, "reading golden file %s (run with -update to create it)", path)
	require.Equal(t, string(want), got)
}
