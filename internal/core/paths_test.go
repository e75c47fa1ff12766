package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	root := filepath.FromSlash("/workspace/project")

	got, err := NormalizePath(root, "foo/bar.go")
	require.Nil(t, err)
	require.Equal(t, "/workspace/project/foo/bar.go", got)

	got, err = NormalizePath(root, "/elsewhere/file.go")
	require.Nil(t, err)
	require.Equal(t, "/elsewhere/file.go", got)

	_, err = NormalizePath(root, "")
	require.NotNil(t, err)
	require.Equal(t, InvalidInput, err.Kind)
}

func TestRelativeTo(t *testing.T) {
	root := filepath.FromSlash("/workspace/project")

	require.Equal(t, "foo/bar.go", RelativeTo(root, filepath.FromSlash("/workspace/project/foo/bar.go")))
	require.Equal(t, "/elsewhere/file.go", RelativeTo(root, filepath.FromSlash("/elsewhere/file.go")))
}

func TestLocation(t *testing.T) {
	require.Equal(t, "foo.go:42", Location("foo.go", 42))
	require.Equal(t, "foo.go", Location("foo.go", 0))
}
