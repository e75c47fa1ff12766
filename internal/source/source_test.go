package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/testutil"
)

const sourceModule = `module example.com/source

go 1.25
`

const sourceFile = `package source

type Greeter struct {
	Name string
}

func (g *Greeter) Hello() string {
	return "hello, " + g.Name
}
`

func loadSource(t *testing.T) *semantic.Solution {
	t.Helper()
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":     sourceModule,
		"greeter.go": sourceFile,
	})
	sol, err := semantic.Load(context.Background(), dir)
	require.Nil(t, err)
	return sol
}

func TestReadFile_FullFile(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"a.txt": "one\ntwo\nthree\n",
	})
	text, err := ReadFile(dir, "a.txt", 0, 0)
	require.Nil(t, err)
	require.Equal(t, "1: one\n2: two\n3: three\n", text)
}

func TestReadFile_LineRange(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"a.txt": "one\ntwo\nthree\nfour\n",
	})
	text, err := ReadFile(dir, "a.txt", 2, 3)
	require.Nil(t, err)
	require.Equal(t, "2: two\n3: three\n", text)
}

func TestReadFile_OutOfBoundsRange(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"a.txt": "one\ntwo\n",
	})
	_, err := ReadFile(dir, "a.txt", 5, 6)
	require.NotNil(t, err)
	require.Equal(t, "invalid_input", err.Kind.String())
}

func TestReadFile_TooLarge(t *testing.T) {
	dir := t.TempDir()
	big := strings.Repeat("x", MaxFileSize+1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), []byte(big), 0o644))

	_, err := ReadFile(dir, "big.txt", 0, 0)
	require.NotNil(t, err)
	require.Equal(t, "too_large", err.Kind.String())
}

func TestSymbolSource_DeclarationOnly(t *testing.T) {
	sol := loadSource(t)
	text, err := SymbolSource(sol, resolver.Locator{Name: "Hello", ContainingType: "Greeter"})
	require.Nil(t, err)
	require.Contains(t, text, "func (g *Greeter) Hello() string {")
	require.NotContains(t, text, "type Greeter struct")
}
