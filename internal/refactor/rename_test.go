package refactor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/testutil"
)

const renameModule = `module example.com/rename

go 1.25
`

const fooSource = `package rename

type Foo struct {
	Value int
}

func NewFoo() *Foo { return &Foo{} }
`

const userSource = `package rename

func UseFoo(f *Foo) int { return f.Value }
`

func loadRenameFixture(t *testing.T) *semantic.Solution {
	t.Helper()
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":  renameModule,
		"foo.go":  fooSource,
		"user.go": userSource,
	})
	sol, err := semantic.Load(context.Background(), dir)
	require.Nil(t, err)
	return sol
}

func TestRename_RewritesEveryUseAndRenamesFile(t *testing.T) {
	sol := loadRenameFixture(t)
	result, err := Rename(sol, resolver.Locator{Name: "Foo", Kind: "type"}, "Bar")
	require.Nil(t, err)

	require.NotEmpty(t, result.RenamedPath)
	require.True(t, strings.HasSuffix(result.RenamedTo, "Bar.go"))

	require.Len(t, result.Changes, 2)
	var fooChange, userChange FileChange
	for _, fc := range result.Changes {
		if strings.HasSuffix(fc.Path, "foo.go") {
			fooChange = fc
		} else {
			userChange = fc
		}
	}
	require.Contains(t, fooChange.After, "type Bar struct")
	require.Contains(t, fooChange.After, "func NewFoo() *Bar")
	require.Contains(t, userChange.After, "func UseFoo(f *Bar) int")
}

func TestRename_RejectsInvalidIdentifier(t *testing.T) {
	sol := loadRenameFixture(t)
	_, err := Rename(sol, resolver.Locator{Name: "Foo", Kind: "type"}, "not valid")
	require.NotNil(t, err)
	require.Equal(t, "invalid_input", err.Kind.String())
}
