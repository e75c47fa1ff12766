package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/testutil"
)

const greeterModule = `module example.com/greeter

go 1.25
`

const greeterSource = `package greeter

// Greeter says hello.
type Greeter struct {
	Name string
}

// Hello returns a greeting for g.
func (g *Greeter) Hello() string {
	return "Hello, " + g.Name
}

func (g *Greeter) Hello2() string {
	return "Hi, " + g.Name
}
`

func loadGreeter(t *testing.T) *semantic.Solution {
	t.Helper()
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":      greeterModule,
		"greeter.go": greeterSource,
	})
	sol, err := semantic.Load(context.Background(), dir)
	require.Nil(t, err)
	return sol
}

func TestResolveType_Found(t *testing.T) {
	sol := loadGreeter(t)
	sym, err := ResolveType(sol, Locator{Name: "Greeter"})
	require.Nil(t, err)
	require.Equal(t, "Greeter", sym.Object.Name())
}

func TestResolveType_NotFound(t *testing.T) {
	sol := loadGreeter(t)
	_, err := ResolveType(sol, Locator{Name: "DoesNotExist"})
	require.NotNil(t, err)
	require.Equal(t, "not_found", err.Kind.String())
}

func TestResolveSymbol_Member(t *testing.T) {
	sol := loadGreeter(t)
	sym, err := ResolveSymbol(sol, Locator{Name: "Hello", ContainingType: "Greeter"})
	require.Nil(t, err)
	require.Equal(t, "Hello", sym.Object.Name())
}

func TestResolveMethod_NoOverload(t *testing.T) {
	sol := loadGreeter(t)
	sym, warning, err := ResolveMethod(sol, Locator{Name: "Hello"})
	require.Nil(t, err)
	require.Empty(t, warning)
	require.Equal(t, "Hello", sym.Object.Name())
}

func TestAllNamedTypes(t *testing.T) {
	sol := loadGreeter(t)
	proj, perr := sol.LookupProject("")
	require.Nil(t, perr)
	types := AllNamedTypes(proj)
	require.Len(t, types, 1)
	require.Equal(t, "Greeter", types[0].Object.Name())
}
