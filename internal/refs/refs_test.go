package refs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/testutil"
)

const refsModule = `module example.com/refs

go 1.25
`

const refsSource = `package refs

type Greeter struct{}

func (g *Greeter) Hello() string { return "hi" }

func call1(g *Greeter) string { return g.Hello() }

func call2(g *Greeter) string { return g.Hello() }
`

func loadRefsFixture(t *testing.T) *semantic.Solution {
	t.Helper()
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":  refsModule,
		"main.go": refsSource,
	})
	sol, err := semantic.Load(context.Background(), dir)
	require.Nil(t, err)
	return sol
}

func TestFindReferences_Callers(t *testing.T) {
	sol := loadRefsFixture(t)
	results, err := FindReferences(sol, resolver.Locator{Name: "Hello", ContainingType: "Greeter"}, "", DetailCompact, ModeCallers)
	require.Nil(t, err)
	require.Len(t, results, 2)
}

func TestFindReferences_CallersRejectsNonMethod(t *testing.T) {
	sol := loadRefsFixture(t)
	_, err := FindReferences(sol, resolver.Locator{Name: "Greeter"}, "", DetailCompact, ModeCallers)
	require.NotNil(t, err)
	require.Equal(t, "invalid_input", err.Kind.String())
}
