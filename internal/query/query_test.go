package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/testutil"
)

const hierarchyModule = `module example.com/hierarchy

go 1.25
`

// A embeds nothing, B embeds A, object is the implicit root (§0.1: embedding
// stands in for single inheritance, "any" stands in for the universal base).
const hierarchySource = `package hierarchy

type A struct {
	Name string
}

func (a *A) Describe() string { return "A:" + a.Name }

type B struct {
	A
	Extra int
}

func (b *B) Describe() string { return "B:" + b.A.Describe() }

type Aux struct{}
`

func loadHierarchy(t *testing.T) *semantic.Solution {
	t.Helper()
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":        hierarchyModule,
		"hierarchy.go": hierarchySource,
	})
	sol, err := semantic.Load(context.Background(), dir)
	require.Nil(t, err)
	return sol
}

func TestTypeHierarchy_BaseChain(t *testing.T) {
	sol := loadHierarchy(t)
	res, err := TypeHierarchy(sol, "B")
	require.Nil(t, err)
	require.Equal(t, []string{"A", "any"}, res.BaseTypes)
}

func TestFindOverrides_Found(t *testing.T) {
	sol := loadHierarchy(t)
	hits, err := FindOverrides(sol, "B", "Describe")
	require.Nil(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "Describe", hits[0].Name)
}

func TestFindOverrides_NotOverridden(t *testing.T) {
	sol := loadHierarchy(t)
	_, err := FindOverrides(sol, "B", "NoSuchMethod")
	require.NotNil(t, err)
	require.Equal(t, "invalid_input", err.Kind.String())
}

const furtherOverrideModule = `module example.com/furtheroverride

go 1.25
`

// A base, B overrides Describe, C embeds B and overrides Describe again —
// findOverrides("B", "Describe") must walk down into C, not just re-report
// B's own declaration.
const furtherOverrideSource = `package furtheroverride

type A struct{}

func (a *A) Describe() string { return "A" }

type B struct {
	A
}

func (b *B) Describe() string { return "B" }

type C struct {
	B
}

func (c *C) Describe() string { return "C" }
`

func TestFindOverrides_WalksDownToFurtherOverrides(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":             furtherOverrideModule,
		"furtheroverride.go": furtherOverrideSource,
	})
	sol, lerr := semantic.Load(context.Background(), dir)
	require.Nil(t, lerr)

	hits, err := FindOverrides(sol, "B", "Describe")
	require.Nil(t, err)

	var names []string
	for _, h := range hits {
		names = append(names, h.FQName)
	}
	require.Len(t, hits, 2, "expected B's own override plus C's further override, got %+v", hits)
}

func TestListNamespaces(t *testing.T) {
	sol := loadHierarchy(t)
	ns := ListNamespaces(sol)
	require.Contains(t, ns, "example.com/hierarchy")
}

func TestFindSymbols_ExactVsSubstring(t *testing.T) {
	sol := loadHierarchy(t)

	exact := FindSymbols(sol, "A", "", true, DetailCompact)
	require.Len(t, exact, 1)
	require.Equal(t, "A", exact[0].Name)

	substring := FindSymbols(sol, "A", "", false, DetailCompact)
	var names []string
	for _, h := range substring {
		names = append(names, h.Name)
	}
	require.ElementsMatch(t, []string{"A", "Aux"}, names)
}
