package smell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/testutil"
)

const refusedBequestModule = `module example.com/smell

go 1.25
`

const refusedBequestSource = `package smell

type Base struct{}

func (b *Base) One() int   { return 1 }
func (b *Base) Two() int   { return 2 }
func (b *Base) Three() int { return 3 }
func (b *Base) Four() int  { return 4 }

type Derived struct {
	Base
}

func (d *Derived) Five() int { return 5 }
`

func TestStructuralChecks_RefusedBequest(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":   refusedBequestModule,
		"smell.go": refusedBequestSource,
	})
	sol, lerr := semantic.Load(context.Background(), dir)
	require.Nil(t, lerr)

	results, err := FindCodeSmells(sol, CategoryInheritance, "", false)
	require.Nil(t, err)

	var found bool
	for _, r := range results {
		if r.Smell == "Refused bequest" && r.SymbolName == "Derived" {
			found = true
		}
	}
	require.True(t, found, "expected a Refused bequest result for Derived, got %+v", results)
}

func TestSetThresholds_OverridesCutoffs(t *testing.T) {
	orig := current
	defer func() { current = orig }()

	SetThresholds(Thresholds{RefusedBequestMinBase: 100})

	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":   refusedBequestModule,
		"smell.go": refusedBequestSource,
	})
	sol, lerr := semantic.Load(context.Background(), dir)
	require.Nil(t, lerr)

	results, err := FindCodeSmells(sol, CategoryInheritance, "", false)
	require.Nil(t, err)
	for _, r := range results {
		require.NotEqual(t, "Refused bequest", r.Smell)
	}
}
