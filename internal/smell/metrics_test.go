package smell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/testutil"
)

const middleManModule = `module example.com/middleman

go 1.25
`

const middleManSource = `package middleman

type helper struct{}

func (h *helper) A() int { return 1 }
func (h *helper) B() int { return 2 }
func (h *helper) C() int { return 3 }

type Wrapper struct {
	h *helper
}

func (w *Wrapper) A() int { return w.h.A() }
func (w *Wrapper) B() int { return w.h.B() }
func (w *Wrapper) C() int { return w.h.C() }
`

func TestComplexityChecks_MiddleMan(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":       middleManModule,
		"middleman.go": middleManSource,
	})
	sol, lerr := semantic.Load(context.Background(), dir)
	require.Nil(t, lerr)

	results, err := FindCodeSmells(sol, CategoryComplexity, "", false)
	require.Nil(t, err)

	var found bool
	for _, r := range results {
		if r.Smell == "Middle-man" && r.SymbolName == "Wrapper" {
			found = true
		}
	}
	require.True(t, found, "expected a Middle-man result for Wrapper, got %+v", results)
}
