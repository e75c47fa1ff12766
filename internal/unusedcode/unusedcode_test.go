package unusedcode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/testutil"
)

const unusedModule = `module example.com/unused

go 1.25
`

const unusedSource = `package unused

type widget struct{}

func (w *widget) used() int { return 1 }

func (w *widget) unusedHelper() int { return 2 }

func main() {
	w := &widget{}
	_ = w.used()
}
`

func TestFindUnusedCode_PrivateScope(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":  unusedModule,
		"main.go": unusedSource,
	})
	sol, lerr := semantic.Load(context.Background(), dir)
	require.Nil(t, lerr)

	results, warning, err := FindUnusedCode(sol, ScopePrivate, "")
	require.Nil(t, err)
	require.Empty(t, warning)

	var names []string
	for _, r := range results {
		names = append(names, r.SymbolName)
	}
	require.Contains(t, names, "widget.unusedHelper")
	require.NotContains(t, names, "widget.used")
}
