package refactor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/testutil"
)

const changeSigModule = `module example.com/changesig

go 1.25
`

const changeSigSource = `package changesig

func Connect(host string, port int) string {
	return host
}

func dial() string {
	return Connect("localhost", 8080)
}
`

func TestChangeSignature_ReorderParameters(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":  changeSigModule,
		"main.go": changeSigSource,
	})
	sol, lerr := semantic.Load(context.Background(), dir)
	require.Nil(t, lerr)

	result, err := ChangeSignature(sol, resolver.Locator{Name: "Connect"}, ChangeSignatureInput{
		ReorderParameters: []string{"port", "host"},
	})
	require.Nil(t, err)
	require.NotEmpty(t, result.Changes)

	var declAfter string
	for _, fc := range result.Changes {
		if fc.After != "" {
			declAfter = fc.After
		}
	}
	require.Contains(t, declAfter, "func Connect(port int, host string) string")
}

const changeSigDeclSource = `package changesig

func Connect(host string, port int) string {
	return host
}
`

const changeSigCallerSource = `package changesig

func dial() string {
	return Connect("localhost", 8080)
}
`

func TestChangeSignature_AddOnlyWithDefaultLeavesCallSitesUntouched(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"go.mod":    changeSigModule,
		"decl.go":   changeSigDeclSource,
		"caller.go": changeSigCallerSource,
	})
	sol, lerr := semantic.Load(context.Background(), dir)
	require.Nil(t, lerr)

	result, err := ChangeSignature(sol, resolver.Locator{Name: "Connect"}, ChangeSignatureInput{
		AddParameters: []AddedParam{{Type: "bool", Name: "secure", Default: "false", HasDefault: true}},
	})
	require.Nil(t, err)

	var declAfter, callAfter string
	for _, fc := range result.Changes {
		switch fc.Path {
		case filepath.Join(dir, "decl.go"):
			declAfter = fc.After
		case filepath.Join(dir, "caller.go"):
			callAfter = fc.After
		}
	}
	require.Contains(t, declAfter, "func Connect(host string, port int, secure bool) string")
	require.Contains(t, callAfter, `Connect("localhost", 8080)`, "call site must stay untouched when the only added parameter has a default")
}

func TestParseAddedParams(t *testing.T) {
	got := ParseAddedParams("int timeout = 30, string label")
	require.Len(t, got, 2)
	require.Equal(t, AddedParam{Type: "int", Name: "timeout", Default: "30", HasDefault: true}, got[0])
	require.Equal(t, AddedParam{Type: "string", Name: "label"}, got[1])
}
