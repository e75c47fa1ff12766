// Package format is C8, the result formatter: compact, line-oriented,
// LF-terminated plain text — never a machine-parseable schema (§4.7).
package format

import (
	"fmt"
	"go/types"
	"strings"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/query"
	"github.com/codelens-dev/codelens-mcp/internal/refs"
)

// Signature canonicalizes obj's signature text per §4.7: visibility
// lower-cased, modifiers in canonical order, return type then name then
// parameter list. Go has no explicit visibility keyword (exported-ness is
// spelled by capitalization, §0 mapping), so the "visibility keyword" slot
// renders "public"/"private" the way the spec's output vocabulary expects,
// derived from the identifier's capitalization.
func Signature(obj types.Object) string {
	vis := "private"
	if obj.Exported() {
		vis = "public"
	}
	switch o := obj.(type) {
	case *types.Func:
		sig := o.Type().(*types.Signature)
		return fmt.Sprintf("%s func %s%s", vis, o.Name(), paramsAndResults(sig))
	case *types.TypeName:
		kind := "type"
		if _, ok := o.Type().Underlying().(*types.Interface); ok {
			kind = "interface"
		} else if _, ok := o.Type().Underlying().(*types.Struct); ok {
			kind = "struct"
		}
		return fmt.Sprintf("%s %s %s", vis, kind, o.Name())
	case *types.Var:
		return fmt.Sprintf("%s var %s %s", vis, o.Name(), o.Type().String())
	case *types.Const:
		return fmt.Sprintf("%s const %s %s", vis, o.Name(), o.Type().String())
	default:
		return fmt.Sprintf("%s %s", vis, obj.Name())
	}
}

// SignatureParamsOnly renders just the "(params) results" portion of sig,
// used by the refactoring engine when emitting an interface member line
// (§4.5.2 step 3: "one member signature per line").
func SignatureParamsOnly(sig *types.Signature) string {
	return paramsAndResults(sig)
}

func paramsAndResults(sig *types.Signature) string {
	var b strings.Builder
	b.WriteString("(")
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(params.At(i).Type().String())
	}
	b.WriteString(")")
	if res := sig.Results(); res.Len() > 0 {
		b.WriteString(" ")
		if res.Len() > 1 {
			b.WriteString("(")
		}
		for i := 0; i < res.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(res.At(i).Type().String())
		}
		if res.Len() > 1 {
			b.WriteString(")")
		}
	}
	return b.String()
}

// Location renders the spec's "<path>:<line>" location format (§4.7).
func Location(relPath string, line int) string {
	return core.Location(relPath, line)
}

// LocationSnippet appends " - <trimmed line>" to Location, per §4.7's
// snippet variant.
func LocationSnippet(relPath string, line int, snippet string) string {
	return fmt.Sprintf("%s - %s", Location(relPath, line), strings.TrimSpace(snippet))
}

// SymbolList renders query.SymbolHit values in the compact or full list
// form (§4.7): compact is one line per entity; full adds an indented
// doc-summary sub-line and an indented source body when present.
func SymbolList(root string, hits []query.SymbolHit, detail query.Detail) string {
	var b strings.Builder
	for _, h := range hits {
		rel := core.RelativeTo(root, h.File)
		fmt.Fprintf(&b, "%s (%s) [%s]\n", h.Name, h.Kind, Location(rel, h.Line))
		if detail == query.DetailFull {
			if h.DocSummary != "" {
				fmt.Fprintf(&b, "    %s\n", indentJoin(h.DocSummary))
			}
			if h.Body != "" {
				fmt.Fprintf(&b, "    %s\n", indentJoin(h.Body))
			}
		}
	}
	return toLF(b.String())
}

// ReferenceList renders refs.Result values (§4.7).
func ReferenceList(root string, hits []refs.Result) string {
	var b strings.Builder
	for _, h := range hits {
		rel := core.RelativeTo(root, h.File)
		fmt.Fprintf(&b, "%s\n", LocationSnippet(rel, h.Line, h.CodeSnippet))
		if h.ContainingSymbol != "" {
			fmt.Fprintf(&b, "    in %s\n", h.ContainingSymbol)
		}
		for _, c := range h.ContextBefore {
			fmt.Fprintf(&b, "  | %s\n", c)
		}
		for _, c := range h.ContextAfter {
			fmt.Fprintf(&b, "  | %s\n", c)
		}
	}
	return toLF(b.String())
}

func indentJoin(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return strings.Join(lines, "\n    ")
}

func toLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
