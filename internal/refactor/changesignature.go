package refactor

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"sort"
	"strings"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// AddedParam is one entry of the addParameters input (§4.5.4): "type name"
// with an optional "= defaultValue".
type AddedParam struct {
	Type, Name, Default string
	HasDefault          bool
}

// ChangeSignatureInput groups the three comma-separated inputs the spec
// names (§4.5.4).
type ChangeSignatureInput struct {
	AddParameters     []AddedParam
	RemoveParameters  []string
	ReorderParameters []string
}

// ChangeSignatureResult is the summary produced by ChangeSignature.
type ChangeSignatureResult struct {
	Changes []FileChange
}

// ParseAddedParams splits a comma-separated "type name[= default], ..."
// string respecting angle-bracket nesting depth (§4.5.4: "the type may
// itself contain commas inside generic angle brackets, so the splitter
// must respect angle-bracket nesting depth" — ported to Go's own generic
// syntax `[T]`/`map[K]V`/`[]T`, whose bracket-nesting plays the same role
// the source's angle brackets did).
func ParseAddedParams(spec string) []AddedParam {
	var out []AddedParam
	for _, part := range splitRespectingBrackets(spec) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var p AddedParam
		if idx := strings.Index(part, "="); idx >= 0 {
			p.Default = strings.TrimSpace(part[idx+1:])
			p.HasDefault = true
			part = strings.TrimSpace(part[:idx])
		}
		fields := strings.Fields(part)
		if len(fields) >= 2 {
			p.Name = fields[len(fields)-1]
			p.Type = strings.Join(fields[:len(fields)-1], " ")
		} else if len(fields) == 1 {
			p.Type = fields[0]
		}
		out = append(out, p)
	}
	return out
}

func splitRespectingBrackets(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// ChangeSignature implements changeSignature (§4.5.4).
func ChangeSignature(sol *semantic.Solution, loc resolver.Locator, in ChangeSignatureInput) (*ChangeSignatureResult, *core.Error) {
	sym, warning, err := resolver.ResolveMethod(sol, loc)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		fmt.Fprintln(os.Stderr, warning)
	}

	fn, fset, ok := findFuncDecl(sym)
	if !ok {
		return nil, core.Errorf(core.InvalidInput, "refactor.ChangeSignature", "%q has no in-source declaration", loc.Name)
	}

	oldNames := paramNames(fn)
	if err := validateNames(in.RemoveParameters, oldNames, "removeParameters"); err != nil {
		return nil, err
	}
	surviving := subtract(oldNames, in.RemoveParameters)
	if err := validateNames(in.ReorderParameters, surviving, "reorderParameters"); err != nil {
		return nil, err
	}

	newOrder := buildNewOrder(surviving, in.ReorderParameters)

	result := &ChangeSignatureResult{}
	declFile := fset.Position(fn.Pos()).Filename
	declBefore, rerr := os.ReadFile(declFile)
	if rerr != nil {
		return nil, core.Wrap(core.AnalysisFailed, "refactor.ChangeSignature", rerr, "reading %s", declFile)
	}

	callSites := findCallSites(sol, sym.Object)
	byFile := map[string][]*ast.CallExpr{}
	for _, c := range callSites {
		f := fset.Position(c.Pos()).Filename
		byFile[f] = append(byFile[f], c)
	}

	declEdits := []Edit{buildDeclEdit(fset, fn, newOrder, in.AddParameters)}
	for _, call := range byFile[declFile] {
		declEdits = append(declEdits, buildCallEdit(fset, call, declBefore, oldNames, newOrder, in))
	}
	declAfter := ApplyEdits(string(declBefore), declEdits)
	result.Changes = append(result.Changes, FileChange{Path: declFile, Before: string(declBefore), After: declAfter})

	var files []string
	for f := range byFile {
		if f == declFile {
			continue
		}
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		before, rerr := os.ReadFile(file)
		if rerr != nil {
			continue
		}
		var edits []Edit
		for _, call := range byFile[file] {
			edits = append(edits, buildCallEdit(fset, call, before, oldNames, newOrder, in))
		}
		after := ApplyEdits(string(before), edits)
		result.Changes = append(result.Changes, FileChange{Path: file, Before: string(before), After: after})
	}

	return result, nil
}

func findFuncDecl(sym *semantic.Symbol) (*ast.FuncDecl, *token.FileSet, bool) {
	fset := sym.Project.Pkg.Fset
	pos := sym.Object.Pos()
	for _, f := range sym.Project.Pkg.Syntax {
		for _, d := range f.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok && fd.Name.Pos() == pos {
				return fd, fset, true
			}
		}
	}
	return nil, fset, false
}

func paramNames(fn *ast.FuncDecl) []string {
	var out []string
	for _, field := range fn.Type.Params.List {
		if len(field.Names) == 0 {
			out = append(out, "_")
			continue
		}
		for _, n := range field.Names {
			out = append(out, n.Name)
		}
	}
	return out
}

func validateNames(names, universe []string, label string) *core.Error {
	set := map[string]bool{}
	for _, u := range universe {
		set[u] = true
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if !set[n] {
			return core.Errorf(core.InvalidInput, "refactor.ChangeSignature", "%s: %q is not a surviving parameter", label, n)
		}
	}
	return nil
}

func subtract(all, remove []string) []string {
	removeSet := map[string]bool{}
	for _, r := range remove {
		removeSet[strings.TrimSpace(r)] = true
	}
	var out []string
	for _, a := range all {
		if !removeSet[a] {
			out = append(out, a)
		}
	}
	return out
}

// buildNewOrder implements §4.5.4 step 3: start from surviving parameters
// in reorderParameters's order, then append any surviving names not
// mentioned, in their original order.
func buildNewOrder(surviving, reorder []string) []string {
	mentioned := map[string]bool{}
	var out []string
	for _, r := range reorder {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
		mentioned[r] = true
	}
	for _, s := range surviving {
		if !mentioned[s] {
			out = append(out, s)
		}
	}
	return out
}

func buildDeclEdit(fset *token.FileSet, fn *ast.FuncDecl, newOrder []string, added []AddedParam) Edit {
	byName := map[string]*ast.Field{}
	for _, field := range fn.Type.Params.List {
		for _, n := range field.Names {
			byName[n.Name] = field
		}
	}
	var parts []string
	for _, name := range newOrder {
		field := byName[name]
		if field == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", name, typeText(field.Type)))
	}
	for _, p := range added {
		if p.HasDefault {
			// Default value parameters apply at the call site, not the
			// declaration text (§4.5.4 step 5): still declared, just with
			// no corresponding synthetic call-site argument.
		}
		parts = append(parts, fmt.Sprintf("%s %s", p.Name, p.Type))
	}
	newText := "(" + strings.Join(parts, ", ") + ")"
	start := fset.Position(fn.Type.Params.Pos()).Offset
	end := fset.Position(fn.Type.Params.End()).Offset
	return Edit{Start: start, End: end, NewText: newText}
}

func typeText(expr ast.Expr) string {
	var b strings.Builder
	_ = printNode(&b, expr)
	return b.String()
}

// printNode renders expr's source text without importing go/printer's full
// machinery for this narrow case — parameter types in this codebase are
// simple enough (named types, pointers, slices, maps, qualified idents)
// that a direct AST walk is clearer than round-tripping through a printer
// config.
func printNode(b *strings.Builder, expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Ident:
		b.WriteString(e.Name)
	case *ast.StarExpr:
		b.WriteString("*")
		return printNode(b, e.X)
	case *ast.SelectorExpr:
		if err := printNode(b, e.X); err != nil {
			return err
		}
		b.WriteString(".")
		b.WriteString(e.Sel.Name)
	case *ast.ArrayType:
		b.WriteString("[]")
		return printNode(b, e.Elt)
	case *ast.MapType:
		b.WriteString("map[")
		_ = printNode(b, e.Key)
		b.WriteString("]")
		return printNode(b, e.Value)
	case *ast.Ellipsis:
		b.WriteString("...")
		return printNode(b, e.Elt)
	case *ast.InterfaceType:
		b.WriteString("any")
	default:
		fmt.Fprintf(b, "%T", expr)
	}
	return nil
}

// findCallSites returns every *ast.CallExpr across the solution whose
// callee resolves to fn (§4.5.4 step 4: "the provider's caller-finder,
// method-direct callers only").
func findCallSites(sol *semantic.Solution, fn types.Object) []*ast.CallExpr {
	var out []*ast.CallExpr
	for _, proj := range sol.Projects {
		for _, f := range proj.Pkg.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				var callee ast.Expr = call.Fun
				if sel, ok := callee.(*ast.SelectorExpr); ok {
					callee = sel.Sel
				}
				id, ok := callee.(*ast.Ident)
				if !ok {
					return true
				}
				if proj.Pkg.TypesInfo.Uses[id] == fn {
					out = append(out, call)
				}
				return true
			})
		}
	}
	return out
}

// buildCallEdit rewrites one call site's argument list per §4.5.4 step 5:
// map existing arguments to parameter names (positional only — Go has no
// named-argument call syntax, so the "named → by the given name" branch of
// the spec's algorithm never triggers here; every call is positional),
// drop removed parameters, reorder, and insert zero-value placeholders for
// new parameters without a default.
func buildCallEdit(fset *token.FileSet, call *ast.CallExpr, src []byte, oldNames, newOrder []string, in ChangeSignatureInput) Edit {
	argByName := map[string]ast.Expr{}
	for i, name := range oldNames {
		if i < len(call.Args) {
			argByName[name] = call.Args[i]
		}
	}
	var parts []string
	for _, name := range newOrder {
		if arg, ok := argByName[name]; ok {
			parts = append(parts, exprText(fset, src, arg))
		}
	}
	for _, p := range in.AddParameters {
		if p.HasDefault {
			continue
		}
		parts = append(parts, zeroValueLiteral(p.Type))
	}
	newText := "(" + strings.Join(parts, ", ") + ")"
	start := fset.Position(call.Lparen).Offset
	end := fset.Position(call.Rparen).Offset + 1
	return Edit{Start: start, End: end, NewText: newText}
}

// exprText returns expr's text exactly as it appears in src, the contents
// of the file expr was parsed from.
func exprText(fset *token.FileSet, src []byte, expr ast.Expr) string {
	start := fset.Position(expr.Pos()).Offset
	end := fset.Position(expr.End()).Offset
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}

// zeroValueLiteral renders the Go analogue of the spec's `default(type)`
// synthetic argument (§4.5.4 step 5) for a newly-added parameter with no
// default.
func zeroValueLiteral(typ string) string {
	switch {
	case strings.HasPrefix(typ, "*"), strings.HasPrefix(typ, "[]"), strings.HasPrefix(typ, "map["), typ == "error", typ == "any":
		return "nil"
	case typ == "string":
		return `""`
	case typ == "bool":
		return "false"
	case strings.HasPrefix(typ, "int"), strings.HasPrefix(typ, "uint"), strings.HasPrefix(typ, "float"):
		return "0"
	default:
		return typ + "{}"
	}
}
