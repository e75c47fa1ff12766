// Package refs is C4, the reference engine: references, callers, and usages
// (§4.3).
package refs

import (
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// Mode is the spec's mode ∈ {"all","callers","usages"} (§4.3).
type Mode string

const (
	ModeAll     Mode = "all"
	ModeCallers Mode = "callers"
	ModeUsages  Mode = "usages"
)

// Detail selects how much surrounding context a Result carries.
type Detail string

const (
	DetailCompact Detail = "compact"
	DetailFull    Detail = "full"
)

// Result is the spec's ReferenceResult (transport) entity (§3.1).
type Result struct {
	File             string
	Line             int
	Column           int
	CodeSnippet      string
	ContextBefore    []string
	ContextAfter     []string
	ContainingSymbol string
}

// FindReferences implements findReferences(path, symbolName, containingType?,
// projectScope?, detail, mode) (§4.3).
func FindReferences(sol *semantic.Solution, loc resolver.Locator, projectScope string, detail Detail, mode Mode) ([]Result, *core.Error) {
	sym, err := resolver.ResolveSymbol(sol, loc)
	if err != nil {
		return nil, err
	}
	if mode == ModeCallers && sym.Kind() != "method" {
		return nil, core.Errorf(core.InvalidInput, "refs.FindReferences", "callers mode requires a method-kind symbol, got %s", sym.Kind())
	}

	type hit struct {
		proj *semantic.Project
		pos  int
	}
	var hits []hit
	var mu sync.Mutex
	g := new(errgroup.Group)
	for _, proj := range sol.Projects {
		proj := proj
		g.Go(func() error {
			local := findInProject(proj, sym.Object, mode)
			mu.Lock()
			for _, p := range local {
				hits = append(hits, hit{proj: proj, pos: p})
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, core.Wrap(core.AnalysisFailed, "refs.FindReferences", err, "reference search failed")
	}

	var out []Result
	for _, h := range hits {
		if projectScope != "" && h.proj.Name != projectScope && h.proj.ImportPath != projectScope {
			continue
		}
		out = append(out, buildResult(h.proj, h.pos, detail))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out, nil
}

// findInProject returns the token.Pos of every identifier in proj that uses
// obj, plus the identifier that defines it for mode=all/usages. mode=callers
// keeps every use, not only those in call position (§4.3 step 3).
func findInProject(proj *semantic.Project, obj types.Object, mode Mode) []int {
	var positions []int
	for _, f := range proj.Pkg.Syntax {
		ast.Inspect(f, func(n ast.Node) bool {
			id, ok := n.(*ast.Ident)
			if !ok {
				return true
			}
			use := proj.Pkg.TypesInfo.Uses[id]
			def := proj.Pkg.TypesInfo.Defs[id]
			if use == obj || (mode != ModeCallers && def == obj) {
				positions = append(positions, int(id.Pos()))
			}
			return true
		})
	}
	return positions
}

func buildResult(proj *semantic.Project, pos int, detail Detail) Result {
	p := proj.Pkg.Fset.Position(token.Pos(pos))
	lines := fileLines(proj, p.Filename)
	r := Result{
		File:   p.Filename,
		Line:   p.Line,
		Column: p.Column,
	}
	if p.Line-1 < len(lines) {
		r.CodeSnippet = strings.TrimSpace(lines[p.Line-1])
	}
	if detail == DetailFull {
		for i := p.Line - 2; i >= 0 && i >= p.Line-3; i-- {
			if i < len(lines) {
				r.ContextBefore = append([]string{lines[i]}, r.ContextBefore...)
			}
		}
		for i := p.Line; i < p.Line+2 && i < len(lines); i++ {
			r.ContextAfter = append(r.ContextAfter, lines[i])
		}
		r.ContainingSymbol = enclosingDecl(proj, p.Filename, pos)
	}
	return r
}

func enclosingDecl(proj *semantic.Project, filename string, pos int) string {
	for _, f := range proj.Pkg.Syntax {
		if proj.Pkg.Fset.Position(f.Pos()).Filename != filename {
			continue
		}
		var best ast.Decl
		for _, d := range f.Decls {
			if int(d.Pos()) <= pos && pos <= int(d.End()) {
				best = d
			}
		}
		switch d := best.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil && len(d.Recv.List) > 0 {
				return receiverTypeName(d.Recv.List[0].Type) + "." + d.Name.Name
			}
			return d.Name.Name
		case *ast.GenDecl:
			if len(d.Specs) > 0 {
				if ts, ok := d.Specs[0].(*ast.TypeSpec); ok {
					return ts.Name.Name
				}
			}
		}
	}
	return ""
}

func receiverTypeName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		return "*" + receiverTypeName(star.X)
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func fileLines(proj *semantic.Project, filename string) []string {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}
