package smell

import (
	"fmt"
	"go/ast"
	"go/types"

	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// featureEnvy implements §4.6.3's deep-mode-only check: a method whose body
// accesses members of some other type's instances more than it accesses its
// own receiver's members, accessing that other type at least three times.
// This is the one check the spec gates behind deep=true, since it requires
// walking every method body rather than just signatures (§4.6.3).
func featureEnvy(proj *semantic.Project, named *types.Named, sym *semantic.Symbol) []Result {
	var out []Result
	recvName := named.Obj().Name()

	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		fn := findFuncDeclFor(proj, m)
		if fn == nil || fn.Body == nil || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}
		recvIdent := receiverIdentName(fn)
		if recvIdent == "" {
			continue
		}

		counts := map[string]int{}
		ownCount := 0

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			base, ok := sel.X.(*ast.Ident)
			if !ok {
				return true
			}
			if base.Name == recvIdent {
				ownCount++
				return true
			}
			t := proj.Pkg.TypesInfo.TypeOf(base)
			if t == nil {
				return true
			}
			if ptr, ok := t.(*types.Pointer); ok {
				t = ptr.Elem()
			}
			other, ok := t.(*types.Named)
			if !ok || other == named {
				return true
			}
			counts[other.Obj().Name()]++
			return true
		})

		for otherName, n := range counts {
			if n >= 3 && n > ownCount {
				file, _, _ := sym.Pos()
				line := proj.Pkg.Fset.Position(fn.Pos()).Line
				out = append(out, result("Feature envy", SeverityWarning, recvName+"."+m.Name(),
					fmt.Sprintf("accesses %s %d times vs. own receiver %d times", otherName, n, ownCount), file, line))
			}
		}
	}
	return out
}

func findFuncDeclFor(proj *semantic.Project, m *types.Func) *ast.FuncDecl {
	for _, f := range proj.Pkg.Syntax {
		for _, d := range f.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok && fd.Name.Pos() == m.Pos() {
				return fd
			}
		}
	}
	return nil
}

func receiverIdentName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 || len(fn.Recv.List[0].Names) == 0 {
		return ""
	}
	return fn.Recv.List[0].Names[0].Name
}
