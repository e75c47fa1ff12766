// Package unusedcode supplements the distilled spec (§6.1 names
// findUnusedCode but the distillation dropped its body — SPEC_FULL.md §5
// rebuilds it on top of C4's reference engine). It never deletes anything;
// it only reports.
package unusedcode

import (
	"go/ast"
	"go/types"
	"sort"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/refs"
	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
	"github.com/codelens-dev/codelens-mcp/internal/smell"
)

// Scope selects which symbols findUnusedCode considers (SPEC_FULL.md §5).
type Scope string

const (
	// ScopePrivate is the default, conservative scope: unexported symbols
	// only.
	ScopePrivate Scope = "private"
	// ScopeAll additionally includes exported symbols, but only when the
	// solution is closed (every project is a main-package closure).
	ScopeAll Scope = "all"
)

// FindUnusedCode implements findUnusedCode(scope, projectName?) (SPEC_FULL.md §5).
func FindUnusedCode(sol *semantic.Solution, scope Scope, projectName string) ([]smell.Result, string, *core.Error) {
	if scope == "" {
		scope = ScopePrivate
	}

	var projects []*semantic.Project
	if projectName != "" {
		p, err := sol.LookupProject(projectName)
		if err != nil {
			return nil, "", err
		}
		projects = []*semantic.Project{p}
	} else {
		projects = sol.Projects
	}

	var warning string
	includeExported := false
	if scope == ScopeAll {
		if isClosedSolution(sol) {
			includeExported = true
		} else {
			warning = "findUnusedCode: scope=all requested but the solution is not a closed main-package build; exported symbols were skipped"
		}
	}

	var out []smell.Result
	for _, proj := range projects {
		for _, sym := range candidateSymbols(proj) {
			if !includeExported && sym.Object.Exported() {
				continue
			}
			if isExcluded(sym) {
				continue
			}
			if hasReferences(sol, proj, sym) {
				continue
			}
			file, line, _ := sym.Pos()
			out = append(out, smell.Result{
				Smell:      "Unused code",
				Severity:   "info",
				SymbolName: sym.DisplayName,
				Detail:     "no references found outside its own declaration",
				File:       file,
				Line:       line,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out, warning, nil
}

// candidateSymbols enumerates every source-defined method, field, and named
// type declared directly in proj (SPEC_FULL.md §5: "kind {method, field, type}").
func candidateSymbols(proj *semantic.Project) []*semantic.Symbol {
	var out []*semantic.Symbol
	for _, tsym := range resolver.AllNamedTypes(proj) {
		if !tsym.InSource {
			continue
		}
		out = append(out, tsym)

		named, ok := tsym.Object.(*types.TypeName).Type().(*types.Named)
		if !ok {
			continue
		}
		for i := 0; i < named.NumMethods(); i++ {
			m := named.Method(i)
			if !m.Pos().IsValid() {
				continue
			}
			out = append(out, &semantic.Symbol{Object: m, Project: proj, InSource: true, DisplayName: tsym.Object.Name() + "." + m.Name()})
		}
		if st, ok := named.Underlying().(*types.Struct); ok {
			for i := 0; i < st.NumFields(); i++ {
				f := st.Field(i)
				if !f.Pos().IsValid() || f.Embedded() {
					continue
				}
				out = append(out, &semantic.Symbol{Object: f, Project: proj, InSource: true, DisplayName: tsym.Object.Name() + "." + f.Name()})
			}
		}
	}
	return out
}

// isExcluded reports whether sym is a type whose doc comment carries the
// codelens:ignore or codelens:generated pragma (SPEC_FULL.md §0.2 marker #1).
func isExcluded(sym *semantic.Symbol) bool {
	for _, f := range sym.Project.Pkg.Syntax {
		for _, d := range f.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gd.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok && ts.Name.Pos() == sym.Object.Pos() {
					return semantic.HasPragma(gd.Doc, "ignore") || semantic.HasPragma(ts.Doc, "ignore") ||
						semantic.HasPragma(gd.Doc, "generated") || semantic.HasPragma(ts.Doc, "generated")
				}
			}
		}
	}
	return false
}

// hasReferences asks C4 for every reference to sym's object, across the
// whole solution, and reports whether any remain once the declaration site
// itself is excluded (SPEC_FULL.md §5: "excluding the declaration site and excluding
// references inside the symbol's own doc comment" — a doc comment produces
// no go/types Uses/Defs entry in the first place, so C4 never reports one;
// only the declaration-site exclusion needs explicit handling here).
func hasReferences(sol *semantic.Solution, proj *semantic.Project, sym *semantic.Symbol) bool {
	loc := resolver.Locator{Name: sym.Object.Name(), PackageName: proj.Name}
	if _, ok := sym.Object.(*types.TypeName); !ok {
		if dotIdx := lastDot(sym.DisplayName); dotIdx >= 0 {
			loc.ContainingType = sym.DisplayName[:dotIdx]
		}
	}

	results, err := refs.FindReferences(sol, loc, "", refs.DetailCompact, refs.ModeAll)
	if err != nil {
		return true // analysis failure: conservative, don't report it as unused
	}
	declFile, declLine, _ := sym.Pos()
	for _, r := range results {
		if r.File == declFile && r.Line == declLine {
			continue
		}
		return true
	}
	return false
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// isClosedSolution reports whether every project in sol builds a main
// package, meaning no project outside the loaded solution could import any
// of its exported symbols (SPEC_FULL.md §5's scope="all" gate).
func isClosedSolution(sol *semantic.Solution) bool {
	for _, p := range sol.Projects {
		if p.OutputType != "exe" {
			return false
		}
	}
	return len(sol.Projects) > 0
}
