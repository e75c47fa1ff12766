// Package resolver is C3, the symbol resolver: name-based resolution with
// ambiguity detection, and enumeration of every named type in a
// compilation (§4.2).
package resolver

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// Locator is the input every resolve operation accepts. It generalizes the
// spec's bare (name, containingType?) pair with the richer semantic
// locator from other_examples/8gears-gopls-mcp's SymbolLocator (DESIGN.md
// C3 grounding): hints narrow an otherwise-ambiguous match instead of
// forcing exact coordinates.
type Locator struct {
	Name            string
	ContainingType  string // parent scope / receiver type name, optional
	PackageName     string // project/package name hint, optional
	Kind            string // "type", "method", "field", "interface", ... optional
	LineHint        int    // optional; not consulted by any resolve operation
	SignatureHint   string // optional; not consulted by any resolve operation
}

// ResolveType implements resolveType(path, name) → TypeSymbol (§4.2).
func ResolveType(sol *semantic.Solution, loc Locator) (*semantic.Symbol, *core.Error) {
	var matches []*semantic.Symbol
	seen := map[types.Object]bool{}
	for _, proj := range sol.Projects {
		if loc.PackageName != "" && proj.Name != loc.PackageName && proj.ImportPath != loc.PackageName {
			continue
		}
		scope := proj.Pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok {
				continue
			}
			if !nameMatches(obj.Name(), qualifiedName(obj), loc.Name) {
				continue
			}
			if seen[obj] {
				continue
			}
			seen[obj] = true
			matches = append(matches, wrap(obj, proj))
		}
	}
	return disambiguate(matches, "resolver.ResolveType", loc.Name)
}

// ResolveSymbol implements resolveSymbol(path, name, containingType?) →
// Symbol (§4.2).
func ResolveSymbol(sol *semantic.Solution, loc Locator) (*semantic.Symbol, *core.Error) {
	if loc.ContainingType != "" {
		typeSym, err := ResolveType(sol, Locator{Name: loc.ContainingType, PackageName: loc.PackageName})
		if err != nil {
			return nil, err
		}
		named, ok := typeSym.Object.(*types.TypeName).Type().(*types.Named)
		if !ok {
			return nil, core.Errorf(core.InvalidInput, "resolver.ResolveSymbol", "%q is not a named type", loc.ContainingType)
		}
		member := lookupMember(named, loc.Name)
		if member == nil {
			return nil, core.Errorf(core.NotFound, "resolver.ResolveSymbol", "no member %q on %s", loc.Name, loc.ContainingType)
		}
		return wrap(member, typeSym.Project), nil
	}

	var matches []*semantic.Symbol
	seen := map[types.Object]bool{}
	for _, proj := range sol.Projects {
		if loc.PackageName != "" && proj.Name != loc.PackageName && proj.ImportPath != loc.PackageName {
			continue
		}
		scope := proj.Pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			if !nameMatches(obj.Name(), qualifiedName(obj), loc.Name) {
				continue
			}
			if loc.Kind != "" && wrap(obj, proj).Kind() != loc.Kind {
				continue
			}
			if seen[obj] {
				continue
			}
			seen[obj] = true
			matches = append(matches, wrap(obj, proj))
		}
	}
	return disambiguate(matches, "resolver.ResolveSymbol", loc.Name)
}

// ResolveMethod implements resolveMethod(path, name, containingType?) →
// MethodSymbol (§4.2): on multiple overloads, return the first and let the
// caller emit the side-channel warning (§7 propagation policy) — this
// function does not fail on ambiguity, unlike ResolveSymbol/ResolveType.
func ResolveMethod(sol *semantic.Solution, loc Locator) (sym *semantic.Symbol, warning string, cerr *core.Error) {
	loc.Kind = "method"
	var matches []*semantic.Symbol

	if loc.ContainingType != "" {
		typeSym, err := ResolveType(sol, Locator{Name: loc.ContainingType, PackageName: loc.PackageName})
		if err != nil {
			return nil, "", err
		}
		named, ok := typeSym.Object.(*types.TypeName).Type().(*types.Named)
		if !ok {
			return nil, "", core.Errorf(core.InvalidInput, "resolver.ResolveMethod", "%q is not a named type", loc.ContainingType)
		}
		for i := 0; i < named.NumMethods(); i++ {
			m := named.Method(i)
			if m.Name() == loc.Name {
				matches = append(matches, wrap(m, typeSym.Project))
			}
		}
	} else {
		for _, proj := range sol.Projects {
			for _, m := range allMethods(proj) {
				if m.Name() == loc.Name {
					matches = append(matches, wrap(m, proj))
				}
			}
		}
	}

	if len(matches) == 0 {
		return nil, "", core.Errorf(core.NotFound, "resolver.ResolveMethod", "no method named %q", loc.Name)
	}
	if len(matches) > 1 {
		warning = fmt.Sprintf("resolveMethod: %d overloads of %q found, using the first (%s)", len(matches), loc.Name, locationOf(matches[0]))
	}
	return matches[0], warning, nil
}

// AllNamedTypes implements allNamedTypes(compilation) (§4.2): every named
// type declared directly in proj's package scope. Go has no nested
// namespace tree to recurse into (§0 mapping: namespace = package), so the
// "recursive namespace + nested-type traversal" collapses to one scope walk.
func AllNamedTypes(proj *semantic.Project) []*semantic.Symbol {
	var out []*semantic.Symbol
	scope := proj.Pkg.Types.Scope()
	for _, name := range scope.Names() {
		if tn, ok := scope.Lookup(name).(*types.TypeName); ok {
			out = append(out, wrap(tn, proj))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Object.Name() < out[j].Object.Name() })
	return out
}

func allMethods(proj *semantic.Project) []*types.Func {
	var out []*types.Func
	scope := proj.Pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		for i := 0; i < named.NumMethods(); i++ {
			out = append(out, named.Method(i))
		}
	}
	return out
}

func lookupMember(named *types.Named, name string) types.Object {
	for i := 0; i < named.NumMethods(); i++ {
		if named.Method(i).Name() == name {
			return named.Method(i)
		}
	}
	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			if st.Field(i).Name() == name {
				return st.Field(i)
			}
		}
	}
	return nil
}

func nameMatches(shortName, qualified, query string) bool {
	return shortName == query || qualified == query
}

func qualifiedName(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func wrap(obj types.Object, proj *semantic.Project) *semantic.Symbol {
	sym := &semantic.Symbol{Object: obj, Project: proj, DisplayName: qualifiedName(obj)}
	sym.InSource = obj.Pos().IsValid()
	return sym
}

func locationOf(sym *semantic.Symbol) string {
	file, line, _ := sym.Pos()
	return core.Location(core.RelativeTo(sym.Project.Dir, file), line)
}

// disambiguate implements the 0/1/N resolution semantics shared by
// ResolveType and ResolveSymbol (§4.2): NotFound on zero matches, Ambiguous
// (listing every candidate's file path) on two or more.
func disambiguate(matches []*semantic.Symbol, op, name string) (*semantic.Symbol, *core.Error) {
	var inSource []*semantic.Symbol
	for _, m := range matches {
		if m.InSource {
			inSource = append(inSource, m)
		}
	}
	if len(inSource) > 0 {
		matches = inSource
	}
	switch len(matches) {
	case 0:
		return nil, core.Errorf(core.NotFound, op, "no symbol named %q", name)
	case 1:
		return matches[0], nil
	default:
		var locs []string
		for _, m := range matches {
			locs = append(locs, locationOf(m))
		}
		sort.Strings(locs)
		return nil, core.Errorf(core.Ambiguous, op, "%q matches %d candidates: %s", name, len(matches), strings.Join(locs, ", "))
	}
}
