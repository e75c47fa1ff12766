// Package query is C5, the query engine: findSymbols, fileSymbols,
// typeMembers, listNamespaces, typeHierarchy, findOverrides,
// findDerivedTypes, listProjects/projectInfo/sourceFiles/diagnostics
// (§4.4). Every operation returns an empty result rather than failing when
// there are no matches, per §4.4's shared contract.
package query

import (
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// SymbolHit is the spec's SymbolResult (transport) entity (§3.1).
type SymbolHit struct {
	Name          string
	FQName        string
	Kind          string
	Signature     string
	File          string
	Line          int
	DocSummary    string
	Body          string
	InSource      bool
}

// Detail selects compact vs full rendering — shared across C5/C8.
type Detail string

const (
	DetailCompact Detail = "compact"
	DetailFull    Detail = "full"
)

// FindSymbols implements findSymbols(path, query, kind?, exact, detail) (§4.4)
// over each project's package scope: types, interfaces, functions (kind
// "method"), vars and consts. Methods and struct fields are not searched.
func FindSymbols(sol *semantic.Solution, query, kind string, exact bool, detail Detail) []SymbolHit {
	type key struct{ fq, kind string }
	seen := map[key]bool{}
	var out []SymbolHit
	for _, proj := range sol.Projects {
		scope := proj.Pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			if isImplicit(obj) {
				continue
			}
			if !matchesQuery(obj.Name(), query, exact) {
				continue
			}
			sym := &semantic.Symbol{Object: obj, Project: proj}
			if kind != "" && sym.Kind() != kind {
				continue
			}
			if !obj.Pos().IsValid() {
				continue
			}
			k := key{qualifiedName(obj), sym.Kind()}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, toSymbolHit(sym, detail))
		}
	}
	sortByFileLine(out)
	return out
}

// FileSymbols implements fileSymbols(path, filePath, depth, detail) (§4.4).
func FileSymbols(sol *semantic.Solution, filePath string, depth int, detail Detail) []SymbolHit {
	target := strings.ToLower(filepath.Base(filePath))
	var out []SymbolHit
	for _, proj := range sol.Projects {
		for _, f := range proj.Pkg.Syntax {
			fname := proj.Pkg.Fset.Position(f.Pos()).Filename
			if strings.ToLower(filepath.Base(fname)) != target && strings.ToLower(fname) != strings.ToLower(filePath) {
				continue
			}
			for _, decl := range f.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok {
					continue
				}
				for _, spec := range gd.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					obj := proj.Pkg.TypesInfo.Defs[ts.Name]
					if obj == nil {
						continue
					}
					sym := &semantic.Symbol{Object: obj, Project: proj, Doc: gd.Doc}
					hit := toSymbolHit(sym, detail)
					out = append(out, hit)
					if depth == 1 {
						out = append(out, TypeMembers(sol, obj.Name(), detail)...)
					}
				}
			}
		}
	}
	return out
}

// TypeMembers implements typeMembers(path, typeName, detail) (§4.4).
func TypeMembers(sol *semantic.Solution, typeName string, detail Detail) []SymbolHit {
	sym, err := resolver.ResolveType(sol, resolver.Locator{Name: typeName})
	if err != nil {
		return nil
	}
	named, ok := sym.Object.(*types.TypeName).Type().(*types.Named)
	if !ok {
		return nil
	}
	var out []SymbolHit
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if isImplicit(m) {
			continue
		}
		out = append(out, toSymbolHit(&semantic.Symbol{Object: m, Project: sym.Project}, detail))
	}
	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			out = append(out, toSymbolHit(&semantic.Symbol{Object: f, Project: sym.Project}, detail))
		}
	}
	return out
}

// ListNamespaces implements listNamespaces(path) (§4.4): the package paths
// of every project containing at least one source-defined type, excluding
// "main" in the solution root only when it has no other types (the Go
// binding of "exclude the global namespace", §0 mapping table).
func ListNamespaces(sol *semantic.Solution) []string {
	set := map[string]bool{}
	for _, proj := range sol.Projects {
		for _, sym := range resolver.AllNamedTypes(proj) {
			if sym.Object.Pos().IsValid() {
				set[proj.ImportPath] = true
			}
		}
	}
	var out []string
	for ns := range set {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// HierarchyResult is the spec's TypeHierarchyResult entity (§3.1).
type HierarchyResult struct {
	TypeName   string
	Kind       string
	BaseTypes  []string // nearest first, "any" appended last
	Interfaces []string
	Members    []SymbolHit
}

// TypeHierarchy implements typeHierarchy(path, typeName) (§4.4).
func TypeHierarchy(sol *semantic.Solution, typeName string) (*HierarchyResult, *core.Error) {
	sym, err := resolver.ResolveType(sol, resolver.Locator{Name: typeName})
	if err != nil {
		return nil, err
	}
	named, ok := sym.Object.(*types.TypeName).Type().(*types.Named)
	if !ok {
		return nil, core.Errorf(core.InvalidInput, "query.TypeHierarchy", "%q is not a named type", typeName)
	}
	modulePath := moduleOf(sol)
	chain := semantic.BaseChain(named, modulePath)
	res := &HierarchyResult{TypeName: typeName, Kind: sym.Kind()}
	for _, b := range chain {
		res.BaseTypes = append(res.BaseTypes, b.Obj().Name())
	}
	res.BaseTypes = append(res.BaseTypes, "any")

	var allNamed []*types.Named
	for _, proj := range sol.Projects {
		for _, s := range resolver.AllNamedTypes(proj) {
			if n, ok := s.Object.(*types.TypeName).Type().(*types.Named); ok {
				allNamed = append(allNamed, n)
			}
		}
	}
	for _, iface := range semantic.AllInterfaces(named, allNamed) {
		res.Interfaces = append(res.Interfaces, iface.Obj().Name())
	}
	sort.Strings(res.Interfaces)
	return res, nil
}

// FindOverrides implements findOverrides(path, typeName, methodName) (§4.4):
// first confirms methodName is itself virtual/abstract/overridden on
// typeName (i.e. shadows an embedded base's directly-declared method), then
// asks the provider for every further override of it in types derived,
// directly or transitively, from typeName.
func FindOverrides(sol *semantic.Solution, typeName, methodName string) ([]SymbolHit, *core.Error) {
	sym, err := resolver.ResolveType(sol, resolver.Locator{Name: typeName})
	if err != nil {
		return nil, err
	}
	named, ok := sym.Object.(*types.TypeName).Type().(*types.Named)
	if !ok {
		return nil, core.Errorf(core.InvalidInput, "query.FindOverrides", "%q is not a named type", typeName)
	}
	modulePath := moduleOf(sol)
	base, hasBase := semantic.EmbeddedBase(named, modulePath)
	if !hasBase {
		return nil, core.Errorf(core.InvalidInput, "query.FindOverrides", "%q has no embedded base providing virtual members", typeName)
	}
	overridden, _ := semantic.Overrides(named, base)
	found := false
	for _, m := range overridden {
		if m.Name() == methodName {
			found = true
		}
	}
	if !found {
		return nil, core.Errorf(core.InvalidInput, "query.FindOverrides", "%q does not override %q", typeName, methodName)
	}

	var out []SymbolHit
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if m.Name() == methodName && m.Pos().IsValid() {
			out = append(out, toSymbolHit(&semantic.Symbol{Object: m, Project: sym.Project}, DetailCompact))
		}
	}

	for _, proj := range sol.Projects {
		for _, s := range resolver.AllNamedTypes(proj) {
			cand, ok := s.Object.(*types.TypeName).Type().(*types.Named)
			if !ok || cand == named || !derivesFrom(cand, named, modulePath) {
				continue
			}
			for i := 0; i < cand.NumMethods(); i++ {
				m := cand.Method(i)
				if m.Name() == methodName && m.Pos().IsValid() {
					out = append(out, toSymbolHit(&semantic.Symbol{Object: m, Project: s.Project}, DetailCompact))
				}
			}
		}
	}

	sortByFileLine(out)
	return out, nil
}

// derivesFrom reports whether ancestor appears anywhere in cand's
// EmbeddedBase chain (§0.1's transitive base-chain walk).
func derivesFrom(cand, ancestor *types.Named, modulePath string) bool {
	for _, b := range semantic.BaseChain(cand, modulePath) {
		if b == ancestor {
			return true
		}
	}
	return false
}

// FindDerivedTypes implements findDerivedTypes(path, typeName) (§4.4).
func FindDerivedTypes(sol *semantic.Solution, typeName string) ([]SymbolHit, *core.Error) {
	sym, err := resolver.ResolveType(sol, resolver.Locator{Name: typeName})
	if err != nil {
		return nil, err
	}
	modulePath := moduleOf(sol)
	var out []SymbolHit
	switch t := sym.Object.(*types.TypeName).Type().Underlying().(type) {
	case *types.Interface:
		for _, proj := range sol.Projects {
			for _, s := range resolver.AllNamedTypes(proj) {
				named, ok := s.Object.(*types.TypeName).Type().(*types.Named)
				if !ok || !s.Object.Pos().IsValid() {
					continue
				}
				if semantic.Implements(named, t) {
					out = append(out, toSymbolHit(s, DetailCompact))
				}
			}
		}
	case *types.Struct:
		named := sym.Object.(*types.TypeName).Type().(*types.Named)
		for _, proj := range sol.Projects {
			for _, s := range resolver.AllNamedTypes(proj) {
				cand, ok := s.Object.(*types.TypeName).Type().(*types.Named)
				if !ok || !s.Object.Pos().IsValid() {
					continue
				}
				if base, ok := semantic.EmbeddedBase(cand, modulePath); ok && base == named {
					out = append(out, toSymbolHit(s, DetailCompact))
				}
			}
		}
	default:
		return nil, core.Errorf(core.InvalidInput, "query.FindDerivedTypes", "%q is neither an interface nor a struct", typeName)
	}
	sortByFileLine(out)
	return out, nil
}

// ProjectInfo is the spec's ProjectInfo entity (§3.1).
type ProjectInfo struct {
	Name            string
	FilePath        string
	Framework       string
	OutputType      string
	SourceFileCount int
	References      []string
	PackageRefs     []string
}

// ListProjects implements listProjects(path) (§4.4).
func ListProjects(sol *semantic.Solution) []ProjectInfo {
	var out []ProjectInfo
	for _, proj := range sol.Projects {
		out = append(out, projectInfoOf(proj))
	}
	return out
}

// GetProjectInfo implements projectInfo(path, projectName) (§4.4).
func GetProjectInfo(sol *semantic.Solution, projectName string) (ProjectInfo, *core.Error) {
	proj, err := sol.LookupProject(projectName)
	if err != nil {
		return ProjectInfo{}, err
	}
	return projectInfoOf(proj), nil
}

func projectInfoOf(proj *semantic.Project) ProjectInfo {
	return ProjectInfo{
		Name:            proj.Name,
		FilePath:        proj.Dir,
		Framework:       proj.TargetFramework,
		OutputType:      proj.OutputType,
		SourceFileCount: len(proj.Documents),
		References:      proj.References,
		PackageRefs:     proj.PackageRefs,
	}
}

// SourceFiles implements sourceFiles(path, projectName) (§4.4).
func SourceFiles(sol *semantic.Solution, projectName string) ([]string, *core.Error) {
	proj, err := sol.LookupProject(projectName)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, d := range proj.Documents {
		out = append(out, d.Path)
	}
	return out, nil
}

// Diagnostic is the spec's DiagnosticInfo entity (§3.1).
type Diagnostic struct {
	ID       string
	Severity string
	Message  string
	File     string
	Line     int
}

// Diagnostics implements diagnostics(path, projectName?) (§4.4): filtered to
// warning-or-higher, sorted errors-first then (file, line).
func Diagnostics(sol *semantic.Solution, projectName string) ([]Diagnostic, *core.Error) {
	var projs []*semantic.Project
	if projectName != "" {
		proj, err := sol.LookupProject(projectName)
		if err != nil {
			return nil, err
		}
		projs = []*semantic.Project{proj}
	} else {
		projs = sol.Projects
	}

	var out []Diagnostic
	for _, proj := range projs {
		for _, e := range proj.Pkg.Errors {
			out = append(out, diagnosticFromPackagesError(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].Severity == "error") != (out[j].Severity == "error") {
			return out[i].Severity == "error"
		}
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out, nil
}

func diagnosticFromPackagesError(e packages.Error) Diagnostic {
	file, line := splitPos(e.Pos)
	sev := "error"
	if e.Kind == packages.TypeError {
		sev = "error"
	}
	return Diagnostic{ID: string(e.Kind), Severity: sev, Message: e.Msg, File: file, Line: line}
}

func splitPos(pos string) (file string, line int) {
	parts := strings.Split(pos, ":")
	if len(parts) == 0 {
		return "", 0
	}
	file = parts[0]
	if len(parts) > 1 {
		line, _ = strconv.Atoi(parts[1])
	}
	return file, line
}

func isImplicit(obj types.Object) bool {
	return obj == nil || strings.HasPrefix(obj.Name(), "<") || obj.Name() == "_"
}

func matchesQuery(name, query string, exact bool) bool {
	if exact {
		return name == query
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

func qualifiedName(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func toSymbolHit(sym *semantic.Symbol, detail Detail) SymbolHit {
	file, line, _ := sym.Pos()
	hit := SymbolHit{
		Name:     sym.Object.Name(),
		FQName:   qualifiedName(sym.Object),
		Kind:     sym.Kind(),
		File:     file,
		Line:     line,
		InSource: sym.Object.Pos().IsValid(),
	}
	if detail == DetailFull {
		if sym.Doc != nil {
			hit.DocSummary = strings.TrimSpace(sym.Doc.Text())
		}
		hit.Body = readBody(sym)
	}
	return hit
}

// SymbolBody returns sym's own declaration source text, the same slice
// toSymbolHit uses for a detail=full hit's Body field — exported so
// internal/source's symbolSource operation (§6.1) can reuse it directly
// instead of duplicating the declaration-span walk.
func SymbolBody(sym *semantic.Symbol) string {
	return readBody(sym)
}

// readBody returns sym's own declaration source text (§3.1's "optional
// source-body text"), not the whole file — found by locating the ast.Decl
// (or, for a struct field, the ast.Field) whose name matches sym.Object's
// position, then slicing the file by that node's byte offsets.
func readBody(sym *semantic.Symbol) string {
	file, _, _ := sym.Pos()
	if file == "" {
		return ""
	}
	start, end, ok := declSpan(sym.Project, sym.Object)
	if !ok {
		return ""
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return ""
	}
	fset := sym.Project.Pkg.Fset
	startOff, endOff := fset.Position(start).Offset, fset.Position(end).Offset
	if startOff < 0 || endOff > len(data) || startOff > endOff {
		return ""
	}
	return string(data[startOff:endOff])
}

// declSpan finds the declaration node for obj within proj's syntax trees,
// returning its start/end positions. Covers the three shapes a symbol's
// declaration can take: a FuncDecl (func or method), a TypeSpec/ValueSpec
// inside a GenDecl (type/var/const), or a Field inside a struct type.
func declSpan(proj *semantic.Project, obj types.Object) (start, end token.Pos, ok bool) {
	for _, f := range proj.Pkg.Syntax {
		ast.Inspect(f, func(n ast.Node) bool {
			if ok {
				return false
			}
			switch d := n.(type) {
			case *ast.FuncDecl:
				if d.Name != nil && d.Name.Pos() == obj.Pos() {
					start, end, ok = d.Pos(), d.End(), true
					return false
				}
			case *ast.TypeSpec:
				if d.Name.Pos() == obj.Pos() {
					start, end, ok = d.Pos(), d.End(), true
					return false
				}
			case *ast.ValueSpec:
				for _, name := range d.Names {
					if name.Pos() == obj.Pos() {
						start, end, ok = d.Pos(), d.End(), true
						return false
					}
				}
			case *ast.Field:
				for _, name := range d.Names {
					if name.Pos() == obj.Pos() {
						start, end, ok = d.Pos(), d.End(), true
						return false
					}
				}
			}
			return true
		})
		if ok {
			return start, end, true
		}
	}
	return 0, 0, false
}

func sortByFileLine(hits []SymbolHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].File != hits[j].File {
			return hits[i].File < hits[j].File
		}
		return hits[i].Line < hits[j].Line
	})
}

func moduleOf(sol *semantic.Solution) string {
	for _, p := range sol.Projects {
		if p.Pkg.Module != nil {
			return p.Pkg.Module.Path
		}
	}
	return ""
}
