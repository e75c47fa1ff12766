// Package semantic is the semantic-model-provider collaborator (§6.3):
// it loads a Go module or workspace into a typed package graph and exposes
// the handful of primitives every other component builds on (named types,
// method sets, doc comments, positions). It deliberately stays thin — the
// provider's job is to hand out a compiled model, not to interpret it.
package semantic

import (
	"go/ast"
	"go/token"
	"go/types"
	"time"

	"golang.org/x/tools/go/packages"

	"github.com/codelens-dev/codelens-mcp/internal/core"
)

// LoadMode is the packages.Load mode every load in this project uses. It is
// the maximal mode short of NeedExportFile/NeedForTest, since every
// component from C3 through C7 eventually wants types, syntax, and doc
// comments for something.
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes | packages.NeedSyntax |
	packages.NeedTypesInfo | packages.NeedModule | packages.NeedEmbedFiles

// Solution is the rendition of the spec's SolutionHandle (§3.1): the root
// directory, load bookkeeping, and every loaded project keyed by import
// path. C2 is the only component that constructs or replaces a Solution;
// everyone else borrows it for the duration of one request.
type Solution struct {
	Root          string // normalized, absolute
	Generation    string // uuid stamped at load time, for staleness tests (§8 property 8)
	LoadedAt      time.Time
	LastStaleScan time.Time

	Projects     []*Project
	byImportPath map[string]*Project
	byFile       map[string]*Project // absolute file path -> owning project
	Fset         *token.FileSet
}

// Project is the spec's Project entity: one Go package is this project's
// analogue (§0 LANGUAGE BINDING DECISION). TargetFramework/OutputType have no
// direct Go equivalent; they are rendered from the module's Go version and
// whether the package builds a "main".
type Project struct {
	Pkg *packages.Package

	Name            string // package name, e.g. "query"
	ImportPath      string
	Dir             string
	TargetFramework string // go1.25 style, from module GoVersion
	OutputType      string // "exe" or "library"
	Documents       []*Document
	References      []string // imported import paths, within the module
	PackageRefs     []string // imported import paths, outside the module
}

// Document is the spec's Document entity: one source file.
type Document struct {
	Path    string // absolute
	Project *Project
	Syntax  *ast.File
}

// Symbol is the spec's Symbol entity, built directly on top of go/types —
// see SPEC_FULL.md §0 for the full class/namespace/virtual mapping table.
type Symbol struct {
	Object      types.Object
	Project     *Project
	Decl        ast.Decl   // the GenDecl or FuncDecl, when source-defined
	Doc         *ast.CommentGroup
	InSource    bool
	DisplayName string
}

// Pos returns the 1-based line/column and absolute file path for the
// symbol's declaration, or zero values if it has no position (e.g. universe
// scope builtins).
func (s *Symbol) Pos() (file string, line, col int) {
	if s.Object == nil || s.Object.Pos() == token.NoPos {
		return "", 0, 0
	}
	fset := s.Project.Pkg.Fset
	p := fset.Position(s.Object.Pos())
	return p.Filename, p.Line, p.Column
}

// Kind renders a spec-shaped kind string: type, interface, method (also for
// package-level functions), field, var, local (also for parameters), const,
// namespace, label, builtin, nil, or unknown. Go has no properties/events as
// distinct kinds; see §0's mapping notes in SPEC_FULL.md — a field with an
// accompanying Getter/Setter-shaped method pair is still reported as
// "field", since Go doesn't distinguish them.
func (s *Symbol) Kind() string {
	switch obj := s.Object.(type) {
	case *types.TypeName:
		if _, ok := obj.Type().Underlying().(*types.Interface); ok {
			return "interface"
		}
		return "type"
	case *types.Func:
		return "method"
	case *types.Var:
		if obj.IsField() {
			return "field"
		}
		if obj.Parent() != nil && obj.Parent().Parent() == types.Universe {
			return "var"
		}
		return "local"
	case *types.Const:
		return "const"
	case *types.PkgName:
		return "namespace"
	case *types.Label:
		return "label"
	case *types.Builtin:
		return "builtin"
	case *types.Nil:
		return "nil"
	default:
		return "unknown"
	}
}

// LookupProject returns the project with the given import path or package
// name, preferring an exact import-path match.
func (s *Solution) LookupProject(name string) (*Project, *core.Error) {
	if name == "" {
		if len(s.Projects) == 0 {
			return nil, core.Errorf(core.NotFound, "semantic.LookupProject", "solution has no projects")
		}
		return s.Projects[0], nil
	}
	if p, ok := s.byImportPath[name]; ok {
		return p, nil
	}
	for _, p := range s.Projects {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, core.Errorf(core.NotFound, "semantic.LookupProject", "no project named %q", name)
}

// DocumentFor returns the Document owning absPath, if loaded.
func (s *Solution) DocumentFor(absPath string) (*Document, bool) {
	p, ok := s.byFile[absPath]
	if !ok {
		return nil, false
	}
	for _, d := range p.Documents {
		if d.Path == absPath {
			return d, true
		}
	}
	return nil, false
}
