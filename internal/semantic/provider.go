package semantic

import (
	"context"
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/tools/go/packages"

	"github.com/codelens-dev/codelens-mcp/internal/core"
)

// Load builds a fresh Solution rooted at root by delegating to
// golang.org/x/tools/go/packages — the real, fetchable stand-in for the
// gopls session the teacher wraps (see SPEC_FULL.md §0). root must contain
// a go.mod or go.work file.
func Load(ctx context.Context, root string) (*Solution, *core.Error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, core.Wrap(core.NotFound, "semantic.Load", err, "solution path %q does not exist", root)
	}
	if !info.IsDir() {
		return nil, core.Errorf(core.InvalidInput, "semantic.Load", "solution path %q is not a directory", root)
	}
	if !hasBuildRoot(root) {
		return nil, core.Errorf(core.InvalidInput, "semantic.Load", "%q is neither a Go module nor a Go workspace root", root)
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     root,
		Tests:   true,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, core.Wrap(core.LoadFailed, "semantic.Load", err, "packages.Load failed for %q", root)
	}
	// Partial compilations (packages with Errors set) still load — they
	// feed the diagnostics operation (§4.4) rather than failing the whole
	// acquire. Only a completely empty result is a LoadFailed.
	if len(pkgs) == 0 {
		return nil, core.Errorf(core.LoadFailed, "semantic.Load", "no packages found under %q", root)
	}

	sol := &Solution{
		Root:         root,
		Generation:   uuid.NewString(),
		byImportPath: map[string]*Project{},
		byFile:       map[string]*Project{},
	}

	goVersion := moduleGoVersion(pkgs)

	for _, pkg := range pkgs {
		if pkg.Fset != nil {
			sol.Fset = pkg.Fset
		}
		proj := &Project{
			Pkg:             pkg,
			Name:            pkg.Name,
			ImportPath:      pkg.PkgPath,
			TargetFramework: goVersion,
			OutputType:      outputType(pkg),
		}
		if len(pkg.GoFiles) > 0 {
			proj.Dir = filepath.Dir(pkg.GoFiles[0])
		} else if len(pkg.CompiledGoFiles) > 0 {
			proj.Dir = filepath.Dir(pkg.CompiledGoFiles[0])
		}

		for _, f := range pkg.Syntax {
			filename := pkg.Fset.File(f.Pos()).Name()
			doc := &Document{Path: filename, Project: proj, Syntax: f}
			proj.Documents = append(proj.Documents, doc)
			sol.byFile[filename] = proj
		}
		sort.Slice(proj.Documents, func(i, j int) bool { return proj.Documents[i].Path < proj.Documents[j].Path })

		for imp := range pkg.Imports {
			if strings.HasPrefix(imp, moduleOf(pkgs)+"/") || imp == moduleOf(pkgs) {
				proj.References = append(proj.References, imp)
			} else {
				proj.PackageRefs = append(proj.PackageRefs, imp)
			}
		}
		sort.Strings(proj.References)
		sort.Strings(proj.PackageRefs)

		sol.Projects = append(sol.Projects, proj)
		sol.byImportPath[pkg.PkgPath] = proj
	}

	sort.Slice(sol.Projects, func(i, j int) bool { return sol.Projects[i].ImportPath < sol.Projects[j].ImportPath })
	return sol, nil
}

func hasBuildRoot(root string) bool {
	for _, f := range []string{"go.mod", "go.work"} {
		if _, err := os.Stat(filepath.Join(root, f)); err == nil {
			return true
		}
	}
	return false
}

func outputType(pkg *packages.Package) string {
	if pkg.Name == "main" {
		return "exe"
	}
	return "library"
}

func moduleGoVersion(pkgs []*packages.Package) string {
	for _, p := range pkgs {
		if p.Module != nil && p.Module.GoVersion != "" {
			return "go" + p.Module.GoVersion
		}
	}
	return ""
}

func moduleOf(pkgs []*packages.Package) string {
	for _, p := range pkgs {
		if p.Module != nil {
			return p.Module.Path
		}
	}
	return ""
}

// DeclDoc returns the doc comment attached to decl, if any, rendering
// nothing for synthesized declarations.
func DeclDoc(decl ast.Decl) *ast.CommentGroup {
	switch d := decl.(type) {
	case *ast.GenDecl:
		return d.Doc
	case *ast.FuncDecl:
		return d.Doc
	default:
		return nil
	}
}

// IsGenerated reports whether f carries the standard "Code generated ...
// DO NOT EDIT." header (§0.2 exclusion marker #2).
func IsGenerated(f *ast.File) bool {
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if strings.HasPrefix(text, "Code generated ") && strings.HasSuffix(text, "DO NOT EDIT.") {
				return true
			}
		}
		if cg.Pos() > f.Name.Pos() {
			break
		}
	}
	return false
}

// HasPragma reports whether doc carries a "//codelens:<tag>" pragma line
// (§0.2 exclusion marker #1).
func HasPragma(doc *ast.CommentGroup, tag string) bool {
	if doc == nil {
		return false
	}
	want := fmt.Sprintf("codelens:%s", tag)
	for _, c := range doc.List {
		if strings.Contains(c.Text, want) {
			return true
		}
	}
	return false
}
