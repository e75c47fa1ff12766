package refactor

import (
	"go/ast"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// identifierGrammar implements §4.5.1 step 1: one optional leading `@`
// (carried from the original language's verbatim-identifier escape; kept
// for textual fidelity even though Go has no such escape), then one
// letter-or-underscore, then letters/digits/underscores.
var identifierGrammar = regexp.MustCompile(`^@?[A-Za-z_][A-Za-z0-9_]*$`)

// RenameResult is the summary produced by Rename (§4.5.1 step 7).
type RenameResult struct {
	Changes      []FileChange
	RenamedPath  string // old path of the file that was renamed, empty if none
	RenamedTo    string
}

// Rename implements rename (§4.5.1). It does not touch disk or the
// workspace cache itself — the caller (tool/handlers.go) applies the
// returned FileChanges and, if RenamedPath is set, performs the move, all
// under a single workspace.Manager.Apply grant (§4.1 step 6).
func Rename(sol *semantic.Solution, loc resolver.Locator, newName string) (*RenameResult, *core.Error) {
	if !identifierGrammar.MatchString(newName) {
		return nil, core.Errorf(core.InvalidInput, "refactor.Rename", "%q is not a valid identifier", newName)
	}

	sym, err := resolver.ResolveSymbol(sol, loc)
	if err != nil {
		return nil, err
	}
	switch sym.Kind() {
	case "type", "method", "field", "interface":
	default:
		return nil, core.Errorf(core.InvalidInput, "refactor.Rename", "cannot rename a symbol of kind %q", sym.Kind())
	}
	if !sym.Object.Pos().IsValid() {
		return nil, core.Errorf(core.InvalidInput, "refactor.Rename", "%q has no in-source declaration", loc.Name)
	}

	fset := sym.Project.Pkg.Fset
	byFile := map[string][]token.Pos{}
	for _, proj := range sol.Projects {
		for _, f := range proj.Pkg.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				id, ok := n.(*ast.Ident)
				if !ok {
					return true
				}
				if proj.Pkg.TypesInfo.Uses[id] == sym.Object || proj.Pkg.TypesInfo.Defs[id] == sym.Object {
					filename := fset.Position(id.Pos()).Filename
					byFile[filename] = append(byFile[filename], id.Pos())
				}
				return true
			})
		}
	}

	var files []string
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var result RenameResult
	for _, file := range files {
		before, rerr := os.ReadFile(file)
		if rerr != nil {
			return nil, core.Wrap(core.AnalysisFailed, "refactor.Rename", rerr, "reading %s", file)
		}
		var edits []Edit
		oldName := sym.Object.Name()
		for _, pos := range byFile[file] {
			p := fset.Position(pos)
			start := p.Offset
			edits = append(edits, Edit{Start: start, End: start + len(oldName), NewText: newName})
		}
		after := ApplyEdits(string(before), edits)
		fc := FileChange{Path: file, Before: string(before), After: after}

		if sym.Kind() == "type" && strings.EqualFold(strings.TrimSuffix(filepath.Base(file), ".go"), sym.Object.Name()) {
			newPath := filepath.Join(filepath.Dir(file), newName+".go")
			fc.Renamed = true
			fc.NewPath = newPath
			result.RenamedPath = file
			result.RenamedTo = newPath
		}
		result.Changes = append(result.Changes, fc)
	}
	return &result, nil
}
