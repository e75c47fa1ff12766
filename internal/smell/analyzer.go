package smell

import (
	"fmt"
	"go/ast"
	"go/types"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// Category narrows findCodeSmells to one family of check, or "" for all
// (§4.6): complexity is §4.6.1's body-metric smells, design is §4.6.2's
// non-embedding structural smells (plus feature envy, when deep), and
// inheritance is §4.6.2's two embedding-chain smells.
type Category string

const (
	CategoryAll         Category = ""
	CategoryComplexity  Category = "complexity"
	CategoryDesign      Category = "design"
	CategoryInheritance Category = "inheritance"
)

// FindCodeSmells implements findCodeSmells(path, category?, projectName?,
// deep?) (§4.6.4): runs the requested check families against every
// non-excluded named type in scope and returns the results sorted by file,
// line, then smell name (Render groups them by severity and smell name for
// output). Each project is analyzed concurrently via errgroup,
// bounding the fan-out the way C4's reference search does for multi-project
// solutions.
func FindCodeSmells(sol *semantic.Solution, category Category, projectName string, deep bool) ([]Result, *core.Error) {
	var projects []*semantic.Project
	if projectName != "" {
		p, err := sol.LookupProject(projectName)
		if err != nil {
			return nil, err
		}
		projects = []*semantic.Project{p}
	} else {
		projects = sol.Projects
	}

	modulePath := moduleRoot(sol)

	var out []Result
	var mu sync.Mutex
	g := new(errgroup.Group)
	for _, proj := range projects {
		proj := proj
		g.Go(func() error {
			local := smellsInProject(proj, category, modulePath, deep)
			mu.Lock()
			out = append(out, local...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // smellsInProject never returns an error

	sortResults(out)
	return out, nil
}

func smellsInProject(proj *semantic.Project, category Category, modulePath string, deep bool) []Result {
	var out []Result
	for _, sym := range resolver.AllNamedTypes(proj) {
		if !sym.InSource {
			continue
		}
		if isExcluded(proj, sym) {
			continue
		}
		named, ok := sym.Object.(*types.TypeName).Type().(*types.Named)
		if !ok {
			continue
		}

		if category == CategoryAll || category == CategoryDesign {
			out = append(out, designChecks(named, sym)...)
		}
		if category == CategoryAll || category == CategoryInheritance {
			out = append(out, inheritanceChecks(named, sym, modulePath)...)
		}
		if category == CategoryAll || category == CategoryComplexity {
			out = append(out, complexityChecks(proj, named, sym)...)
		}
		if deep && (category == CategoryAll || category == CategoryDesign) {
			out = append(out, featureEnvy(proj, named, sym)...)
		}
	}
	return out
}

// isExcluded implements §0.2's exclusion markers: generated files, the
// codelens:ignore / codelens:generated pragma on the type's doc comment, and (since these scans analyze production structure
// only) documents outside the project's own declared Documents are never
// considered here because AllNamedTypes already only enumerates package
// scope.
func isExcluded(proj *semantic.Project, sym *semantic.Symbol) bool {
	file, _, _ := sym.Pos()
	if file == "" {
		return true
	}
	doc, ok := findDoc(proj, file)
	if ok && semantic.IsGenerated(doc.Syntax) {
		return true
	}
	if !ok {
		return false
	}
	for _, d := range doc.Syntax.Decls {
		gd, isGen := d.(*ast.GenDecl)
		if !isGen {
			continue
		}
		for _, spec := range gd.Specs {
			if ts, isType := spec.(*ast.TypeSpec); isType && ts.Name.Pos() == sym.Object.Pos() {
				return semantic.HasPragma(gd.Doc, "ignore") || semantic.HasPragma(ts.Doc, "ignore") ||
					semantic.HasPragma(gd.Doc, "generated") || semantic.HasPragma(ts.Doc, "generated")
			}
		}
	}
	return false
}

func findDoc(proj *semantic.Project, path string) (*semantic.Document, bool) {
	for _, d := range proj.Documents {
		if d.Path == path {
			return d, true
		}
	}
	return nil, false
}

// moduleRoot approximates the enclosing module's import path as the longest
// common "/"-separated prefix of every loaded project's import path. This
// only feeds EmbeddedBase's same-module prefix test (hierarchy.go), so an
// approximation that's too short (never too long) just widens what counts
// as "same module" rather than silently excluding a real base type.
func moduleRoot(sol *semantic.Solution) string {
	if len(sol.Projects) == 0 {
		return ""
	}
	segs := strings.Split(sol.Projects[0].ImportPath, "/")
	for _, p := range sol.Projects[1:] {
		segs = commonPrefixSegs(segs, strings.Split(p.ImportPath, "/"))
	}
	return strings.Join(segs, "/")
}

func commonPrefixSegs(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func sortResults(out []Result) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Smell < out[j].Smell
	})
}

// Summary groups results by smell name, matching §4.6.4's "summary view"
// output shape.
type Summary struct {
	Smell string
	Count int
}

func Summarize(results []Result) []Summary {
	counts := map[string]int{}
	var order []string
	for _, r := range results {
		if counts[r.Smell] == 0 {
			order = append(order, r.Smell)
		}
		counts[r.Smell]++
	}
	sort.Strings(order)
	out := make([]Summary, 0, len(order))
	for _, s := range order {
		out = append(out, Summary{Smell: s, Count: counts[s]})
	}
	return out
}

// Render renders results as plain text per §4.7's output conventions: one
// line per finding, grouped by severity (critical first), then by smell
// name.
func Render(root string, results []Result) string {
	var b strings.Builder
	order := []Severity{SeverityCritical, SeverityWarning, SeverityInfo}
	for _, sev := range order {
		var group []Result
		for _, r := range results {
			if r.Severity == sev {
				group = append(group, r)
			}
		}
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].Smell < group[j].Smell })
		fmt.Fprintf(&b, "[%s]\n", sev)
		for _, r := range group {
			rel := core.RelativeTo(root, r.File)
			fmt.Fprintf(&b, "  %s: %s (%s) - %s\n", r.Smell, r.SymbolName, core.Location(rel, r.Line), r.Detail)
		}
	}
	return b.String()
}
