// Package smell is C7, the code-smell analyzer: single-pass method-body
// metrics, structural checks, and feature envy (§4.6). It never mutates
// anything — every check is report-only.
package smell

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// Fixed §4.6.1 complexity thresholds. Unlike §4.6.2's structural cutoffs,
// the spec calls these "fixed" rather than config-overridable, so they stay
// unexported constants instead of Thresholds fields.
const (
	longMethodWarn, longMethodCritical         = 50, 100
	deepNestingWarn, deepNestingCritical       = 3, 5
	highComplexityWarn, highComplexityCritical = 10, 20
	middleManMinMethods                        = 3
	middleManDelegationRate                    = 0.8
)

// BodyMetrics is the spec's MethodBodyMetrics entity (§3.1), computed in
// one traversal per method (§9's "Pattern: single-pass method-body
// metrics" — AnalyzeMethodBody is the one function all four metrics come
// from; no second walk). Go has no ternary operator and no null-coalescing
// operator, so the cyclomatic-complexity decision-node set (§4.6.1) is the
// Go-native subset: if, each switch/type-switch case label, each select
// comm clause, each `&&`/`||`, each catch-equivalent (a recovered panic in
// a deferred func is not statically detectable, so Go's only structural
// analogue — a `case` in a type switch over `recover()` — is already
// covered by the switch-case count above).
type BodyMetrics struct {
	LineCount            int
	MaxNestingDepth      int
	CyclomaticComplexity int
	IsSingleDelegation   bool
}

// AnalyzeMethodBody implements §4.6.1's single-pass walk: one ast.Inspect
// over body, tracking current nesting depth on the way down/up and
// accumulating cyclomatic-complexity decision points as they're visited.
func AnalyzeMethodBody(fset *token.FileSet, body *ast.BlockStmt) BodyMetrics {
	if body == nil {
		return BodyMetrics{}
	}
	m := BodyMetrics{CyclomaticComplexity: 1}

	start := fset.Position(body.Pos())
	end := fset.Position(body.End())
	m.LineCount = end.Line - start.Line + 1
	if m.LineCount < 1 {
		m.LineCount = 1
	}

	depth := map[ast.Node]int{body: 0}
	ast.Inspect(body, func(n ast.Node) bool {
		if n == nil {
			return true
		}
		d := depth[n]

		switch s := n.(type) {
		case *ast.IfStmt:
			m.CyclomaticComplexity++
			setChildDepth(depth, s.Body, d+1)
			if s.Else != nil {
				setChildDepth(depth, s.Else, d) // else/else-if chains don't compound depth
			}
		case *ast.ForStmt:
			setChildDepth(depth, s.Body, d+1)
		case *ast.RangeStmt:
			setChildDepth(depth, s.Body, d+1)
		case *ast.SwitchStmt:
			m.CyclomaticComplexity += countCaseLabels(s.Body)
			setChildDepth(depth, s.Body, d+1)
		case *ast.TypeSwitchStmt:
			m.CyclomaticComplexity += countCaseLabels(s.Body)
			setChildDepth(depth, s.Body, d+1)
		case *ast.SelectStmt:
			m.CyclomaticComplexity += countCommClauses(s.Body)
			setChildDepth(depth, s.Body, d+1)
		case *ast.BinaryExpr:
			if s.Op == token.LAND || s.Op == token.LOR {
				m.CyclomaticComplexity++
			}
			setChildDepth(depth, s.X, d)
			setChildDepth(depth, s.Y, d)
		case *ast.FuncLit:
			return false // a nested closure gets its own metrics if queried directly, not folded into the outer method
		default:
			for _, child := range directChildren(n) {
				setChildDepth(depth, child, d)
			}
		}

		if d > m.MaxNestingDepth {
			m.MaxNestingDepth = d
		}
		return true
	})

	m.IsSingleDelegation = isSingleDelegation(body)
	return m
}

func setChildDepth(depth map[ast.Node]int, n ast.Node, d int) {
	if n == nil {
		return
	}
	depth[n] = d
}

// directChildren returns n's immediate statement/expression children whose
// depth should propagate unchanged — used only to seed the depth map for
// node kinds ast.Inspect will still descend into on its own via the
// standard library's built-in traversal.
func directChildren(n ast.Node) []ast.Node {
	var out []ast.Node
	switch s := n.(type) {
	case *ast.BlockStmt:
		for _, st := range s.List {
			out = append(out, st)
		}
	case *ast.CaseClause:
		for _, st := range s.Body {
			out = append(out, st)
		}
	case *ast.CommClause:
		for _, st := range s.Body {
			out = append(out, st)
		}
	}
	return out
}

func countCaseLabels(body *ast.BlockStmt) int {
	n := 0
	for _, stmt := range body.List {
		if cc, ok := stmt.(*ast.CaseClause); ok && len(cc.List) > 0 {
			n += len(cc.List)
		}
	}
	return n
}

func countCommClauses(body *ast.BlockStmt) int {
	n := 0
	for _, stmt := range body.List {
		if _, ok := stmt.(*ast.CommClause); ok {
			n++
		}
	}
	return n
}

// isSingleDelegation implements §4.6.1's is-single-delegation predicate:
// the body is exactly one statement, either an expression-statement
// wrapping a call, or a return of a call.
func isSingleDelegation(body *ast.BlockStmt) bool {
	if len(body.List) != 1 {
		return false
	}
	switch s := body.List[0].(type) {
	case *ast.ExprStmt:
		_, ok := s.X.(*ast.CallExpr)
		return ok
	case *ast.ReturnStmt:
		if len(s.Results) != 1 {
			return false
		}
		_, ok := s.Results[0].(*ast.CallExpr)
		return ok
	default:
		return false
	}
}

// complexityChecks implements §4.6.1's four body-metric smells for one
// non-excluded named type — the "complexity" category of findCodeSmells
// (§4.6). It drives every check from the one AnalyzeMethodBody traversal
// per method, per §9's single-pass pattern.
func complexityChecks(proj *semantic.Project, named *types.Named, sym *semantic.Symbol) []Result {
	var out []Result
	recvName := named.Obj().Name()

	var methodCount, delegationCount int
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		fn := findFuncDeclFor(proj, m)
		if fn == nil || fn.Body == nil {
			continue
		}
		methodCount++

		metrics := AnalyzeMethodBody(proj.Pkg.Fset, fn.Body)
		if metrics.IsSingleDelegation {
			delegationCount++
		}

		pos := proj.Pkg.Fset.Position(fn.Pos())
		symbolName := recvName + "." + m.Name()

		switch {
		case metrics.LineCount > longMethodCritical:
			out = append(out, result("Long method", SeverityCritical, symbolName, fmt.Sprintf("%d lines", metrics.LineCount), pos.Filename, pos.Line))
		case metrics.LineCount > longMethodWarn:
			out = append(out, result("Long method", SeverityWarning, symbolName, fmt.Sprintf("%d lines", metrics.LineCount), pos.Filename, pos.Line))
		}

		switch {
		case metrics.MaxNestingDepth > deepNestingCritical:
			out = append(out, result("Deep nesting", SeverityCritical, symbolName, fmt.Sprintf("depth %d", metrics.MaxNestingDepth), pos.Filename, pos.Line))
		case metrics.MaxNestingDepth > deepNestingWarn:
			out = append(out, result("Deep nesting", SeverityWarning, symbolName, fmt.Sprintf("depth %d", metrics.MaxNestingDepth), pos.Filename, pos.Line))
		}

		switch {
		case metrics.CyclomaticComplexity > highComplexityCritical:
			out = append(out, result("High cyclomatic complexity", SeverityCritical, symbolName, fmt.Sprintf("complexity %d", metrics.CyclomaticComplexity), pos.Filename, pos.Line))
		case metrics.CyclomaticComplexity > highComplexityWarn:
			out = append(out, result("High cyclomatic complexity", SeverityWarning, symbolName, fmt.Sprintf("complexity %d", metrics.CyclomaticComplexity), pos.Filename, pos.Line))
		}
	}

	if methodCount >= middleManMinMethods {
		rate := float64(delegationCount) / float64(methodCount)
		if rate > middleManDelegationRate {
			file, line, _ := sym.Pos()
			out = append(out, result("Middle-man", SeverityWarning, recvName,
				fmt.Sprintf("%d/%d methods single-delegation (%.0f%%)", delegationCount, methodCount, rate*100), file, line))
		}
	}
	return out
}
