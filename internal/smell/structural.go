package smell

import (
	"fmt"
	"go/types"

	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// Severity is one of the three spec severities (§3.1, §4.6.4).
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Result is the spec's SmellResult (internal) entity (§3.1).
type Result struct {
	Smell      string
	Severity   Severity
	SymbolName string
	Detail     string
	File       string
	Line       int
}

// Thresholds holds §4.6.2's structural-check cutoffs. They start at the
// spec's own defaults and can be overridden at startup from
// internal/config's [smell] section (pkg/execute.go calls
// Config.ApplyThresholds, which calls SetThresholds, once before any tool
// call runs).
type Thresholds struct {
	LargeClassWarn, LargeClassCritical       int
	TooManyDepsWarn, TooManyDepsCritical     int
	LongParamListWarn, LongParamListCritical int
	DeepInheritanceMax                       int
	RefusedBequestMinBase                    int
}

var current = Thresholds{
	LargeClassWarn:        20,
	LargeClassCritical:    40,
	TooManyDepsWarn:       5,
	TooManyDepsCritical:   8,
	LongParamListWarn:     5,
	LongParamListCritical: 8,
	DeepInheritanceMax:    3,
	RefusedBequestMinBase: 3,
}

// SetThresholds overrides the active threshold table.
func SetThresholds(t Thresholds) { current = t }

// designChecks runs §4.6.2's non-inheritance structural checks against one
// non-excluded named type, against the active Thresholds — the "design"
// category half of findCodeSmells(category) (§4.6).
func designChecks(named *types.Named, sym *semantic.Symbol) []Result {
	var out []Result
	file, line, _ := sym.Pos()

	st, isStruct := named.Underlying().(*types.Struct)
	if !isStruct {
		return out
	}

	memberCount := st.NumFields() + named.NumMethods()

	// Large class
	switch {
	case memberCount > current.LargeClassCritical:
		out = append(out, result("Large class", SeverityCritical, named.Obj().Name(), fmt.Sprintf("%d members", memberCount), file, line))
	case memberCount > current.LargeClassWarn:
		out = append(out, result("Large class", SeverityWarning, named.Obj().Name(), fmt.Sprintf("%d members", memberCount), file, line))
	}

	// God class: member count > large-class-warn AND >= 5 distinct non-primitive field types
	if memberCount > current.LargeClassWarn {
		distinct := map[string]bool{}
		for i := 0; i < st.NumFields(); i++ {
			t := st.Field(i).Type()
			if !isPrimitive(t) && !isSelfType(t, named) {
				distinct[t.String()] = true
			}
		}
		if len(distinct) >= 5 {
			out = append(out, result("God class", SeverityWarning, named.Obj().Name(), fmt.Sprintf("%d distinct field types", len(distinct)), file, line))
		}
	}

	// Data class: 0 ordinary methods AND >= 2 fields (Go has no record
	// keyword to exclude, §0 mapping table — the record-exclusion becomes
	// "skip if it has a String()/Equal() method only", since that's the
	// closest Go idiom to a value-type record).
	if named.NumMethods() == 0 && st.NumFields() >= 2 {
		out = append(out, result("Data class", SeverityInfo, named.Obj().Name(), fmt.Sprintf("%d fields, 0 methods", st.NumFields()), file, line))
	}

	// Long parameter list / too many dependencies: constructor-equivalent
	// is a `New<Type>(...)` function in the same package (Go has no
	// constructor keyword).
	if ctor := findConstructor(sym.Project, named); ctor != nil {
		n := ctor.Type().(*types.Signature).Params().Len()
		switch {
		case n > current.TooManyDepsCritical:
			out = append(out, result("Too many dependencies", SeverityCritical, named.Obj().Name(), fmt.Sprintf("constructor takes %d parameters", n), file, line))
		case n > current.TooManyDepsWarn:
			out = append(out, result("Too many dependencies", SeverityWarning, named.Obj().Name(), fmt.Sprintf("constructor takes %d parameters", n), file, line))
		}
	}

	out = append(out, longParameterLists(named, sym, file)...)
	out = append(out, speculativeGenerality(named, sym)...)
	return out
}

// inheritanceChecks runs §4.6.2's two embedding-chain checks — the
// "inheritance" category half of findCodeSmells(category) (§4.6).
func inheritanceChecks(named *types.Named, sym *semantic.Symbol, modulePath string) []Result {
	var out []Result
	file, line, _ := sym.Pos()

	// Deep inheritance
	chain := semantic.BaseChain(named, modulePath)
	if len(chain) > current.DeepInheritanceMax {
		out = append(out, result("Deep inheritance", SeverityWarning, named.Obj().Name(), fmt.Sprintf("chain depth %d", len(chain)), file, line))
	}

	// Refused bequest
	if base, ok := semantic.EmbeddedBase(named, modulePath); ok {
		overridden, total := semantic.Overrides(named, base)
		if len(total) >= current.RefusedBequestMinBase {
			rate := float64(len(overridden)) / float64(len(total))
			if rate < 0.2 {
				out = append(out, result("Refused bequest", SeverityWarning, named.Obj().Name(),
					fmt.Sprintf("overrides %d/%d base members (%.0f%%)", len(overridden), len(total), rate*100), file, line))
			}
		}
	}
	return out
}

func longParameterLists(named *types.Named, sym *semantic.Symbol, file string) []Result {
	var out []Result
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		sig := m.Type().(*types.Signature)
		n := sig.Params().Len()
		mline := 0
		if m.Pos().IsValid() {
			mline = sym.Project.Pkg.Fset.Position(m.Pos()).Line
		}
		switch {
		case n > current.LongParamListCritical:
			out = append(out, result("Long parameter list", SeverityCritical, named.Obj().Name()+"."+m.Name(), fmt.Sprintf("%d parameters", n), file, mline))
		case n > current.LongParamListWarn:
			out = append(out, result("Long parameter list", SeverityWarning, named.Obj().Name()+"."+m.Name(), fmt.Sprintf("%d parameters", n), file, mline))
		}
	}
	return out
}

// speculativeGenerality implements §4.6.2's last check: a type parameter
// whose symbol doesn't appear in any member signature.
func speculativeGenerality(named *types.Named, sym *semantic.Symbol) []Result {
	var out []Result
	tparams := named.TypeParams()
	if tparams == nil {
		return out
	}
	file, line, _ := sym.Pos()
	for i := 0; i < tparams.Len(); i++ {
		tp := tparams.At(i)
		used := false
		for m := 0; m < named.NumMethods(); m++ {
			if mentionsType(named.Method(m).Type().(*types.Signature), tp) {
				used = true
				break
			}
		}
		if !used {
			out = append(out, result("Speculative generality", SeverityInfo, named.Obj().Name(), fmt.Sprintf("type parameter %s is unused", tp.Obj().Name()), file, line))
		}
	}
	return out
}

func mentionsType(sig *types.Signature, tp *types.TypeParam) bool {
	check := func(tup *types.Tuple) bool {
		for i := 0; i < tup.Len(); i++ {
			if containsTypeParam(tup.At(i).Type(), tp) {
				return true
			}
		}
		return false
	}
	return check(sig.Params()) || check(sig.Results())
}

func containsTypeParam(t types.Type, tp *types.TypeParam) bool {
	switch u := t.(type) {
	case *types.TypeParam:
		return u == tp
	case *types.Pointer:
		return containsTypeParam(u.Elem(), tp)
	case *types.Slice:
		return containsTypeParam(u.Elem(), tp)
	case *types.Array:
		return containsTypeParam(u.Elem(), tp)
	case *types.Map:
		return containsTypeParam(u.Key(), tp) || containsTypeParam(u.Elem(), tp)
	default:
		return false
	}
}

func isPrimitive(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsUntyped == 0 && basic.Kind() != types.Invalid
}

func isSelfType(t types.Type, self *types.Named) bool {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	return ok && named == self
}

func findConstructor(proj *semantic.Project, named *types.Named) *types.Func {
	wantName := "New" + named.Obj().Name()
	scope := proj.Pkg.Types.Scope()
	if obj, ok := scope.Lookup(wantName).(*types.Func); ok {
		return obj
	}
	return nil
}

func result(smell string, sev Severity, symbol, detail, file string, line int) Result {
	return Result{Smell: smell, Severity: sev, SymbolName: symbol, Detail: detail, File: file, Line: line}
}
