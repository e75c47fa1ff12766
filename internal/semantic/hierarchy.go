package semantic

import (
	"go/types"
)

// EmbeddedBase returns the single same-module named-type base of named, per
// SPEC_FULL.md §0.1: a struct type whose only embedded named type is a
// same-module type has that type as its "base type" for chain-walk
// purposes. Types that embed more than one named type (from any module), or
// only a type from another module, have no base (ok=false) — this is the
// documented edge case in SPEC_FULL.md §6, not a silent omission.
func EmbeddedBase(named *types.Named, modulePath string) (base *types.Named, ok bool) {
	st, isStruct := named.Underlying().(*types.Struct)
	if !isStruct {
		return nil, false
	}
	var candidate *types.Named
	count := 0
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		t := f.Type()
		if ptr, isPtr := t.(*types.Pointer); isPtr {
			t = ptr.Elem()
		}
		n, isNamed := t.(*types.Named)
		if !isNamed {
			continue
		}
		count++
		if samePackageTree(n, modulePath) {
			candidate = n
		}
	}
	if count != 1 || candidate == nil {
		return nil, false
	}
	return candidate, true
}

func samePackageTree(n *types.Named, modulePath string) bool {
	if n.Obj() == nil || n.Obj().Pkg() == nil {
		return false
	}
	path := n.Obj().Pkg().Path()
	return path == modulePath || hasModulePrefix(path, modulePath)
}

func hasModulePrefix(path, modulePath string) bool {
	if modulePath == "" {
		return false
	}
	if len(path) <= len(modulePath) {
		return path == modulePath
	}
	return path[:len(modulePath)] == modulePath && path[len(modulePath)] == '/'
}

// BaseChain walks EmbeddedBase repeatedly, nearest first, the way the spec's
// typeHierarchy walks `baseType` (§4.4). It stops at the first type with no
// single same-module base. The caller appends the universal-root label
// ("any") afterward.
func BaseChain(named *types.Named, modulePath string) []*types.Named {
	var chain []*types.Named
	seen := map[*types.Named]bool{named: true}
	cur := named
	for {
		base, ok := EmbeddedBase(cur, modulePath)
		if !ok || seen[base] {
			break
		}
		chain = append(chain, base)
		seen[base] = true
		cur = base
	}
	return chain
}

// DirectlyDeclaredMethods returns the methods declared directly on named
// (not promoted through embedding) — the spec's "virtual or abstract
// member" set is exactly the subset of these that a descendant shadows
// (§0.1).
func DirectlyDeclaredMethods(named *types.Named) []*types.Func {
	var out []*types.Func
	for i := 0; i < named.NumMethods(); i++ {
		out = append(out, named.Method(i))
	}
	return out
}

// Overrides reports, for a derived type's method set, which of base's
// directly-declared methods are shadowed by a same-named method declared
// directly on derived (§0.1's "override" analogue). Signature compatibility
// is not required, matching the spec's looser C# "override" notion being
// approximated here.
func Overrides(derived, base *types.Named) (overridden []*types.Func, total []*types.Func) {
	total = DirectlyDeclaredMethods(base)
	derivedNames := map[string]bool{}
	for _, m := range DirectlyDeclaredMethods(derived) {
		derivedNames[m.Name()] = true
	}
	for _, m := range total {
		if derivedNames[m.Name()] {
			overridden = append(overridden, m)
		}
	}
	return overridden, total
}

// Implements reports whether t's method set satisfies iface, trying both t
// and *t the way Go method-set rules require.
func Implements(t types.Type, iface *types.Interface) bool {
	if types.Implements(t, iface) {
		return true
	}
	if _, isPtr := t.(*types.Pointer); !isPtr {
		return types.Implements(types.NewPointer(t), iface)
	}
	return false
}

// AllInterfaces collects, transitively, every non-empty interface type in
// allNamed that t implements — the spec's "transitive interface set" for
// typeHierarchy (§4.4).
func AllInterfaces(t types.Type, allNamed []*types.Named) []*types.Named {
	var out []*types.Named
	for _, n := range allNamed {
		iface, ok := n.Underlying().(*types.Interface)
		if !ok || iface.NumMethods() == 0 {
			continue
		}
		if Implements(t, iface) {
			out = append(out, n)
		}
	}
	return out
}
