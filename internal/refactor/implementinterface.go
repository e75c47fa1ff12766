package refactor

import (
	"fmt"
	"go/types"
	"os"
	"sort"
	"strings"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/format"
	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// StubGroup is one interface's worth of generated stubs (§4.5.3 step 6:
// "summary grouped by source interface").
type StubGroup struct {
	InterfaceName string
	Stubs         []string // rendered signatures
}

// ImplementInterfaceResult is the output of ImplementInterface.
type ImplementInterfaceResult struct {
	Groups []StubGroup
	Change *FileChange // nil if every member was already implemented
}

// ImplementInterface implements implementInterface(typeLocator,
// interfaceLocator) (§4.5.3).
func ImplementInterface(sol *semantic.Solution, typeName, interfaceName string) (*ImplementInterfaceResult, *core.Error) {
	typeSym, err := resolver.ResolveType(sol, resolver.Locator{Name: typeName})
	if err != nil {
		return nil, err
	}
	named, ok := typeSym.Object.(*types.TypeName).Type().(*types.Named)
	if !ok {
		return nil, core.Errorf(core.InvalidInput, "refactor.ImplementInterface", "%q is not a named type", typeName)
	}

	ifaces, ierr := interfacesToConsider(sol, named, interfaceName)
	if ierr != nil {
		return nil, ierr
	}

	result := &ImplementInterfaceResult{}
	receiver := "r"
	recvExpr := fmt.Sprintf("(%s *%s)", receiver, typeName)

	var stubLines []string
	for _, ifaceSym := range ifaces {
		iface := ifaceSym.Object.(*types.TypeName).Type().Underlying().(*types.Interface)
		group := StubGroup{InterfaceName: ifaceSym.Object.Name()}
		for i := 0; i < iface.NumMethods(); i++ {
			m := iface.Method(i)
			if hasMethod(named, m.Name()) {
				continue
			}
			sig := m.Type().(*types.Signature)
			text := stubMethod(recvExpr, m.Name(), sig, typeName)
			group.Stubs = append(group.Stubs, fmt.Sprintf("func %s %s%s", recvExpr, m.Name(), format.SignatureParamsOnly(sig)))
			stubLines = append(stubLines, text)
		}
		if len(group.Stubs) > 0 {
			result.Groups = append(result.Groups, group)
		}
	}

	if len(stubLines) == 0 {
		return result, nil
	}

	file, _, _ := typeSym.Pos()
	before, rerr := os.ReadFile(file)
	if rerr != nil {
		return nil, core.Wrap(core.AnalysisFailed, "refactor.ImplementInterface", rerr, "reading %s", file)
	}
	after := string(before) + "\n" + strings.Join(stubLines, "\n\n") + "\n"
	result.Change = &FileChange{Path: file, Before: string(before), After: after}
	return result, nil
}

func interfacesToConsider(sol *semantic.Solution, named *types.Named, interfaceName string) ([]*semantic.Symbol, *core.Error) {
	if interfaceName != "" {
		sym, err := resolver.ResolveType(sol, resolver.Locator{Name: interfaceName})
		if err != nil {
			return nil, err
		}
		if _, ok := sym.Object.(*types.TypeName).Type().Underlying().(*types.Interface); !ok {
			return nil, core.Errorf(core.InvalidInput, "refactor.ImplementInterface", "%q is not an interface", interfaceName)
		}
		return []*semantic.Symbol{sym}, nil
	}

	var declared []*semantic.Symbol
	seen := map[string]bool{}
	// "all declared" (§4.5.3 step 2, no interfaceName given): every
	// interface in the solution that this type could plausibly be
	// completing, i.e. every interface it already partially implements.
	for _, proj := range sol.Projects {
		for _, s := range resolver.AllNamedTypes(proj) {
			iface, ok := s.Object.(*types.TypeName).Type().Underlying().(*types.Interface)
			if !ok || iface.NumMethods() == 0 {
				continue
			}
			if seen[s.Object.Name()] {
				continue
			}
			if partiallyImplements(named, iface) {
				seen[s.Object.Name()] = true
				declared = append(declared, s)
			}
		}
	}
	sort.Slice(declared, func(i, j int) bool { return declared[i].Object.Name() < declared[j].Object.Name() })
	return declared, nil
}

func partiallyImplements(named *types.Named, iface *types.Interface) bool {
	for i := 0; i < iface.NumMethods(); i++ {
		if hasMethod(named, iface.Method(i).Name()) {
			return true
		}
	}
	return false
}

func hasMethod(named *types.Named, name string) bool {
	mset := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < mset.Len(); i++ {
		if mset.At(i).Obj().Name() == name {
			return true
		}
	}
	return false
}

// stubMethod emits a method body that always fails at runtime (§4.5.3 step
// 4: "implementation bodies that always fail with 'not implemented' at
// runtime").
func stubMethod(recvExpr, name string, sig *types.Signature, typeName string) string {
	panicLine := fmt.Sprintf("\tpanic(\"%s.%s: not implemented\")", typeName, name)
	return fmt.Sprintf("func %s %s%s {\n%s\n}", recvExpr, name, format.SignatureParamsOnly(sig), panicLine)
}
