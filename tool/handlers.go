package tool

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/codelens-dev/codelens-mcp/api"
	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/format"
	"github.com/codelens-dev/codelens-mcp/internal/query"
	"github.com/codelens-dev/codelens-mcp/internal/refactor"
	"github.com/codelens-dev/codelens-mcp/internal/refs"
	"github.com/codelens-dev/codelens-mcp/internal/resolver"
	"github.com/codelens-dev/codelens-mcp/internal/smell"
	"github.com/codelens-dev/codelens-mcp/internal/source"
	"github.com/codelens-dev/codelens-mcp/internal/unusedcode"
)

// buildRegistry assembles the full tool table — the analogue of the
// teacher's package-level `tools []Tool` slice in core/server.go, built as a
// function here so it can close over h.
func buildRegistry(h *Handler) []entry {
	var reg []entry

	register(&reg, ToolListProjects, "List every loaded project (Go package) in the solution.", h, handleListProjects)
	register(&reg, ToolProjectInfo, "Get framework, output type, source file count, and references for one project.", h, handleProjectInfo)
	register(&reg, ToolListSourceFiles, "List every source file belonging to one project.", h, handleListSourceFiles)
	register(&reg, ToolDiagnostics, "Get build/type diagnostics, filtered to warning-or-higher, sorted errors-first.", h, handleDiagnostics)

	register(&reg, ToolFindSymbols, "Search symbols by substring or exact name, optionally filtered by kind.", h, handleFindSymbols)
	register(&reg, ToolFileSymbols, "List the top-level (and optionally member) symbols declared in one file.", h, handleFileSymbols)
	register(&reg, ToolTypeMembers, "List a type's methods and fields.", h, handleTypeMembers)
	register(&reg, ToolListNamespaces, "List every package path containing at least one source-defined type.", h, handleListNamespaces)

	register(&reg, ToolTypeHierarchy, "Walk a type's embedded-base chain and list its transitive interfaces.", h, handleTypeHierarchy)
	register(&reg, ToolFindOverrides, "Find every in-source declaration of a method a type overrides from its embedded base.", h, handleFindOverrides)
	register(&reg, ToolFindDerivedTypes, "Find every implementation of an interface, or every type embedding a given struct.", h, handleFindDerivedTypes)

	register(&reg, ToolFindReferences, "Find references, callers, or usages of a symbol across the solution.", h, handleFindReferences)

	register(&reg, ToolSymbolSource, "Get a symbol's own declaration source text.", h, handleSymbolSource)
	register(&reg, ToolFileContent, "Read a file's raw contents, optionally restricted to a 1-based line range, with a 5 MiB ceiling.", h, handleFileContent)

	register(&reg, ToolRename, "Preview or apply a rename of a type, method, field, or interface across the solution.", h, handleRename)
	register(&reg, ToolExtractInterface, "Preview or apply extracting an interface from a concrete type's exported methods.", h, handleExtractInterface)
	register(&reg, ToolImplementIface, "Generate not-implemented stub methods for the interfaces a type is missing members for.", h, handleImplementInterface)
	register(&reg, ToolChangeSignature, "Add, remove, or reorder a method's parameters, rewriting the declaration and every call site.", h, handleChangeSignature)

	register(&reg, ToolFindUnusedCode, "Report source-defined methods, fields, and types with no references outside their own declaration.", h, handleFindUnusedCode)
	register(&reg, ToolFindCodeSmells, "Run complexity, design, and inheritance code-smell checks (optionally including feature-envy).", h, handleFindCodeSmells)

	return reg
}

// ===== Project =====

func handleListProjects(ctx context.Context, h *Handler, in api.IListProjects) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	infos := query.ListProjects(sol)
	if len(infos) == 0 {
		return "(0 projects)", nil
	}
	var b strings.Builder
	for _, p := range infos {
		fmt.Fprintf(&b, "%s\n", renderProjectInfo(sol.Root, p))
	}
	return b.String(), nil
}

func handleProjectInfo(ctx context.Context, h *Handler, in api.IProjectInfo) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	p, err := query.GetProjectInfo(sol, in.ProjectName)
	if err != nil {
		return "", err
	}
	return renderProjectInfo(sol.Root, p), nil
}

func renderProjectInfo(root string, p query.ProjectInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %s)\n", p.Name, p.Framework, p.OutputType)
	fmt.Fprintf(&b, "  dir: %s\n", core.RelativeTo(root, p.FilePath))
	fmt.Fprintf(&b, "  source files: %d\n", p.SourceFileCount)
	if len(p.References) > 0 {
		fmt.Fprintf(&b, "  module references: %s\n", strings.Join(p.References, ", "))
	}
	if len(p.PackageRefs) > 0 {
		fmt.Fprintf(&b, "  external references: %s\n", strings.Join(p.PackageRefs, ", "))
	}
	return b.String()
}

func handleListSourceFiles(ctx context.Context, h *Handler, in api.IListSourceFiles) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	files, err := query.SourceFiles(sol, in.ProjectName)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "%s\n", core.RelativeTo(sol.Root, f))
	}
	return b.String(), nil
}

func handleDiagnostics(ctx context.Context, h *Handler, in api.IDiagnostics) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	diags, err := query.Diagnostics(sol, in.ProjectName)
	if err != nil {
		return "", err
	}
	if len(diags) == 0 {
		return "(no diagnostics)", nil
	}
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "[%s] %s: %s\n", d.Severity, core.Location(core.RelativeTo(sol.Root, d.File), d.Line), d.Message)
	}
	return b.String(), nil
}

// ===== Symbols =====

func handleFindSymbols(ctx context.Context, h *Handler, in api.IFindSymbols) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	hits := query.FindSymbols(sol, in.Query, in.Kind, in.Exact, detailOf(in.Detail))
	return format.SymbolList(sol.Root, hits, detailOf(in.Detail)), nil
}

func handleFileSymbols(ctx context.Context, h *Handler, in api.IFileSymbols) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	hits := query.FileSymbols(sol, in.FilePath, in.Depth, detailOf(in.Detail))
	return format.SymbolList(sol.Root, hits, detailOf(in.Detail)), nil
}

func handleTypeMembers(ctx context.Context, h *Handler, in api.ITypeMembers) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	hits := query.TypeMembers(sol, in.TypeName, detailOf(in.Detail))
	return format.SymbolList(sol.Root, hits, detailOf(in.Detail)), nil
}

func handleListNamespaces(ctx context.Context, h *Handler, in api.IListNamespaces) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	ns := query.ListNamespaces(sol)
	return strings.Join(ns, "\n"), nil
}

// ===== Hierarchy =====

func handleTypeHierarchy(ctx context.Context, h *Handler, in api.ITypeHierarchy) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	res, err := query.TypeHierarchy(sol, in.TypeName)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", res.TypeName, res.Kind)
	fmt.Fprintf(&b, "  baseTypes: %s\n", strings.Join(res.BaseTypes, ", "))
	fmt.Fprintf(&b, "  interfaces: %s\n", strings.Join(res.Interfaces, ", "))
	return b.String(), nil
}

func handleFindOverrides(ctx context.Context, h *Handler, in api.IFindOverrides) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	hits, err := query.FindOverrides(sol, in.TypeName, in.MethodName)
	if err != nil {
		return "", err
	}
	return format.SymbolList(sol.Root, hits, query.DetailCompact), nil
}

func handleFindDerivedTypes(ctx context.Context, h *Handler, in api.IFindDerivedTypes) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	hits, err := query.FindDerivedTypes(sol, in.TypeName)
	if err != nil {
		return "", err
	}
	return format.SymbolList(sol.Root, hits, query.DetailCompact), nil
}

// ===== References =====

func handleFindReferences(ctx context.Context, h *Handler, in api.IFindReferences) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	loc := locatorOf(in.Locator, in.ProjectName)
	mode := refs.ModeAll
	switch in.Mode {
	case "callers":
		mode = refs.ModeCallers
	case "usages":
		mode = refs.ModeUsages
	}
	detail := refs.DetailCompact
	if in.Detail == "full" {
		detail = refs.DetailFull
	}
	hits, err := refs.FindReferences(sol, loc, in.ProjectScope, detail, mode)
	if err != nil {
		return "", err
	}
	return format.ReferenceList(sol.Root, hits), nil
}

// ===== Source =====

func handleSymbolSource(ctx context.Context, h *Handler, in api.ISymbolSource) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	loc := locatorOf(in.Locator, in.ProjectName)
	text, serr := source.SymbolSource(sol, loc)
	if serr != nil {
		return "", serr
	}
	return text, nil
}

func handleFileContent(ctx context.Context, h *Handler, in api.IFileContent) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	text, serr := source.ReadFile(sol.Root, in.FilePath, in.StartLine, in.EndLine)
	if serr != nil {
		return "", serr
	}
	return text, nil
}

// ===== Refactor =====

func handleRename(ctx context.Context, h *Handler, in api.IRename) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	loc := locatorOf(in.Locator, in.ProjectName)
	result, rerr := refactor.Rename(sol, loc, in.NewName)
	if rerr != nil {
		return "", rerr
	}
	if !in.Apply {
		return renderRenamePreview(sol.Root, result)
	}
	if err := applyChanges(h, ctx, in.Path, result.Changes); err != nil {
		return "", err
	}
	return renderRenamePreview(sol.Root, result)
}

func renderRenamePreview(root string, result *refactor.RenameResult) (string, error) {
	var b strings.Builder
	for _, fc := range result.Changes {
		diff, err := refactor.UnifiedDiff(fc)
		if err != nil {
			return "", err
		}
		if diff != "" {
			b.WriteString(diff)
		}
	}
	if result.RenamedPath != "" {
		fmt.Fprintf(&b, "\nfile renamed: %s -> %s\n", core.RelativeTo(root, result.RenamedPath), core.RelativeTo(root, result.RenamedTo))
	}
	return b.String(), nil
}

func handleExtractInterface(ctx context.Context, h *Handler, in api.IExtractInterface) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	result, rerr := refactor.ExtractInterface(sol, in.TypeName, in.MemberNames, in.InterfaceName, in.Apply)
	if rerr != nil {
		return "", rerr
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", result.InterfaceText)
	if in.Apply && result.BaseListEdit != nil {
		ifaceFile := refactor.FileChange{Path: result.FilePath, After: result.InterfaceText}
		if err := applyChanges(h, ctx, in.Path, []refactor.FileChange{ifaceFile, *result.BaseListEdit}); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\nwritten to %s\n", core.RelativeTo(sol.Root, result.FilePath))
		diff, derr := refactor.UnifiedDiff(*result.BaseListEdit)
		if derr == nil && diff != "" {
			b.WriteString(diff)
		}
	}
	return b.String(), nil
}

func handleImplementInterface(ctx context.Context, h *Handler, in api.IImplementInterface) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	result, rerr := refactor.ImplementInterface(sol, in.TypeName, in.InterfaceName)
	if rerr != nil {
		return "", rerr
	}
	if len(result.Groups) == 0 {
		return fmt.Sprintf("%s already implements every considered interface.", in.TypeName), nil
	}
	if err := applyChanges(h, ctx, in.Path, []refactor.FileChange{*result.Change}); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, g := range result.Groups {
		fmt.Fprintf(&b, "%s: %d stub(s)\n", g.InterfaceName, len(g.Stubs))
		for _, s := range g.Stubs {
			fmt.Fprintf(&b, "  %s\n", s)
		}
	}
	diff, derr := refactor.UnifiedDiff(*result.Change)
	if derr == nil && diff != "" {
		b.WriteString(diff)
	}
	return b.String(), nil
}

func handleChangeSignature(ctx context.Context, h *Handler, in api.IChangeSignature) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	loc := locatorOf(in.Locator, in.ProjectName)
	input := refactor.ChangeSignatureInput{
		AddParameters:     refactor.ParseAddedParams(in.AddParameters),
		RemoveParameters:  splitCSV(in.RemoveParameters),
		ReorderParameters: splitCSV(in.ReorderParameters),
	}
	result, rerr := refactor.ChangeSignature(sol, loc, input)
	if rerr != nil {
		return "", rerr
	}
	if err := applyChanges(h, ctx, in.Path, result.Changes); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, fc := range result.Changes {
		diff, derr := refactor.UnifiedDiff(fc)
		if derr != nil {
			return "", derr
		}
		b.WriteString(diff)
	}
	return b.String(), nil
}

// applyChanges writes every change to disk, then moves a renamed change's
// file to its new path, and invalidates the cache under a single C2 exclusive grant
// (§4.1's apply(path, newSolution, postAction?)).
func applyChanges(h *Handler, ctx context.Context, root string, changes []refactor.FileChange) error {
	post := func() error {
		for _, fc := range changes {
			if err := writeFile(fc.Path, fc.After); err != nil {
				return err
			}
			if fc.Renamed {
				if err := renameFile(fc.Path, fc.NewPath); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if cerr := h.Manager.Apply(ctx, root, post); cerr != nil {
		return cerr
	}
	return nil
}

// ===== Analysis =====

func handleFindUnusedCode(ctx context.Context, h *Handler, in api.IFindUnusedCode) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	scope := unusedcode.ScopePrivate
	if in.Scope == "all" {
		scope = unusedcode.ScopeAll
	}
	results, warning, rerr := unusedcode.FindUnusedCode(sol, scope, in.ProjectName)
	if rerr != nil {
		return "", rerr
	}
	out := smell.Render(sol.Root, results)
	if warning != "" {
		out = fmt.Sprintf("warning: %s\n\n%s", warning, out)
	}
	if out == "" {
		return "(no unused code found)", nil
	}
	return out, nil
}

func handleFindCodeSmells(ctx context.Context, h *Handler, in api.IFindCodeSmells) (string, error) {
	sol, err := h.Manager.Acquire(ctx, in.Path)
	if err != nil {
		return "", err
	}
	category := smell.Category(in.Category)
	switch category {
	case smell.CategoryAll, smell.CategoryComplexity, smell.CategoryDesign, smell.CategoryInheritance:
	default:
		category = smell.CategoryAll
	}
	results, rerr := smell.FindCodeSmells(sol, category, in.ProjectName, in.Deep)
	if rerr != nil {
		return "", rerr
	}
	out := smell.Render(sol.Root, results)
	if out == "" {
		return "(no code smells found)", nil
	}
	return out, nil
}

// ===== shared helpers =====

func detailOf(s string) query.Detail {
	if s == "full" {
		return query.DetailFull
	}
	return query.DetailCompact
}

func locatorOf(l api.Locator, projectName string) resolver.Locator {
	return resolver.Locator{Name: l.SymbolName, ContainingType: l.ContainingType, Kind: l.Kind, PackageName: projectName}
}

// writeFile persists one FileChange's new contents, preserving the
// original file's permissions.
func writeFile(path, contents string) error {
	info, statErr := os.Stat(path)
	mode := os.FileMode(0o644)
	if statErr == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, []byte(contents), mode)
}

// renameFile moves a type's declaring file to match its new name (§4.5.1
// step 3), performed only after the rewritten contents are on disk at the
// old path.
func renameFile(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
