package tool

// docMap maps tool names to their documentation, mirroring the teacher's
// centralized docMap in gopls/mcpbridge/core/doc.go.
var docMap = map[string]string{
	ToolListProjects: `list_projects lists every Go package loaded into the solution rooted at path.

Use this first, before any other tool, to see what projects exist and what
their import paths are — most other tools accept an optional project_name
that must match one of the names this tool returns.
`,

	ToolProjectInfo: `project_info reports one project's framework version, output type
(exe or library), source file count, and module/external references.

Use this to decide whether a project is a buildable binary (relevant to
find_unused_code's scope=all gate) before asking for a broader scan.
`,

	ToolListSourceFiles: `list_source_files lists every source file belonging to one project, one
path per line, relative to the workspace root.

Use this to build a file list before calling file_symbols on each one, or
to confirm a file you are about to rename actually belongs to the project
you expect.
`,

	ToolDiagnostics: `diagnostics reports build and type-check errors for a project, or for
every project when project_name is omitted.

Run this before any refactor tool — rename, change_signature, and the
rest all assume the solution currently type-checks, and their results are
unreliable on a solution with outstanding diagnostics.
`,

	ToolFindSymbols: `find_symbols searches the package-level declarations of every loaded
project for names that contain (or, with exact=true, equal) query,
optionally filtered by kind (type, interface, method, const, var; a
package-level function has kind method). Methods and struct fields are not
searched; type_members lists those.

Use this as the general-purpose "where is X" tool when you don't yet know
which file a type or function lives in. Prefer exact=true once you know the
precise name, to avoid unrelated substring matches.
`,

	ToolFileSymbols: `file_symbols lists the top-level types declared in one file, and with
depth=1 also expands each type's members.

Use this instead of reading the whole file when you only need its shape —
it is far cheaper than a raw file read and does not dilute context with
implementation bodies unless detail=full is requested.
`,

	ToolTypeMembers: `type_members lists one type's methods and fields.

Use this to answer "what can I call on this type" without opening its
declaring file, and before rename or change_signature to confirm a member
name and its exact spelling.
`,

	ToolListNamespaces: `list_namespaces lists every package path that declares at least one
source-defined type.

Use this for a bird's-eye view of the solution's package layout before
drilling into find_symbols or type_members.
`,

	ToolTypeHierarchy: `type_hierarchy walks a type's embedded-base chain (nearest first, "any"
last) and lists every interface it transitively satisfies.

Use this before find_overrides or implement_interface, to confirm which
base type or interface is actually in play for a given type.
`,

	ToolFindOverrides: `find_overrides finds every in-source declaration of methodName on
typeName that overrides a member inherited through embedding, and every
further override of it in types that embed typeName.

Use this to locate the overriding declaration directly, rather than
reading typeName's whole file looking for it.
`,

	ToolFindDerivedTypes: `find_derived_types finds every implementation of an interface, or every
type that embeds a given struct.

Use this before a rename or change_signature on a widely-implemented
interface method, to see the full blast radius first.
`,

	ToolFindReferences: `find_references finds every reference, caller, or usage of a symbol
across the solution, depending on mode (all, callers, usages).

Use mode=callers before change_signature to see every call site that will
be rewritten. Use detail=full when you need surrounding lines, not just
the matching line.
`,

	ToolSymbolSource: `symbol_source returns a symbol's own declaration text — the exact span
of its func/type/var/field declaration, never the whole file.

Use this instead of find_symbols with detail=full when you only need one
declaration's source and want to spend the fewest tokens getting it.
`,

	ToolFileContent: `file_content reads a file's raw text, 1-based line numbers prepended to
each line, optionally restricted to start_line/end_line.

Reads over 5 MiB fail outright rather than being silently truncated; pass
a line range to read a large file in slices.
`,

	ToolRename: `rename renames a type, method, field, or interface everywhere it is
referenced across the solution, including the file rename for a type
whose file shares its name.

Call with apply=false first to preview the diff, then apply=true to write
it. Run diagnostics again afterward to confirm the solution still
type-checks.
`,

	ToolExtractInterface: `extract_interface generates an interface from a concrete type's exported
methods (all of them, or only member_names) and, when apply=true, writes
it to a new file alongside a compile-time assertion that the type
satisfies it.

Use this when you want to introduce a seam for testing or decoupling
without touching the concrete type's own declaration.
`,

	ToolImplementIface: `implement_interface generates not-implemented stub methods for every
interface member typeName is missing, for one named interface or for
every interface it partially implements.

The generated bodies panic at runtime with a "not implemented" message —
they exist to make the type compile, not to be shipped as-is.
`,

	ToolChangeSignature: `change_signature adds, removes, or reorders a method's parameters,
rewriting both the declaration and every call site found across the
solution.

Run find_references with mode=callers first on a widely-called method to
gauge the size of the change before applying it.
`,

	ToolFindUnusedCode: `find_unused_code reports source-defined methods, fields, and types with
no references outside their own declaration.

scope=private (the default) only considers unexported symbols, which is
always safe. scope=all additionally considers exported symbols, but only
when every project in the solution builds a main package — otherwise a
warning is returned and exported symbols are skipped, since an exported
symbol could be referenced by a caller outside the loaded solution.
`,

	ToolFindCodeSmells: `find_code_smells runs complexity checks (long method, deep nesting,
high cyclomatic complexity, middle man), design checks (large class, god
class, data class, too many dependencies, long parameter list, speculative
generality) and inheritance checks (deep inheritance, refused bequest)
against every non-excluded named type. With deep=true it also runs the
feature-envy check, which walks every method body.

category narrows the scan to "complexity", "design", or "inheritance";
omit it (or pass "all") to run everything. Feature envy runs only with
"design" or "all". Prefer deep=false for a quick pass over a large
solution — feature-envy is considerably more expensive.
`,
}
