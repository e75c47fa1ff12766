// Package api holds the transport-level input types for every tool the
// dispatcher exposes (tool/server.go's registry). Every operation's output is
// plain LF-separated text per §4.7, so there are no corresponding output
// structs — tool/handlers.go calls straight into internal/format and
// returns the rendered string.
package api

// Common holds the fields every operation shares: the solution root and an
// optional project scope (§4.1's "path" parameter, §4.4's optional
// projectName). Every request struct below embeds it, the way the teacher's
// IListModules et al. each carry their own Cwd field.
type Common struct {
	// Path is the solution root: a directory containing go.mod or go.work.
	Path string `json:"path" jsonschema:"the workspace root directory (containing go.mod or go.work)"`
	// ProjectName optionally scopes the operation to one loaded package, by
	// import path or package name. Empty means "the first loaded project"
	// or "all projects", depending on the operation.
	ProjectName string `json:"project_name,omitempty" jsonschema:"optional package import path or name to scope the operation to"`
}

// Locator generalizes the spec's (symbolName, containingType?) pair (§4.2),
// with the optional hints resolver.Locator accepts.
type Locator struct {
	SymbolName     string `json:"symbol_name" jsonschema:"the symbol's short or fully-qualified name"`
	ContainingType string `json:"containing_type,omitempty" jsonschema:"optional receiver/parent type name to disambiguate"`
	Kind           string `json:"kind,omitempty" jsonschema:"optional symbol kind filter: type, method, field, interface, ..."`
}
