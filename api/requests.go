package api

// ===== Project operations (§4.4) =====

// IListProjects is listProjects(path).
type IListProjects struct {
	Common
}

// IProjectInfo is projectInfo(path, projectName).
type IProjectInfo struct {
	Common
}

// IListSourceFiles is sourceFiles(path, projectName).
type IListSourceFiles struct {
	Common
}

// IDiagnostics is diagnostics(path, projectName?).
type IDiagnostics struct {
	Common
}

// ===== Symbol operations (§4.4) =====

// IFindSymbols is findSymbols(path, query, kind?, exact, detail).
type IFindSymbols struct {
	Common
	Query  string `json:"query" jsonschema:"substring or exact name to search for"`
	Kind   string `json:"kind,omitempty" jsonschema:"optional kind filter: type, interface, method (package-level functions), const, var"`
	Exact  bool   `json:"exact,omitempty" jsonschema:"exact name match instead of case-insensitive substring"`
	Detail string `json:"detail,omitempty" jsonschema:"compact (default) or full"`
}

// IFileSymbols is fileSymbols(path, filePath, depth, detail).
type IFileSymbols struct {
	Common
	FilePath string `json:"file_path" jsonschema:"path to the source file, absolute or relative to the workspace root"`
	Depth    int    `json:"depth,omitempty" jsonschema:"0 (default): top-level types only; 1: expand each type's members"`
	Detail   string `json:"detail,omitempty" jsonschema:"compact (default) or full"`
}

// ITypeMembers is typeMembers(path, typeName, detail).
type ITypeMembers struct {
	Common
	TypeName string `json:"type_name" jsonschema:"the type's short or fully-qualified name"`
	Detail   string `json:"detail,omitempty" jsonschema:"compact (default) or full"`
}

// IListNamespaces is listNamespaces(path).
type IListNamespaces struct {
	Common
}

// ===== Hierarchy operations (§4.4) =====

// ITypeHierarchy is typeHierarchy(path, typeName).
type ITypeHierarchy struct {
	Common
	TypeName string `json:"type_name" jsonschema:"the type's short or fully-qualified name"`
}

// IFindOverrides is findOverrides(path, typeName, methodName).
type IFindOverrides struct {
	Common
	TypeName   string `json:"type_name" jsonschema:"the overriding type's name"`
	MethodName string `json:"method_name" jsonschema:"the method that must be virtual, abstract, or overridden"`
}

// IFindDerivedTypes is findDerivedTypes(path, typeName).
type IFindDerivedTypes struct {
	Common
	TypeName string `json:"type_name" jsonschema:"an interface (returns implementations) or a struct (returns derived types)"`
}

// ===== Reference operations (§4.3) =====

// IFindReferences is findReferences(path, symbolName, containingType?, projectScope?, detail, mode).
type IFindReferences struct {
	Common
	Locator
	ProjectScope string `json:"project_scope,omitempty" jsonschema:"optional package to restrict results to"`
	Detail       string `json:"detail,omitempty" jsonschema:"compact (default) or full"`
	Mode         string `json:"mode,omitempty" jsonschema:"all (default), callers, or usages"`
}

// ===== Source operations (§6.1) =====

// ISymbolSource is symbolSource(path, symbolLocator).
type ISymbolSource struct {
	Common
	Locator
}

// IFileContent is fileContent(path, filePath, startLine?, endLine?).
type IFileContent struct {
	Common
	FilePath  string `json:"file_path" jsonschema:"path to the file, absolute or relative to the workspace root"`
	StartLine int    `json:"start_line,omitempty" jsonschema:"1-based first line to return; omit or 0 for the start of the file"`
	EndLine   int    `json:"end_line,omitempty" jsonschema:"1-based last line to return, inclusive; omit or 0 for the end of the file"`
}

// ===== Refactor operations (§4.5) =====

// IRename is rename(symbolLocator, newName).
type IRename struct {
	Common
	Locator
	NewName string `json:"new_name" jsonschema:"the new identifier"`
	Apply   bool   `json:"apply,omitempty" jsonschema:"when true, write the changes to disk; when false (default), preview only"`
}

// IExtractInterface is extractInterface(typeLocator, memberNames, interfaceName, apply).
type IExtractInterface struct {
	Common
	TypeName      string   `json:"type_name" jsonschema:"the concrete type to extract an interface from"`
	MemberNames   []string `json:"member_names,omitempty" jsonschema:"exported method names to include; empty means all exported methods"`
	InterfaceName string   `json:"interface_name,omitempty" jsonschema:"defaults to I<TypeName>"`
	Apply         bool     `json:"apply,omitempty" jsonschema:"when true, write the interface file and the assertion line; when false (default), preview only"`
}

// IImplementInterface is implementInterface(typeLocator, interfaceLocator).
type IImplementInterface struct {
	Common
	TypeName      string `json:"type_name" jsonschema:"the concrete type to generate stubs for"`
	InterfaceName string `json:"interface_name,omitempty" jsonschema:"an interface name; empty means every interface the type partially implements"`
}

// IChangeSignature is changeSignature(methodLocator, addParameters?, removeParameters?, reorderParameters?).
type IChangeSignature struct {
	Common
	Locator
	AddParameters     string `json:"add_parameters,omitempty" jsonschema:"comma-separated \"type name[= default]\" entries to append"`
	RemoveParameters  string `json:"remove_parameters,omitempty" jsonschema:"comma-separated parameter names to remove"`
	ReorderParameters string `json:"reorder_parameters,omitempty" jsonschema:"comma-separated parameter names in their new order"`
}

// ===== Analysis operations (§4.6, §4 supplement) =====

// IFindUnusedCode is findUnusedCode(scope, projectName?).
type IFindUnusedCode struct {
	Common
	Scope string `json:"scope,omitempty" jsonschema:"private (default) or all"`
}

// IFindCodeSmells is findCodeSmells(path, category, projectName?, deep).
type IFindCodeSmells struct {
	Common
	Category string `json:"category,omitempty" jsonschema:"all (default), complexity, design, or inheritance"`
	Deep     bool   `json:"deep,omitempty" jsonschema:"enable the feature-envy check (part of the design category), which walks every method body"`
}

// IListTools is the meta-tool's (empty) input.
type IListTools struct{}
