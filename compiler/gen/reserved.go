package gen

import (
	"slices"
)

// ReservedKind selects the namespace an identifier is checked against.
type ReservedKind int

// Reserved namespaces.
const (
	ReservedDataClass ReservedKind = iota
	ReservedField
	ReservedParameter
	ReservedFilename
)

// String returns the namespace name used in warnings.
func (k ReservedKind) String() string {
	switch k {
	case ReservedDataClass:
		return "data class"
	case ReservedField:
		return "field"
	case ReservedParameter:
		return "parameter"
	case ReservedFilename:
		return "filename"
	default:
		return "unknown"
	}
}

// IsReserved reports if identifier collides with a keyword of the target
// language or with a name the generated SDK already uses in the namespace
// of kind.
func IsReserved(identifier string, kind ReservedKind) bool {
	if _, ok := pythonKeywords[identifier]; ok {
		return true
	}
	var set map[string]struct{}
	switch kind {
	case ReservedDataClass:
		set = reservedClassNames
	case ReservedField:
		set = reservedFieldNames
	case ReservedParameter:
		set = reservedParameterNames
	case ReservedFilename:
		set = reservedFilenames
	}
	_, ok := set[identifier]
	return ok
}

// escapeReserved appends "_" to identifier if it is reserved in kind and
// reports whether it did.
func escapeReserved(identifier string, kind ReservedKind) (string, bool) {
	if IsReserved(identifier, kind) {
		return identifier + "_", true
	}
	return identifier, false
}

// coreModule is the fixed internal module of every generated SDK. No view
// may resolve to it.
const coreModule = "core"

var (
	pythonKeywords = names(
		"False", "None", "True", "and", "as", "assert", "async", "await",
		"break", "class", "continue", "def", "del", "elif", "else", "except",
		"finally", "for", "from", "global", "if", "import", "in", "is",
		"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
		"while", "with", "yield",
		// soft keywords
		"match", "case", "_",
	)

	// reservedClassNames are builtins and the names every generated data
	// class module imports.
	reservedClassNames = names(
		"Any", "ClassVar", "Literal", "Optional", "Sequence", "Union", "TYPE_CHECKING",
		"BaseModel", "Field", "field_validator", "model_validator",
		"DomainModel", "DomainModelWrite", "DomainModelList", "DomainModelWriteList",
		"DomainModelCore", "DomainRelation", "DomainRelationWrite",
		"DataRecord", "DataRecordWrite", "DataRecordGraphQL", "GraphQLCore",
		"ResourcesWrite", "ResourcesWriteResult", "TypedNode", "TypedEdge",
		"NodeId", "EdgeId", "ViewId", "DirectRelationReference", "InstanceId",
		"TimeSeries", "TimeSeriesWrite", "FileMetadata", "FileMetadataWrite",
		"SequenceWrite", "Client", "CogniteClient", "Node", "Edge", "Instance",
		"Filter", "QueryBuilder", "QueryStep",
		"bool", "bytes", "date", "datetime", "dict", "float", "int", "list",
		"object", "property", "set", "str", "tuple", "type",
	)

	// reservedFieldNames are the attributes and methods of the generated read
	// and write base classes.
	reservedFieldNames = names(
		"space", "external_id", "version", "last_updated_time", "created_time",
		"deleted_time", "data_record", "node_type", "edge_type", "start_node",
		"end_node", "instance_type", "existing_version",
		"model_config", "model_fields", "model_computed_fields", "model_dump",
		"model_dump_json", "model_validate", "model_validate_json", "model_copy",
		"model_construct", "model_json_schema", "model_extra", "model_fields_set",
		"dump", "load", "as_write", "as_read", "as_apply", "as_id", "as_direct_reference",
		"id_tuple", "to_pandas", "to_instances", "external_id_factory",
		"copy", "dict", "json", "parse_obj", "parse_raw", "schema", "schema_json",
		"validate", "construct", "fields",
	)

	// reservedParameterNames are the parameters every generated API method
	// already takes.
	reservedParameterNames = names(
		"self", "limit", "filter", "sort", "sort_by", "direction", "retrieve_connections",
		"retrieve_edges", "chunk_size", "properties", "query", "search_property",
		"instance_type", "group_by", "aggregate", "property", "interval", "view_id",
		"client", "items", "replace", "write_none", "allow_version_increase",
		"sources", "default_space", "external_id", "node", "edge",
	)

	// reservedFilenames are the modules the generated package defines or
	// imports next to the data class modules.
	reservedFilenames = names(
		"__init__", "_api", "_api_client", "data_classes", "config", "typing",
		"datetime", "json", "types", "abc", "enum", "dataclasses", "pydantic",
		"cognite", "warnings", "collections", "functools",
	)
)

// names returns a set of the given identifiers.
func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for i := range ids {
		m[ids[i]] = struct{}{}
	}
	return m
}

func sortedStrings(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
