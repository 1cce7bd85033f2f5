package spec

// Internal model consumed by the type and client generators. Schema shapes
// are classified exactly once while normalizing the kin-openapi document;
// generators switch on Kind and never re-inspect loose field presence.

type HTTPMethod string

const (
	GET     HTTPMethod = "get"
	PUT     HTTPMethod = "put"
	POST    HTTPMethod = "post"
	DELETE  HTTPMethod = "delete"
	OPTIONS HTTPMethod = "options"
	HEAD    HTTPMethod = "head"
	PATCH   HTTPMethod = "patch"
	TRACE   HTTPMethod = "trace"
)

// Methods lists the supported HTTP methods in emission order.
var Methods = []HTTPMethod{GET, PUT, POST, DELETE, OPTIONS, HEAD, PATCH, TRACE}

// HasBody reports whether the method carries a request payload in the
// generated client.
func (m HTTPMethod) HasBody() bool {
	return m == POST || m == PUT || m == PATCH
}

// SchemaKind discriminates the schema node union.
type SchemaKind int

const (
	KindPrimitive SchemaKind = iota
	KindRef
	KindAllOf
	KindOneOf
	KindArray
	KindObject
)

func (k SchemaKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindRef:
		return "ref"
	case KindAllOf:
		return "allOf"
	case KindOneOf:
		return "oneOf"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// SchemaNode is one node of the schema graph. Exactly the fields implied by
// Kind are populated; Nullable, Enum and Format apply to any kind.
type SchemaNode struct {
	Kind SchemaKind

	// KindRef: name of the referenced schema under components.schemas.
	Ref string

	// KindAllOf / KindOneOf.
	Subs []*SchemaNode

	// KindArray.
	Items *SchemaNode

	// KindObject.
	Properties           []Property
	AdditionalProperties *SchemaNode

	// KindPrimitive: "string", "number", "integer", "boolean", "null",
	// or "" for the unconstrained fallback.
	Type   string
	Format string

	Nullable bool
	Enum     []any
}

// IsEnum reports whether the node carries a fixed literal set.
func (n *SchemaNode) IsEnum() bool { return len(n.Enum) > 0 }

// Property is one declared object property.
type Property struct {
	Name      string
	Schema    *SchemaNode
	Required  bool
	ReadOnly  bool
	WriteOnly bool
}

// NamedSchema is one entry of components.schemas.
type NamedSchema struct {
	Name   string
	Schema *SchemaNode
}

// Parameter is one operation parameter after path/operation-level merging.
type Parameter struct {
	Name     string
	In       string // path|query|header|cookie
	Required bool
	Schema   *SchemaNode
}

// Response is one declared response of an operation. Schema is the
// application/json schema when present; HasJSON distinguishes a declared
// response without a JSON content entry from one with a schemaless entry.
type Response struct {
	Status  string
	HasJSON bool
	Schema  *SchemaNode
}

// Operation is one (path, method) pairing. ID may be empty and Responses may
// be nil; the client generator skips such operations.
type Operation struct {
	ID          string
	Method      HTTPMethod
	Path        string
	Tags        []string
	Parameters  []Parameter
	RequestBody *Response // JSON body media entry; Status stays empty
	Responses   []Response
}

// Document is the normalized specification: named schemas plus operations,
// both in deterministic order. Read-only after BuildDocument returns.
type Document struct {
	Title   string
	Version string

	Schemas    []NamedSchema
	Operations []Operation

	index map[string]*SchemaNode
}

// NewDocument assembles a document from already-normalized parts. Callers
// that start from an OpenAPI file use BuildDocument instead.
func NewDocument(schemas []NamedSchema, ops []Operation) *Document {
	d := &Document{Schemas: schemas, Operations: ops, index: make(map[string]*SchemaNode, len(schemas))}
	for _, ns := range schemas {
		d.index[ns.Name] = ns.Schema
	}
	return d
}

// Schema returns the named schema node, or nil when the name is unknown.
func (d *Document) Schema(name string) *SchemaNode {
	if d == nil {
		return nil
	}
	return d.index[name]
}
