package gen

// GenErrorCode categorizes generation failures.
type GenErrorCode string

const (
	// MissingContent: a request body or selected success response declares
	// no application/json entry.
	MissingContent GenErrorCode = "MissingContent"
	// UnresolvedReference: a $ref does not resolve within components.schemas.
	UnresolvedReference GenErrorCode = "UnresolvedReference"
	// CircularReference: a $ref chain never reaches a concrete schema.
	CircularReference GenErrorCode = "CircularReference"
)

// GenError is a fatal generation error. Subject names the schema or
// operation that was being generated when the failure occurred.
type GenError struct {
	Code    GenErrorCode
	Subject string
	Message string
}

func (e *GenError) Error() string { return e.Message }
