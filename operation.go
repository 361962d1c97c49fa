package toolwire

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/toolwire/toolwire/internal/registry"
	"github.com/toolwire/toolwire/internal/schema"
)

type (
	// Operation is a named, schema-validated, remotely invocable function.
	// Its Handler receives input that has already passed validation, with
	// defaults applied.
	Operation = registry.Operation

	// OperationHandler is the function invoked for an operations/call.
	// Returned strings and byte slices become the result text verbatim;
	// any other value is JSON-serialized. A returned error is reported to
	// the caller as an execution failure.
	OperationHandler = registry.Handler

	// Shape declares an operation's input fields.
	Shape = schema.Shape

	// Field is one declared input field. Constraint methods chain:
	//
	//	toolwire.String("title").Required().MaxLength(100)
	Field = schema.Field

	// Schema is a JSON Schema object document, as exported for
	// operations/list.
	Schema = jsonschema.Schema
)

// NewShape declares an operation input shape. Fields are validated in
// declaration order and the first violation wins.
func NewShape(fields ...*Field) *Shape {
	return schema.NewShape(fields...)
}

// String declares a string field.
func String(name string) *Field {
	return schema.String(name)
}

// Number declares a numeric field.
func Number(name string) *Field {
	return schema.Number(name)
}

// Bool declares a boolean field.
func Bool(name string) *Field {
	return schema.Bool(name)
}

// Enum declares a field restricted to the given literal values.
func Enum(name string, values ...any) *Field {
	return schema.Enum(name, values...)
}

// Union declares a field accepting any of the member declarations, tried
// in order.
func Union(name string, members ...*Field) *Field {
	return schema.Union(name, members...)
}
