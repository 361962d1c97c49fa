// Package schema declares and validates operation input shapes.
//
// A Shape is an ordered list of field declarations built with the String,
// Number, Bool, Enum, and Union constructors and their chainable constraint
// methods:
//
//	shape := schema.NewShape(
//		schema.String("title").Required().MinLength(1).MaxLength(100),
//		schema.Enum("urgency", "low", "normal", "critical").Default("normal"),
//		schema.Number("timeoutSeconds").Min(1).Max(60).Default(10),
//	)
//
// Validate checks an untyped input mapping against the shape in declaration
// order and stops at the first violated constraint, reporting it as a
// ValidationError with a human-readable, field-qualified message. On success
// it returns a populated mapping with defaults applied; unknown extra fields
// are ignored and omitted from the result.
//
// JSONSchema exports the declared shape as a JSON Schema document for the
// wire form of operation listings.
package schema
