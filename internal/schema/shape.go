package schema

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Shape is an ordered set of field declarations describing an operation's
// input. A nil Shape declares no fields and accepts any input.
type Shape struct {
	fields []*Field
}

// NewShape builds a shape from field declarations. Declaration order is the
// validation order.
func NewShape(fields ...*Field) *Shape {
	return &Shape{fields: fields}
}

// Fields returns the declarations in declaration order.
func (s *Shape) Fields() []*Field {
	if s == nil {
		return nil
	}

	return s.fields
}

// Validate checks input against the shape and returns a populated mapping
// containing every declared field that was present or defaulted. JSON null
// counts as absent. Checking stops at the first violated constraint, which
// is returned as a *errors.ValidationError; unknown extra fields are
// ignored.
func (s *Shape) Validate(input map[string]any) (map[string]any, error) {
	if s == nil {
		return map[string]any{}, nil
	}

	out := make(map[string]any, len(s.fields))

	for _, f := range s.fields {
		v, present := input[f.name]
		if !present || v == nil {
			if f.required {
				return nil, f.missing()
			}

			if f.hasDefault {
				out[f.name] = normalizeLiteral(f.def)
			}

			continue
		}

		val, vErr := f.check(v)
		if vErr != nil {
			return nil, vErr
		}

		out[f.name] = val
	}

	return out, nil
}

// JSONSchema exports the shape as a JSON Schema object document.
func (s *Shape) JSONSchema() *jsonschema.Schema {
	if s == nil {
		return &jsonschema.Schema{Type: "object"}
	}

	properties := make(map[string]*jsonschema.Schema, len(s.fields))

	var required []string

	for _, f := range s.fields {
		properties[f.name] = f.jsonSchema()

		if f.required {
			required = append(required, f.name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// jsonSchema exports one field declaration.
func (f *Field) jsonSchema() *jsonschema.Schema {
	var sch *jsonschema.Schema

	switch f.kind {
	case KindString:
		sch = &jsonschema.Schema{Type: "string"}

		if f.hasMinLen {
			sch.MinLength = intPtr(f.minLen)
		}

		if f.hasMaxLen {
			sch.MaxLength = intPtr(f.maxLen)
		}

		if f.pattern != nil {
			sch.Pattern = f.pattern.String()
		}
	case KindNumber:
		sch = &jsonschema.Schema{Type: "number"}

		if f.hasMin {
			sch.Minimum = floatPtr(f.min)
		}

		if f.hasMax {
			sch.Maximum = floatPtr(f.max)
		}
	case KindBool:
		sch = &jsonschema.Schema{Type: "boolean"}
	case KindEnum:
		sch = &jsonschema.Schema{Enum: append([]any(nil), f.values...)}
	case KindUnion:
		members := make([]*jsonschema.Schema, 0, len(f.members))
		for _, m := range f.members {
			members = append(members, m.jsonSchema())
		}

		sch = &jsonschema.Schema{AnyOf: members}
	default:
		sch = &jsonschema.Schema{}
	}

	if f.description != "" {
		sch.Description = f.description
	}

	if f.hasDefault {
		if raw, err := json.Marshal(f.def); err == nil {
			sch.Default = raw
		}
	}

	return sch
}

func intPtr(n int) *int {
	return &n
}

func floatPtr(n float64) *float64 {
	return &n
}
