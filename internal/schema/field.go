package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/toolwire/toolwire/internal/errors"
)

// Kind identifies the primitive kind a field accepts.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindEnum
	KindUnion
)

// String returns the human label used in validation messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindEnum:
		return "enum value"
	case KindUnion:
		return "union value"
	default:
		return "unknown"
	}
}

// Field declares one named input field together with its constraints.
// Fields are built with the package-level constructors and configured with
// the chainable methods, which mutate and return the same pointer.
type Field struct {
	name        string
	kind        Kind
	description string
	required    bool
	def         any
	hasDefault  bool

	minLen    int
	hasMinLen bool
	maxLen    int
	hasMaxLen bool
	pattern   *regexp.Regexp

	min    float64
	hasMin bool
	max    float64
	hasMax bool

	values  []any
	members []*Field
}

// String declares a string field.
func String(name string) *Field {
	return &Field{name: name, kind: KindString}
}

// Number declares a numeric field. JSON numbers and Go integer values are
// both accepted; validated values are normalized to float64.
func Number(name string) *Field {
	return &Field{name: name, kind: KindNumber}
}

// Bool declares a boolean field.
func Bool(name string) *Field {
	return &Field{name: name, kind: KindBool}
}

// Enum declares a field restricted to the given literal values. Values must
// be comparable literals (strings, numbers, booleans).
func Enum(name string, values ...any) *Field {
	return &Field{name: name, kind: KindEnum, values: values}
}

// Union declares a field accepting any of the member declarations, tried in
// order. Member names are ignored; messages use the union's own name.
func Union(name string, members ...*Field) *Field {
	return &Field{name: name, kind: KindUnion, members: members}
}

// Required marks the field as mandatory.
func (f *Field) Required() *Field {
	f.required = true

	return f
}

// Default sets the value substituted when the field is absent.
func (f *Field) Default(v any) *Field {
	f.def = v
	f.hasDefault = true

	return f
}

// Description attaches a human-readable description, carried into the
// exported JSON Schema.
func (f *Field) Description(s string) *Field {
	f.description = s

	return f
}

// MinLength sets the minimum length in characters for a string field.
func (f *Field) MinLength(n int) *Field {
	f.minLen = n
	f.hasMinLen = true

	return f
}

// MaxLength sets the maximum length in characters for a string field.
func (f *Field) MaxLength(n int) *Field {
	f.maxLen = n
	f.hasMaxLen = true

	return f
}

// Pattern sets a regular expression a string field must match. The
// expression must be valid; like regexp.MustCompile, an invalid expression
// panics, since patterns are fixed at declaration time.
func (f *Field) Pattern(expr string) *Field {
	f.pattern = regexp.MustCompile(expr)

	return f
}

// Min sets the inclusive lower bound for a numeric field.
func (f *Field) Min(n float64) *Field {
	f.min = n
	f.hasMin = true

	return f
}

// Max sets the inclusive upper bound for a numeric field.
func (f *Field) Max(n float64) *Field {
	f.max = n
	f.hasMax = true

	return f
}

// Name returns the declared field name.
func (f *Field) Name() string {
	return f.name
}

// missing builds the error for an absent required field.
func (f *Field) missing() *errors.ValidationError {
	if f.kind == KindString {
		return f.errf("%s is required and cannot be empty", f.name)
	}

	return f.errf("%s is required", f.name)
}

// check validates a present value against the field's kind and constraints,
// returning the normalized value.
func (f *Field) check(v any) (any, *errors.ValidationError) {
	switch f.kind {
	case KindString:
		return f.checkString(v)
	case KindNumber:
		return f.checkNumber(v)
	case KindBool:
		return f.checkBool(v)
	case KindEnum:
		return f.checkEnum(v)
	case KindUnion:
		return f.checkUnion(v)
	default:
		return nil, f.errf("%s has an unsupported kind", f.name)
	}
}

func (f *Field) checkString(v any) (any, *errors.ValidationError) {
	s, ok := v.(string)
	if !ok {
		return nil, f.errf("%s must be a string", f.name)
	}

	count := utf8.RuneCountInString(s)

	emptyForbidden := (f.required && !f.hasMinLen) || (f.hasMinLen && f.minLen == 1)

	switch {
	case s == "" && emptyForbidden:
		return nil, f.errf("%s is required and cannot be empty", f.name)
	case f.hasMinLen && count < f.minLen:
		return nil, f.errf("%s must be at least %d characters", f.name, f.minLen)
	case f.hasMaxLen && count > f.maxLen:
		return nil, f.errf("%s must be %d characters or less", f.name, f.maxLen)
	case f.pattern != nil && !f.pattern.MatchString(s):
		return nil, f.errf("%s format is invalid", f.name)
	}

	return s, nil
}

func (f *Field) checkNumber(v any) (any, *errors.ValidationError) {
	n, ok := toFloat(v)
	if !ok {
		return nil, f.errf("%s must be a number", f.name)
	}

	if f.hasMin && n < f.min {
		return nil, f.errf("%s must be at least %s", f.name, formatNumber(f.min))
	}

	if f.hasMax && n > f.max {
		return nil, f.errf("%s must be at most %s", f.name, formatNumber(f.max))
	}

	return n, nil
}

func (f *Field) checkBool(v any) (any, *errors.ValidationError) {
	b, ok := v.(bool)
	if !ok {
		return nil, f.errf("%s must be a boolean", f.name)
	}

	return b, nil
}

func (f *Field) checkEnum(v any) (any, *errors.ValidationError) {
	candidate := normalizeLiteral(v)

	// Only literal kinds can match; objects and arrays fall through to the
	// failure message (and must not reach ==, which panics on non-comparable
	// values).
	switch candidate.(type) {
	case string, float64, bool:
		for _, allowed := range f.values {
			if candidate == normalizeLiteral(allowed) {
				return candidate, nil
			}
		}
	}

	labels := make([]string, 0, len(f.values))
	for _, allowed := range f.values {
		labels = append(labels, fmt.Sprintf("%v", allowed))
	}

	return nil, f.errf("%s must be one of: %s", f.name, strings.Join(labels, ", "))
}

func (f *Field) checkUnion(v any) (any, *errors.ValidationError) {
	for _, m := range f.members {
		if val, err := m.check(v); err == nil {
			return val, nil
		}
	}

	labels := make([]string, 0, len(f.members))
	for _, m := range f.members {
		labels = append(labels, m.kind.String())
	}

	return nil, f.errf("%s must be a %s", f.name, strings.Join(labels, " or "))
}

func (f *Field) errf(format string, args ...any) *errors.ValidationError {
	return &errors.ValidationError{
		Field:   f.name,
		Message: fmt.Sprintf(format, args...),
	}
}

// toFloat accepts the numeric representations that reach the validator:
// float64 from JSON decoding and Go integer types from in-process callers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}

// normalizeLiteral maps numeric literals to float64 so enum comparison does
// not distinguish 10 from 10.0.
func normalizeLiteral(v any) any {
	if n, ok := toFloat(v); ok {
		return n
	}

	return v
}

// formatNumber renders a bound without exponent notation.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
