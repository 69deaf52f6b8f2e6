package schema

import (
	"regexp"
	"time"
)

// Primitive type names. They double as the JSON Schema "type" keyword, except
// for TypeDate which is exported as a date-time string.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeDate    = "date"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeAny     = "any"
)

// IntRule is an integer constraint parameter with an optional custom message.
type IntRule struct {
	Value   int
	Message string
}

// FloatRule is a numeric constraint parameter with an optional custom message.
type FloatRule struct {
	Value   float64
	Message string
}

// TextRule is a string constraint parameter with an optional custom message.
type TextRule struct {
	Value   string
	Message string
}

// TimeRule is a date constraint parameter with an optional custom message.
type TimeRule struct {
	Value   time.Time
	Message string
}

// PatternRule holds a compiled regular expression constraint.
type PatternRule struct {
	Expr    string
	Message string
	re      *regexp.Regexp
}

// StringConstraints holds constraints applicable to string values.
type StringConstraints struct {
	MinLength *IntRule
	MaxLength *IntRule
	Length    *IntRule
	Pattern   *PatternRule
	Formats   []TextRule // "email", "uri", "uuid", "cuid", "semver", "date", ...
	Enum      []string   // allowed values
	EnumMsg   string
	Const     *TextRule // exact value the field must equal
	Trim      bool      // trim surrounding whitespace before checking
}

// NumberConstraints holds constraints applicable to numeric values (both
// integer and floating-point).
type NumberConstraints struct {
	Minimum      *FloatRule
	Maximum      *FloatRule
	ExclusiveMin *FloatRule
	ExclusiveMax *FloatRule
	MultipleOf   *FloatRule
	Const        *FloatRule
	Integer      bool
	IntegerMsg   string
}

// BoolConstraints holds constraints applicable to boolean values.
type BoolConstraints struct {
	Const    *bool
	ConstMsg string
}

// DateConstraints holds constraints applicable to date values.
type DateConstraints struct {
	Min *TimeRule
	Max *TimeRule
}

// ArrayConstraints holds constraints applicable to array values.
type ArrayConstraints struct {
	MinItems    *IntRule
	MaxItems    *IntRule
	UniqueItems bool
	UniqueMsg   string
	Items       *FieldSchema // schema for each element, nil accepts anything
}

// FieldSchema is the resolved schema for a single field. It is a value type:
// every builder method returns a modified copy and leaves the receiver as is.
type FieldSchema struct {
	// Type is one of the Type* constants.
	Type string

	Description string

	// DefaultValue is substituted when the key is absent from the input. It is
	// already normalized to the field's output type.
	DefaultValue any
	HasDefault   bool

	// At most one of the constraint sets below is non-nil, matching Type.
	String *StringConstraints
	Number *NumberConstraints
	Bool   *BoolConstraints
	Date   *DateConstraints
	Array  *ArrayConstraints

	// Nested holds the schema for object fields. A nil Nested on an object
	// field accepts any JSON object unchanged.
	Nested *ObjectSchema

	Required   bool
	IsNullable bool

	// RequiredMsg and TypeMsg override the default missing/type messages.
	RequiredMsg string
	TypeMsg     string
}

// Refinement is a predicate over an already-validated object. When it returns
// false, Message is reported at Path (relative to the object).
type Refinement struct {
	Check   func(obj map[string]any) bool
	Message string
	Path    []string
}

// Property pairs an object key with its field schema. Order of properties is
// preserved for validation and error reporting.
type Property struct {
	Key   string
	Field FieldSchema
}

// Prop is shorthand for constructing a Property.
func Prop(key string, f FieldSchema) Property {
	return Property{Key: key, Field: f}
}

// ObjectSchema is the fully resolved schema for an object. It is immutable
// once built; derivations such as Partial or Omit return new schemas.
type ObjectSchema struct {
	title       string
	description string
	keys        []string
	fields      map[string]FieldSchema
	refinements []Refinement

	// dependentRequired mirrors the DependentRequired refinements so they can
	// be exported with the JSON Schema.
	dependentRequired map[string][]string

	// additionalProperties nil drops unknown keys, true copies them to the
	// output unchecked, false rejects them.
	additionalProperties *bool
}
