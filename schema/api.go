package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"
)

// Parse validates input against the schema. On success it returns a new map
// holding exactly the declared keys (plus passthrough keys), normalized, with
// defaults applied. On failure the error is a [ValidationErrors] value.
func (o *ObjectSchema) Parse(input map[string]any) (map[string]any, error) {
	if input == nil {
		input = map[string]any{}
	}
	out, errs := o.validateObject(input, nil)
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// ParseJSON decodes a JSON object and validates it. Malformed JSON is returned
// as a plain error; a non-object document is a [ValidationErrors] at the root.
func (o *ObjectSchema) ParseJSON(data []byte) (map[string]any, error) {
	input, err := decodeObject(o, data)
	if err != nil {
		return nil, err
	}
	return o.Parse(input)
}

func decodeObject(o *ObjectSchema, data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("schema: parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("schema: parse error: unexpected data after top-level value")
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, ValidationErrors{typeError(Object(o), nil, raw)}
	}
	return m, nil
}

// Result is the outcome of a validation: exactly one of Value and Errors is
// set.
type Result struct {
	Value  map[string]any
	Errors ValidationErrors
}

// OK reports whether the input was accepted.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// SafeParse is like Parse but returns the outcome as a Result.
func (o *ObjectSchema) SafeParse(input map[string]any) Result {
	out, err := o.Parse(input)
	if err != nil {
		return Result{Errors: err.(ValidationErrors)}
	}
	return Result{Value: out}
}

// Decode validates input against s and maps the normalized output onto a
// value of type T using its `json` tags.
//
//	todo, err := schema.Decode[entities.Todo](entities.TodoSchema, body)
func Decode[T any](s *ObjectSchema, input map[string]any) (T, error) {
	var v T
	out, err := s.Parse(input)
	if err != nil {
		return v, err
	}
	return convert[T](out)
}

// DecodeJSON is Decode for a JSON document.
func DecodeJSON[T any](s *ObjectSchema, data []byte) (T, error) {
	var v T
	out, err := s.ParseJSON(data)
	if err != nil {
		return v, err
	}
	return convert[T](out)
}

func convert[T any](out map[string]any) (T, error) {
	var v T
	b, err := json.Marshal(out)
	if err != nil {
		return v, fmt.Errorf("schema: encode normalized value: %w", err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("schema: decode into %T: %w", v, err)
	}
	return v, nil
}

// IsValidationError reports whether err carries a [ValidationErrors] list and
// returns it.
func IsValidationError(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Validate checks a struct value against its `schema` struct tags.
// It returns nil if all constraints pass, or a [ValidationErrors] value
// listing every violation found. Zero-valued fields count as absent.
func Validate(v any) error {
	rv := reflect.ValueOf(v)

	// Dereference pointer.
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ValidationErrors{{Kind: ConstraintViolation, Rule: "type", Message: "value is nil"}}
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("schema: Validate expects a struct or pointer to struct, got %T", v)
	}

	obj, err := schemaOf(rv.Type())
	if err != nil {
		return err
	}

	_, err = obj.Parse(structToMap(rv))
	return err
}

// MustValidate is like [Validate] but panics on any validation failure.
// Intended for init-time assertions and tests where a validation error is a
// programming mistake rather than a runtime condition.
func MustValidate(v any) {
	if err := Validate(v); err != nil {
		panic("schema: MustValidate failed: " + err.Error())
	}
}

// structToMap converts a struct into the decoded-JSON shape the engine works
// on, skipping zero-valued fields.
func structToMap(rv reflect.Value) map[string]any {
	out := make(map[string]any)
	t := rv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == "_" || !f.IsExported() {
			continue
		}
		name := jsonFieldName(f)
		if name == "-" {
			continue
		}
		fv := rv.Field(i)
		if fv.IsZero() {
			continue
		}
		out[name] = plainValue(fv)
	}
	return out
}

func plainValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return plainValue(v.Elem())
	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface()
		}
		return structToMap(v)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		items := make([]any, v.Len())
		for i := range v.Len() {
			items[i] = plainValue(v.Index(i))
		}
		return items
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}
		m := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = plainValue(iter.Value())
		}
		return m
	}
	return v.Interface()
}

// Parse unmarshals JSON data into a value of type T and validates it against
// the struct's `schema` tags. It is the idiomatic entry-point combining
// json.Unmarshal, default-filling, and Validate in a single call.
//
//	user, err := schema.Parse[User](data)
func Parse[T any](data []byte) (T, error) {
	var v T
	obj, err := FromStruct[T]()
	if err != nil {
		return v, err
	}
	return DecodeJSON[T](obj, data)
}

// MustParse is like [Parse] but panics on any error (unmarshal or validation).
// Useful for hardcoded/test data that is known to be valid.
//
//	user := schema.MustParse[User]([]byte(`{"name":"Alice","age":30}`))
func MustParse[T any](data []byte) T {
	v, err := Parse[T](data)
	if err != nil {
		panic("schema: MustParse failed: " + err.Error())
	}
	return v
}

// ToJSONSchema returns the JSON Schema (draft-07 compatible) representation
// of type T as a map. The caller never needs to import "reflect".
//
//	js, err := schema.ToJSONSchema[User]()
func ToJSONSchema[T any]() (map[string]any, error) {
	obj, err := FromStruct[T]()
	if err != nil {
		return nil, err
	}
	return obj.JSONSchema(), nil
}

// ToJSONSchemaIndent is like ToJSONSchema but returns the schema as indented
// JSON bytes.
func ToJSONSchemaIndent[T any](prefix, indent string) ([]byte, error) {
	m, err := ToJSONSchema[T]()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(m, prefix, indent)
}

// MustToJSONSchemaIndent is like ToJSONSchemaIndent but panics on error.
func MustToJSONSchemaIndent[T any](prefix, indent string) []byte {
	b, err := ToJSONSchemaIndent[T](prefix, indent)
	if err != nil {
		panic("schema: MustToJSONSchemaIndent failed: " + err.Error())
	}
	return b
}

// JSONSchema returns the draft-07 representation of the schema. Refinements
// other than dependentRequired have no JSON Schema equivalent and are left out.
func (o *ObjectSchema) JSONSchema() map[string]any {
	return objectSchemaToJSON(o)
}

// JSONSchemaIndent is JSONSchema marshalled with indentation.
func (o *ObjectSchema) JSONSchemaIndent(prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(o.JSONSchema(), prefix, indent)
}

// ---- JSON Schema emitter ----

func objectSchemaToJSON(obj *ObjectSchema) map[string]any {
	required := []string{}
	properties := map[string]any{}

	for _, name := range obj.keys {
		fs := obj.fields[name]
		if fs.Required && !fs.HasDefault {
			required = append(required, name)
		}
		properties[name] = fieldSchemaToJSON(fs)
	}

	result := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if obj.title != "" {
		result["title"] = obj.title
	}
	if obj.description != "" {
		result["description"] = obj.description
	}
	if len(required) > 0 {
		result["required"] = required
	}
	if obj.additionalProperties != nil {
		result["additionalProperties"] = *obj.additionalProperties
	}
	if len(obj.dependentRequired) > 0 {
		result["dependentRequired"] = obj.dependentRequired
	}
	return result
}

func fieldSchemaToJSON(fs FieldSchema) map[string]any {
	var m map[string]any

	switch fs.Type {
	case TypeString:
		m = stringSchemaToJSON(fs.String)
	case TypeInteger:
		m = numberSchemaToJSON(fs.Number)
		m["type"] = "integer"
	case TypeNumber:
		m = numberSchemaToJSON(fs.Number)
		m["type"] = "number"
	case TypeBoolean:
		m = map[string]any{"type": "boolean"}
		if fs.Bool != nil && fs.Bool.Const != nil {
			m["const"] = *fs.Bool.Const
		}
	case TypeDate:
		m = map[string]any{"type": "string", "format": FormatDateTime}
	case TypeArray:
		m = arraySchemaToJSON(fs.Array)
	case TypeObject:
		if fs.Nested != nil {
			m = objectSchemaToJSON(fs.Nested)
		} else {
			m = map[string]any{"type": "object"}
		}
	default:
		m = map[string]any{}
	}

	if fs.Description != "" {
		m["description"] = fs.Description
	}
	if fs.HasDefault {
		if t, ok := fs.DefaultValue.(time.Time); ok {
			m["default"] = t.Format(time.RFC3339)
		} else {
			m["default"] = fs.DefaultValue
		}
	}
	if fs.IsNullable {
		m["nullable"] = true
	}
	return m
}

func stringSchemaToJSON(c *StringConstraints) map[string]any {
	m := map[string]any{"type": "string"}
	if c == nil {
		return m
	}
	if c.MinLength != nil {
		m["minLength"] = c.MinLength.Value
	}
	if c.MaxLength != nil {
		m["maxLength"] = c.MaxLength.Value
	}
	if c.Length != nil {
		m["minLength"] = c.Length.Value
		m["maxLength"] = c.Length.Value
	}
	if c.Pattern != nil {
		m["pattern"] = c.Pattern.Expr
	}
	for i, f := range c.Formats {
		if i == 0 {
			m["format"] = f.Value
			continue
		}
		all, _ := m["allOf"].([]map[string]any)
		m["allOf"] = append(all, map[string]any{"format": f.Value})
	}
	if len(c.Enum) > 0 {
		m["enum"] = c.Enum
	}
	if c.Const != nil {
		m["const"] = c.Const.Value
	}
	return m
}

func numberSchemaToJSON(c *NumberConstraints) map[string]any {
	m := map[string]any{}
	if c == nil {
		return m
	}
	if c.Minimum != nil {
		m["minimum"] = c.Minimum.Value
	}
	if c.Maximum != nil {
		m["maximum"] = c.Maximum.Value
	}
	if c.ExclusiveMin != nil {
		m["exclusiveMinimum"] = c.ExclusiveMin.Value
	}
	if c.ExclusiveMax != nil {
		m["exclusiveMaximum"] = c.ExclusiveMax.Value
	}
	if c.MultipleOf != nil {
		m["multipleOf"] = c.MultipleOf.Value
	}
	if c.Const != nil {
		m["const"] = c.Const.Value
	}
	return m
}

func arraySchemaToJSON(c *ArrayConstraints) map[string]any {
	m := map[string]any{"type": "array"}
	if c == nil {
		return m
	}
	if c.MinItems != nil {
		m["minItems"] = c.MinItems.Value
	}
	if c.MaxItems != nil {
		m["maxItems"] = c.MaxItems.Value
	}
	if c.UniqueItems {
		m["uniqueItems"] = true
	}
	if c.Items != nil {
		m["items"] = fieldSchemaToJSON(*c.Items)
	}
	return m
}
