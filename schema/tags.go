package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	timeType  = reflect.TypeOf(time.Time{})
	typeCache sync.Map // reflect.Type -> *ObjectSchema
)

// FromStruct builds an ObjectSchema from the `json` and `schema` struct tags
// of T. Results are cached per type.
//
//	type User struct {
//		_     any    `schema:"title=User,additionalProperties=false"`
//		Name  string `json:"name"  schema:"minLength=2,maxLength=50,required"`
//		Email string `json:"email" schema:"format=email,required"`
//	}
func FromStruct[T any]() (*ObjectSchema, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	return schemaOf(t)
}

func schemaOf(t reflect.Type) (*ObjectSchema, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: expected struct, got %s", t.Kind())
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*ObjectSchema), nil
	}
	obj, err := parseObjectSchema(t)
	if err != nil {
		return nil, err
	}
	actual, _ := typeCache.LoadOrStore(t, obj)
	return actual.(*ObjectSchema), nil
}

// parseObjectSchema builds an ObjectSchema by inspecting the reflect.Type of a
// struct. It is called recursively for nested struct fields.
func parseObjectSchema(t reflect.Type) (*ObjectSchema, error) {
	var (
		props     []Property
		meta      map[string]string
		dependent = map[string][]string{}
	)

	for i := range t.NumField() {
		f := t.Field(i)

		// The blank identifier field `_ any` is a sentinel for struct-level metadata
		// (title, description). It is not a real field and must not be validated.
		if f.Name == "_" {
			meta = parseTagOptions(f.Tag.Get("schema"))
			// dependentRequired:fieldA=fieldB|fieldC
			for k, v := range meta {
				if source, ok := strings.CutPrefix(k, "dependentRequired:"); ok {
					dependent[source] = strings.Split(v, "|")
				}
			}
			continue
		}

		if !f.IsExported() {
			continue
		}

		jsonName := jsonFieldName(f)
		if jsonName == "-" {
			continue
		}

		fs, err := buildFieldSchema(f)
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: %w", f.Name, err)
		}
		props = append(props, Prop(jsonName, fs))
	}

	obj := NewObject(meta["title"], props...)
	if v, ok := meta["description"]; ok {
		obj = obj.Describe(v)
	}
	switch meta["additionalProperties"] {
	case "false":
		obj = obj.Strict()
	case "true":
		obj = obj.Passthrough()
	}

	sources := make([]string, 0, len(dependent))
	for k := range dependent {
		sources = append(sources, k)
	}
	sort.Strings(sources)
	for _, k := range sources {
		obj = obj.DependentRequired(k, dependent[k]...)
	}
	return obj, nil
}

// jsonFieldName returns the JSON key for a struct field, honouring the `json`
// tag. Falls back to the field name if no tag is present.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

// baseField maps a Go type to an unconstrained FieldSchema.
func baseField(t reflect.Type) (FieldSchema, error) {
	nullable := false
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
		nullable = true
	}

	var fs FieldSchema
	switch {
	case t == timeType:
		fs = Date()
	case t.Kind() == reflect.String:
		fs = String()
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64:
		fs = Int()
	case t.Kind() >= reflect.Uint && t.Kind() <= reflect.Uint64:
		fs = Int().Min(0)
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		fs = Number()
	case t.Kind() == reflect.Bool:
		fs = Bool()
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		items, err := baseField(t.Elem())
		if err != nil {
			return fs, err
		}
		fs = Array(items)
	case t.Kind() == reflect.Map:
		fs = Object(nil)
	case t.Kind() == reflect.Struct:
		nested, err := schemaOf(t)
		if err != nil {
			return fs, err
		}
		fs = Object(nested)
	default:
		fs = Any()
	}
	if nullable {
		fs = fs.Nullable()
	}
	return fs, nil
}

// buildFieldSchema maps a reflect.StructField to a FieldSchema by combining
// the Go type information with the `schema` struct tag.
func buildFieldSchema(f reflect.StructField) (FieldSchema, error) {
	fs, err := baseField(f.Type)
	if err != nil {
		return fs, err
	}
	// Pointers only signal optionality; null is accepted only when tagged.
	fs.IsNullable = false

	opts := parseTagOptions(f.Tag.Get("schema"))

	switch fs.Type {
	case TypeString:
		fs, err = applyStringOptions(fs, opts)
	case TypeNumber, TypeInteger:
		fs, err = applyNumberOptions(fs, opts)
	case TypeBoolean:
		if v, ok := opts["const"]; ok {
			fs = fs.Is(v == "true")
		}
	case TypeArray:
		fs, err = applyArrayOptions(fs, opts)
	}
	if err != nil {
		return fs, err
	}

	if v, ok := opts["description"]; ok {
		fs = fs.Describe(v)
	}
	if opts["nullable"] == "true" {
		fs = fs.Nullable()
	}
	if opts["required"] != "true" {
		fs = fs.Optional()
	}
	if raw, ok := opts["default"]; ok {
		def, err := parseDefault(fs, raw)
		if err != nil {
			return fs, fmt.Errorf("default: %w", err)
		}
		fs = fs.Default(def)
	}
	return fs, nil
}

func parseDefault(fs FieldSchema, raw string) (any, error) {
	switch fs.Type {
	case TypeString:
		return raw, nil
	case TypeInteger:
		return strconv.ParseInt(raw, 10, 64)
	case TypeNumber:
		return strconv.ParseFloat(raw, 64)
	case TypeBoolean:
		return strconv.ParseBool(raw)
	case TypeDate:
		t, ok := toTime(raw)
		if !ok {
			return nil, fmt.Errorf("invalid date %q", raw)
		}
		return t, nil
	}
	return nil, fmt.Errorf("defaults are not supported on %s fields", fs.Type)
}

// parseTagOptions parses a `schema` tag value into a key→value map.
//
// Tag grammar:
//
//	schema:"minLength=2,maxLength=50,pattern=^[a-z]+$,required"
//
// Boolean flags (like `required` and `uniqueItems`) are represented as
// key→"true" when present. Values cannot contain commas.
func parseTagOptions(tag string) map[string]string {
	opts := make(map[string]string)
	if tag == "" {
		return opts
	}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, found := strings.Cut(part, "=")
		if !found {
			opts[part] = "true"
			continue
		}
		opts[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return opts
}

// ---- per-type option appliers ----

func applyStringOptions(fs FieldSchema, opts map[string]string) (FieldSchema, error) {
	if v, ok := opts["minLength"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fs, fmt.Errorf("minLength must be an integer: %w", err)
		}
		fs = fs.Min(float64(n))
	}
	if v, ok := opts["maxLength"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fs, fmt.Errorf("maxLength must be an integer: %w", err)
		}
		fs = fs.Max(float64(n))
	}
	if v, ok := opts["pattern"]; ok {
		if _, err := regexp.Compile(v); err != nil {
			return fs, fmt.Errorf("invalid pattern %q: %w", v, err)
		}
		fs = fs.Pattern(v)
	}
	if v, ok := opts["format"]; ok {
		if !KnownFormat(v) {
			return fs, fmt.Errorf("unknown format %q", v)
		}
		fs = fs.Format(v)
	}
	if v, ok := opts["enum"]; ok {
		fs = fs.OneOf(strings.Split(v, "|")...)
	}
	if v, ok := opts["const"]; ok {
		fs = fs.Const(v)
	}
	if opts["trim"] == "true" {
		fs = fs.Trim()
	}
	return fs, nil
}

func applyNumberOptions(fs FieldSchema, opts map[string]string) (FieldSchema, error) {
	parseF := func(key string) (float64, bool, error) {
		v, ok := opts[key]
		if !ok {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return f, true, nil
	}

	rules := []struct {
		key   string
		apply func(float64) FieldSchema
	}{
		{"minimum", func(n float64) FieldSchema { return fs.Min(n) }},
		{"maximum", func(n float64) FieldSchema { return fs.Max(n) }},
		{"exclusiveMinimum", func(n float64) FieldSchema { return fs.Gt(n) }},
		{"exclusiveMaximum", func(n float64) FieldSchema { return fs.Lt(n) }},
		{"multipleOf", func(n float64) FieldSchema { return fs.MultipleOf(n) }},
		{"const", func(n float64) FieldSchema { return fs.Equals(n) }},
	}
	for _, r := range rules {
		n, ok, err := parseF(r.key)
		if err != nil {
			return fs, err
		}
		if !ok {
			continue
		}
		if r.key == "multipleOf" && n == 0 {
			return fs, fmt.Errorf("multipleOf must be non-zero")
		}
		fs = r.apply(n)
	}
	return fs, nil
}

func applyArrayOptions(fs FieldSchema, opts map[string]string) (FieldSchema, error) {
	if v, ok := opts["minItems"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fs, fmt.Errorf("minItems must be an integer: %w", err)
		}
		fs = fs.Min(float64(n))
	}
	if v, ok := opts["maxItems"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fs, fmt.Errorf("maxItems must be an integer: %w", err)
		}
		fs = fs.Max(float64(n))
	}
	if opts["uniqueItems"] == "true" {
		fs = fs.Unique()
	}
	return fs, nil
}
