package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// validateObject is the core recursive validation engine. It runs the
// per-field checks for every declared key, substitutes defaults for absent
// keys, handles undeclared keys, and finally evaluates refinements when
// nothing failed so far. Exactly one of the returned values is non-nil.
func (o *ObjectSchema) validateObject(input map[string]any, path []string) (map[string]any, ValidationErrors) {
	var errs ValidationErrors
	out := make(map[string]any, len(o.keys))

	for _, key := range o.keys {
		fs := o.fields[key]
		fp := fieldPath(path, key)

		raw, present := input[key]
		if !present {
			switch {
			case fs.HasDefault:
				out[key] = fs.DefaultValue
			case fs.Required:
				errs = append(errs, missingError(fs, fp))
			}
			continue
		}

		v, ferrs := validateField(raw, fs, fp)
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			continue
		}
		out[key] = v
	}

	if o.additionalProperties != nil {
		for _, key := range unknownKeys(input, o.fields) {
			if *o.additionalProperties {
				out[key] = input[key]
				continue
			}
			errs = append(errs, ValidationError{
				Path:    fieldPath(path, key),
				Kind:    ConstraintViolation,
				Rule:    "unrecognized_key",
				Message: "unrecognized key",
			})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	for _, r := range o.refinements {
		if r.Check(out) {
			continue
		}
		errs = append(errs, ValidationError{
			Path:    append(append([]string(nil), path...), r.Path...),
			Kind:    RefinementViolation,
			Rule:    "refine",
			Message: r.Message,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// fieldPath returns a new path with child appended; parent is never aliased.
func fieldPath(parent []string, child string) []string {
	p := make([]string, len(parent)+1)
	copy(p, parent)
	p[len(parent)] = child
	return p
}

func unknownKeys(input map[string]any, declared map[string]FieldSchema) []string {
	var keys []string
	for k := range input {
		if _, ok := declared[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func missingError(fs FieldSchema, path []string) ValidationError {
	msg := fs.RequiredMsg
	if msg == "" {
		msg = "field is required"
	}
	return ValidationError{Path: path, Kind: MissingRequiredField, Rule: "required", Message: msg}
}

func typeError(fs FieldSchema, path []string, raw any) ValidationError {
	expected := fs.Type
	received := typeName(raw)
	msg := fs.TypeMsg
	if msg == "" {
		msg = fmt.Sprintf("expected %s, received %s", expected, received)
	}
	return ValidationError{
		Path:    path,
		Kind:    ConstraintViolation,
		Rule:    "type",
		Params:  map[string]any{"expected": expected, "received": received},
		Message: msg,
		Value:   raw,
	}
}

func violation(path []string, rule, custom, def string, params map[string]any, value any) ValidationError {
	msg := custom
	if msg == "" {
		msg = def
	}
	return ValidationError{Path: path, Kind: ConstraintViolation, Rule: rule, Params: params, Message: msg, Value: value}
}

func typeName(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case time.Time, *time.Time:
		return "date"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case float64:
		if math.IsNaN(x) {
			return "nan"
		}
		return "number"
	case float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return "number"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// validateField checks one present value against its schema and returns the
// normalized value.
func validateField(raw any, fs FieldSchema, path []string) (any, ValidationErrors) {
	if raw == nil {
		if fs.IsNullable {
			return nil, nil
		}
		return nil, ValidationErrors{typeError(fs, path, raw)}
	}

	v, ok := coerce(fs, raw)
	if !ok {
		if fs.Type == TypeDate {
			if s, isStr := raw.(string); isStr {
				return nil, ValidationErrors{violation(path, "date", fs.TypeMsg, "invalid date", nil, s)}
			}
		}
		return nil, ValidationErrors{typeError(fs, path, raw)}
	}

	switch fs.Type {
	case TypeString:
		return checkString(v.(string), fs.String, path)
	case TypeNumber, TypeInteger:
		return checkNumber(v.(float64), fs.Number, path)
	case TypeBoolean:
		return checkBool(v.(bool), fs.Bool, path)
	case TypeDate:
		return checkDate(v.(time.Time), fs.Date, path)
	case TypeArray:
		return checkArray(v.([]any), fs.Array, path)
	case TypeObject:
		m := v.(map[string]any)
		if fs.Nested == nil {
			return m, nil
		}
		out, errs := fs.Nested.validateObject(m, path)
		if len(errs) > 0 {
			return nil, errs
		}
		return out, nil
	}
	return v, nil
}

// coerce converts raw into the field's output representation without
// applying any constraint. It reports false on a type mismatch.
func coerce(fs FieldSchema, raw any) (any, bool) {
	switch fs.Type {
	case TypeString:
		s, ok := raw.(string)
		if ok && fs.String != nil && fs.String.Trim {
			s = strings.TrimSpace(s)
		}
		return s, ok
	case TypeNumber, TypeInteger:
		n, ok := toFloat(raw)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return n, true
	case TypeBoolean:
		b, ok := raw.(bool)
		return b, ok
	case TypeDate:
		return toTime(raw)
	case TypeArray:
		return toSlice(raw)
	case TypeObject:
		m, ok := raw.(map[string]any)
		return m, ok
	}
	return raw, true
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toTime(raw any) (any, bool) {
	switch t := raw.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return nil, false
		}
		return *t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse(time.DateOnly, t); err == nil {
			return parsed, true
		}
	}
	return nil, false
}

func toSlice(raw any) (any, bool) {
	if s, ok := raw.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func checkString(s string, c *StringConstraints, path []string) (any, ValidationErrors) {
	var errs ValidationErrors
	if c == nil {
		return s, nil
	}

	runeLen := utf8.RuneCountInString(s)

	if c.MinLength != nil && runeLen < c.MinLength.Value {
		errs = append(errs, violation(path, "min", c.MinLength.Message,
			fmt.Sprintf("must be at least %d characters long (got %d)", c.MinLength.Value, runeLen),
			map[string]any{"min": c.MinLength.Value}, s))
	}
	if c.MaxLength != nil && runeLen > c.MaxLength.Value {
		errs = append(errs, violation(path, "max", c.MaxLength.Message,
			fmt.Sprintf("must be at most %d characters long (got %d)", c.MaxLength.Value, runeLen),
			map[string]any{"max": c.MaxLength.Value}, s))
	}
	if c.Length != nil && runeLen != c.Length.Value {
		errs = append(errs, violation(path, "length", c.Length.Message,
			fmt.Sprintf("must be exactly %d characters long (got %d)", c.Length.Value, runeLen),
			map[string]any{"length": c.Length.Value}, s))
	}
	if c.Pattern != nil && !c.Pattern.re.MatchString(s) {
		errs = append(errs, violation(path, "pattern", c.Pattern.Message,
			fmt.Sprintf("must match pattern %q", c.Pattern.Expr),
			map[string]any{"pattern": c.Pattern.Expr}, s))
	}
	for _, f := range c.Formats {
		if !checkFormat(f.Value, s) {
			errs = append(errs, violation(path, formatRule(f.Value), f.Message,
				fmt.Sprintf("must be a valid %s", f.Value),
				map[string]any{"format": f.Value}, s))
		}
	}
	if len(c.Enum) > 0 && !contains(c.Enum, s) {
		errs = append(errs, violation(path, "enum", c.EnumMsg,
			fmt.Sprintf("must be one of %s", quoteJoin(c.Enum)),
			map[string]any{"options": c.Enum}, s))
	}
	if c.Const != nil && s != c.Const.Value {
		errs = append(errs, violation(path, "const", c.Const.Message,
			fmt.Sprintf("must equal %q", c.Const.Value),
			map[string]any{"const": c.Const.Value}, s))
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return s, nil
}

// formatRule maps a format name to the rule reported on failure. "uri" and
// "url" both report as "url".
func formatRule(name string) string {
	if name == FormatURI {
		return FormatURL
	}
	return name
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func quoteJoin(list []string) string {
	q := make([]string, len(list))
	for i, v := range list {
		q[i] = strconv.Quote(v)
	}
	return strings.Join(q, " | ")
}

// MaxSafeInteger is the largest integer that a float64 holds exactly. Integer
// fields reject values beyond ±MaxSafeInteger.
const MaxSafeInteger = 1<<53 - 1

func checkNumber(n float64, c *NumberConstraints, path []string) (any, ValidationErrors) {
	var errs ValidationErrors
	if c == nil {
		return n, nil
	}

	if c.Integer && n != math.Trunc(n) {
		errs = append(errs, violation(path, "int", c.IntegerMsg,
			fmt.Sprintf("must be an integer (got %g)", n), nil, n))
	} else if c.Integer && math.Abs(n) > MaxSafeInteger {
		errs = append(errs, violation(path, "safeint", "",
			fmt.Sprintf("must be between %d and %d (got %g)", -int64(MaxSafeInteger), int64(MaxSafeInteger), n),
			map[string]any{"min": -int64(MaxSafeInteger), "max": int64(MaxSafeInteger)}, n))
	}
	if c.Minimum != nil && n < c.Minimum.Value {
		errs = append(errs, violation(path, "min", c.Minimum.Message,
			fmt.Sprintf("must be >= %g (got %g)", c.Minimum.Value, n),
			map[string]any{"min": c.Minimum.Value}, n))
	}
	if c.Maximum != nil && n > c.Maximum.Value {
		errs = append(errs, violation(path, "max", c.Maximum.Message,
			fmt.Sprintf("must be <= %g (got %g)", c.Maximum.Value, n),
			map[string]any{"max": c.Maximum.Value}, n))
	}
	if c.ExclusiveMin != nil && n <= c.ExclusiveMin.Value {
		errs = append(errs, violation(path, "gt", c.ExclusiveMin.Message,
			fmt.Sprintf("must be > %g (got %g)", c.ExclusiveMin.Value, n),
			map[string]any{"gt": c.ExclusiveMin.Value}, n))
	}
	if c.ExclusiveMax != nil && n >= c.ExclusiveMax.Value {
		errs = append(errs, violation(path, "lt", c.ExclusiveMax.Message,
			fmt.Sprintf("must be < %g (got %g)", c.ExclusiveMax.Value, n),
			map[string]any{"lt": c.ExclusiveMax.Value}, n))
	}
	if c.MultipleOf != nil {
		quotient := n / c.MultipleOf.Value
		if math.Abs(quotient-math.Round(quotient)) > 1e-9 {
			errs = append(errs, violation(path, "multipleOf", c.MultipleOf.Message,
				fmt.Sprintf("must be a multiple of %g (got %g)", c.MultipleOf.Value, n),
				map[string]any{"multipleOf": c.MultipleOf.Value}, n))
		}
	}
	if c.Const != nil && n != c.Const.Value {
		errs = append(errs, violation(path, "const", c.Const.Message,
			fmt.Sprintf("must equal %g", c.Const.Value),
			map[string]any{"const": c.Const.Value}, n))
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return n, nil
}

func checkBool(b bool, c *BoolConstraints, path []string) (any, ValidationErrors) {
	if c != nil && c.Const != nil && b != *c.Const {
		return nil, ValidationErrors{violation(path, "const", c.ConstMsg,
			fmt.Sprintf("must equal %v", *c.Const),
			map[string]any{"const": *c.Const}, b)}
	}
	return b, nil
}

func checkDate(t time.Time, c *DateConstraints, path []string) (any, ValidationErrors) {
	var errs ValidationErrors
	if c == nil {
		return t, nil
	}
	if c.Min != nil && t.Before(c.Min.Value) {
		errs = append(errs, violation(path, "min", c.Min.Message,
			fmt.Sprintf("must be on or after %s", c.Min.Value.Format(time.RFC3339)),
			map[string]any{"min": c.Min.Value}, t))
	}
	if c.Max != nil && t.After(c.Max.Value) {
		errs = append(errs, violation(path, "max", c.Max.Message,
			fmt.Sprintf("must be on or before %s", c.Max.Value.Format(time.RFC3339)),
			map[string]any{"max": c.Max.Value}, t))
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return t, nil
}

func checkArray(items []any, c *ArrayConstraints, path []string) (any, ValidationErrors) {
	var errs ValidationErrors
	if c == nil {
		return items, nil
	}

	n := len(items)
	if c.MinItems != nil && n < c.MinItems.Value {
		errs = append(errs, violation(path, "min", c.MinItems.Message,
			fmt.Sprintf("must have at least %d items (got %d)", c.MinItems.Value, n),
			map[string]any{"min": c.MinItems.Value}, n))
	}
	if c.MaxItems != nil && n > c.MaxItems.Value {
		errs = append(errs, violation(path, "max", c.MaxItems.Message,
			fmt.Sprintf("must have at most %d items (got %d)", c.MaxItems.Value, n),
			map[string]any{"max": c.MaxItems.Value}, n))
	}

	out := make([]any, n)
	for i, item := range items {
		if c.Items == nil {
			out[i] = item
			continue
		}
		v, ierrs := validateField(item, *c.Items, fieldPath(path, strconv.Itoa(i)))
		errs = append(errs, ierrs...)
		out[i] = v
	}

	if c.UniqueItems {
		seen := make(map[any]struct{}, n)
		for _, item := range out {
			key := hashKey(item)
			if _, dup := seen[key]; dup {
				errs = append(errs, violation(path, "unique", c.UniqueMsg,
					fmt.Sprintf("items must be unique (duplicate: %v)", item), nil, item))
				break
			}
			seen[key] = struct{}{}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// hashKey returns item itself when it can be used as a map key and its
// printed form otherwise.
func hashKey(item any) any {
	if item == nil {
		return nil
	}
	if reflect.TypeOf(item).Comparable() {
		return item
	}
	return fmt.Sprintf("%#v", item)
}
