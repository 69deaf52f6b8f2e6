package schema

import (
	"fmt"
	"regexp"
	"time"
)

// String returns a required string field.
func String() FieldSchema {
	return FieldSchema{Type: TypeString, String: &StringConstraints{}, Required: true}
}

// Number returns a required floating-point field.
func Number() FieldSchema {
	return FieldSchema{Type: TypeNumber, Number: &NumberConstraints{}, Required: true}
}

// Int returns a required numeric field that only accepts integral values.
func Int(msg ...string) FieldSchema {
	return FieldSchema{
		Type:     TypeInteger,
		Number:   &NumberConstraints{Integer: true, IntegerMsg: message(msg)},
		Required: true,
	}
}

// Bool returns a required boolean field.
func Bool() FieldSchema {
	return FieldSchema{Type: TypeBoolean, Bool: &BoolConstraints{}, Required: true}
}

// Date returns a required date field. Inputs may be time.Time values or
// RFC 3339 / "2006-01-02" strings; the output is always a time.Time.
func Date() FieldSchema {
	return FieldSchema{Type: TypeDate, Date: &DateConstraints{}, Required: true}
}

// Enum returns a required string field restricted to the given literals.
func Enum(values ...string) FieldSchema {
	if len(values) == 0 {
		panic("schema: Enum requires at least one value")
	}
	return String().OneOf(values...)
}

// Array returns a required array field whose elements match items.
func Array(items FieldSchema) FieldSchema {
	return FieldSchema{Type: TypeArray, Array: &ArrayConstraints{Items: &items}, Required: true}
}

// Object returns a required field holding a nested object. A nil obj accepts
// any JSON object.
func Object(obj *ObjectSchema) FieldSchema {
	return FieldSchema{Type: TypeObject, Nested: obj, Required: true}
}

// Any returns a required field that accepts any non-null value unchanged.
func Any() FieldSchema {
	return FieldSchema{Type: TypeAny, Required: true}
}

func message(msg []string) string {
	if len(msg) > 0 {
		return msg[0]
	}
	return ""
}

// ---- modifiers ----

// Optional clears the required flag.
func (f FieldSchema) Optional() FieldSchema {
	f.Required = false
	return f
}

// Require sets the required flag, optionally with a custom message for a
// missing key.
func (f FieldSchema) Require(msg ...string) FieldSchema {
	f.Required = true
	if m := message(msg); m != "" {
		f.RequiredMsg = m
	}
	return f
}

// Nullable accepts an explicit null, which is passed through as nil.
func (f FieldSchema) Nullable() FieldSchema {
	f.IsNullable = true
	return f
}

// Describe attaches a description exported with the JSON Schema.
func (f FieldSchema) Describe(desc string) FieldSchema {
	f.Description = desc
	return f
}

// Invalid sets the message reported when the input has the wrong type.
func (f FieldSchema) Invalid(msg string) FieldSchema {
	f.TypeMsg = msg
	return f
}

// Default sets the value substituted for an absent key and makes the field
// optional. The value must already match the field type; a mismatch panics
// since schemas are built at init time.
func (f FieldSchema) Default(v any) FieldSchema {
	norm, ok := coerce(f, v)
	if !ok {
		panic(fmt.Sprintf("schema: default %v (%T) does not match %s field", v, v, f.Type))
	}
	f.DefaultValue = norm
	f.HasDefault = true
	f.Required = false
	return f
}

// ---- copy-on-write helpers ----

func (f FieldSchema) mustBe(op string, types ...string) {
	for _, t := range types {
		if f.Type == t {
			return
		}
	}
	panic(fmt.Sprintf("schema: %s is not supported on %s fields", op, f.Type))
}

func (f FieldSchema) withString(op string, fn func(*StringConstraints)) FieldSchema {
	f.mustBe(op, TypeString)
	sc := *f.String
	sc.Formats = append([]TextRule(nil), sc.Formats...)
	sc.Enum = append([]string(nil), sc.Enum...)
	fn(&sc)
	f.String = &sc
	return f
}

func (f FieldSchema) withNumber(op string, fn func(*NumberConstraints)) FieldSchema {
	f.mustBe(op, TypeNumber, TypeInteger)
	nc := *f.Number
	fn(&nc)
	f.Number = &nc
	return f
}

func (f FieldSchema) withArray(op string, fn func(*ArrayConstraints)) FieldSchema {
	f.mustBe(op, TypeArray)
	ac := *f.Array
	fn(&ac)
	f.Array = &ac
	return f
}

func (f FieldSchema) withDate(op string, fn func(*DateConstraints)) FieldSchema {
	f.mustBe(op, TypeDate)
	dc := *f.Date
	fn(&dc)
	f.Date = &dc
	return f
}

// ---- bounds shared by several types ----

// Min sets the lower bound: rune length for strings, value for numbers, item
// count for arrays.
func (f FieldSchema) Min(n float64, msg ...string) FieldSchema {
	switch f.Type {
	case TypeString:
		return f.withString("Min", func(sc *StringConstraints) {
			sc.MinLength = &IntRule{Value: int(n), Message: message(msg)}
		})
	case TypeArray:
		return f.withArray("Min", func(ac *ArrayConstraints) {
			ac.MinItems = &IntRule{Value: int(n), Message: message(msg)}
		})
	default:
		return f.withNumber("Min", func(nc *NumberConstraints) {
			nc.Minimum = &FloatRule{Value: n, Message: message(msg)}
		})
	}
}

// Max sets the upper bound: rune length for strings, value for numbers, item
// count for arrays.
func (f FieldSchema) Max(n float64, msg ...string) FieldSchema {
	switch f.Type {
	case TypeString:
		return f.withString("Max", func(sc *StringConstraints) {
			sc.MaxLength = &IntRule{Value: int(n), Message: message(msg)}
		})
	case TypeArray:
		return f.withArray("Max", func(ac *ArrayConstraints) {
			ac.MaxItems = &IntRule{Value: int(n), Message: message(msg)}
		})
	default:
		return f.withNumber("Max", func(nc *NumberConstraints) {
			nc.Maximum = &FloatRule{Value: n, Message: message(msg)}
		})
	}
}

// ---- string rules ----

// Length requires an exact rune length.
func (f FieldSchema) Length(n int, msg ...string) FieldSchema {
	return f.withString("Length", func(sc *StringConstraints) {
		sc.Length = &IntRule{Value: n, Message: message(msg)}
	})
}

// Pattern requires the string to match expr. The expression is compiled
// immediately and panics when invalid.
func (f FieldSchema) Pattern(expr string, msg ...string) FieldSchema {
	re := regexp.MustCompile(expr)
	return f.withString("Pattern", func(sc *StringConstraints) {
		sc.Pattern = &PatternRule{Expr: expr, Message: message(msg), re: re}
	})
}

// Format adds a named format check. Unknown names panic.
func (f FieldSchema) Format(name string, msg ...string) FieldSchema {
	if !KnownFormat(name) {
		panic(fmt.Sprintf("schema: unknown format %q", name))
	}
	return f.withString("Format", func(sc *StringConstraints) {
		sc.Formats = append(sc.Formats, TextRule{Value: name, Message: message(msg)})
	})
}

// Email is shorthand for Format("email").
func (f FieldSchema) Email(msg ...string) FieldSchema { return f.Format(FormatEmail, msg...) }

// URL is shorthand for Format("uri").
func (f FieldSchema) URL(msg ...string) FieldSchema { return f.Format(FormatURI, msg...) }

// UUID is shorthand for Format("uuid").
func (f FieldSchema) UUID(msg ...string) FieldSchema { return f.Format(FormatUUID, msg...) }

// CUID is shorthand for Format("cuid").
func (f FieldSchema) CUID(msg ...string) FieldSchema { return f.Format(FormatCUID, msg...) }

// Semver is shorthand for Format("semver").
func (f FieldSchema) Semver(msg ...string) FieldSchema { return f.Format(FormatSemver, msg...) }

// OneOf restricts the string to a fixed set of literals.
func (f FieldSchema) OneOf(values ...string) FieldSchema {
	return f.withString("OneOf", func(sc *StringConstraints) {
		sc.Enum = append(sc.Enum[:0], values...)
	})
}

// EnumMessage sets the message reported for a value outside the enum.
func (f FieldSchema) EnumMessage(msg string) FieldSchema {
	return f.withString("EnumMessage", func(sc *StringConstraints) {
		sc.EnumMsg = msg
	})
}

// Const requires the string to equal s exactly.
func (f FieldSchema) Const(s string, msg ...string) FieldSchema {
	return f.withString("Const", func(sc *StringConstraints) {
		sc.Const = &TextRule{Value: s, Message: message(msg)}
	})
}

// Trim strips surrounding whitespace before the other rules run; the trimmed
// value is what ends up in the output.
func (f FieldSchema) Trim() FieldSchema {
	return f.withString("Trim", func(sc *StringConstraints) {
		sc.Trim = true
	})
}

// ---- number rules ----

// Gt requires a value strictly greater than n.
func (f FieldSchema) Gt(n float64, msg ...string) FieldSchema {
	return f.withNumber("Gt", func(nc *NumberConstraints) {
		nc.ExclusiveMin = &FloatRule{Value: n, Message: message(msg)}
	})
}

// Lt requires a value strictly less than n.
func (f FieldSchema) Lt(n float64, msg ...string) FieldSchema {
	return f.withNumber("Lt", func(nc *NumberConstraints) {
		nc.ExclusiveMax = &FloatRule{Value: n, Message: message(msg)}
	})
}

// Positive is Gt(0).
func (f FieldSchema) Positive(msg ...string) FieldSchema { return f.Gt(0, msg...) }

// Nonnegative is Min(0).
func (f FieldSchema) Nonnegative(msg ...string) FieldSchema { return f.Min(0, msg...) }

// MultipleOf requires the value to be an integral multiple of n.
func (f FieldSchema) MultipleOf(n float64, msg ...string) FieldSchema {
	if n == 0 {
		panic("schema: MultipleOf(0)")
	}
	return f.withNumber("MultipleOf", func(nc *NumberConstraints) {
		nc.MultipleOf = &FloatRule{Value: n, Message: message(msg)}
	})
}

// Equals requires the number to equal n exactly.
func (f FieldSchema) Equals(n float64, msg ...string) FieldSchema {
	return f.withNumber("Equals", func(nc *NumberConstraints) {
		nc.Const = &FloatRule{Value: n, Message: message(msg)}
	})
}

// ---- boolean rules ----

// Is requires the boolean to equal b.
func (f FieldSchema) Is(b bool, msg ...string) FieldSchema {
	f.mustBe("Is", TypeBoolean)
	f.Bool = &BoolConstraints{Const: &b, ConstMsg: message(msg)}
	return f
}

// ---- date rules ----

// After requires a date at or after t.
func (f FieldSchema) After(t time.Time, msg ...string) FieldSchema {
	return f.withDate("After", func(dc *DateConstraints) {
		dc.Min = &TimeRule{Value: t, Message: message(msg)}
	})
}

// Before requires a date at or before t.
func (f FieldSchema) Before(t time.Time, msg ...string) FieldSchema {
	return f.withDate("Before", func(dc *DateConstraints) {
		dc.Max = &TimeRule{Value: t, Message: message(msg)}
	})
}

// ---- array rules ----

// Unique requires all array elements to be distinct.
func (f FieldSchema) Unique(msg ...string) FieldSchema {
	return f.withArray("Unique", func(ac *ArrayConstraints) {
		ac.UniqueItems = true
		ac.UniqueMsg = message(msg)
	})
}
