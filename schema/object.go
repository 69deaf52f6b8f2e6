package schema

import (
	"fmt"
	"reflect"
)

// NewObject builds an object schema from an ordered list of properties. A key
// repeated later in the list replaces the earlier definition in place.
func NewObject(title string, props ...Property) *ObjectSchema {
	o := &ObjectSchema{title: title, fields: make(map[string]FieldSchema, len(props))}
	o.put(props)
	return o
}

func (o *ObjectSchema) put(props []Property) {
	for _, p := range props {
		if p.Key == "" {
			panic("schema: empty property key")
		}
		if _, exists := o.fields[p.Key]; !exists {
			o.keys = append(o.keys, p.Key)
		}
		o.fields[p.Key] = p.Field
	}
}

// clone returns a shallow copy with its own key slice and field map.
// Refinements are carried only when keepRefinements is set.
func (o *ObjectSchema) clone(keepRefinements bool) *ObjectSchema {
	c := &ObjectSchema{
		title:                o.title,
		description:          o.description,
		keys:                 append([]string(nil), o.keys...),
		fields:               make(map[string]FieldSchema, len(o.fields)),
		additionalProperties: o.additionalProperties,
	}
	for k, f := range o.fields {
		c.fields[k] = f
	}
	if keepRefinements {
		c.refinements = append([]Refinement(nil), o.refinements...)
		if len(o.dependentRequired) > 0 {
			c.dependentRequired = make(map[string][]string, len(o.dependentRequired))
			for k, v := range o.dependentRequired {
				c.dependentRequired[k] = append([]string(nil), v...)
			}
		}
	}
	return c
}

// Title returns the schema title.
func (o *ObjectSchema) Title() string { return o.title }

// Description returns the schema description.
func (o *ObjectSchema) Description() string { return o.description }

// Keys returns the declared keys in order.
func (o *ObjectSchema) Keys() []string { return append([]string(nil), o.keys...) }

// Len returns the number of declared fields.
func (o *ObjectSchema) Len() int { return len(o.keys) }

// Field returns the schema of a declared field.
func (o *ObjectSchema) Field(key string) (FieldSchema, bool) {
	f, ok := o.fields[key]
	return f, ok
}

// Refinements returns the attached refinements in evaluation order.
func (o *ObjectSchema) Refinements() []Refinement {
	return append([]Refinement(nil), o.refinements...)
}

// IsStrict reports whether unknown keys are rejected.
func (o *ObjectSchema) IsStrict() bool {
	return o.additionalProperties != nil && !*o.additionalProperties
}

// WithTitle returns a copy with a different title.
func (o *ObjectSchema) WithTitle(title string) *ObjectSchema {
	c := o.clone(true)
	c.title = title
	return c
}

// Describe returns a copy with a description.
func (o *ObjectSchema) Describe(desc string) *ObjectSchema {
	c := o.clone(true)
	c.description = desc
	return c
}

// Strict returns a copy that rejects keys not declared in the schema.
func (o *ObjectSchema) Strict() *ObjectSchema {
	c := o.clone(true)
	f := false
	c.additionalProperties = &f
	return c
}

// Passthrough returns a copy that copies undeclared keys to the output
// without checking them.
func (o *ObjectSchema) Passthrough() *ObjectSchema {
	c := o.clone(true)
	t := true
	c.additionalProperties = &t
	return c
}

// Strip returns a copy that silently drops undeclared keys (the default).
func (o *ObjectSchema) Strip() *ObjectSchema {
	c := o.clone(true)
	c.additionalProperties = nil
	return c
}

// ---- derivations ----

// Partial returns a schema where every field is optional. Defaults are
// dropped as well, so an absent key stays absent in the output.
func (o *ObjectSchema) Partial() *ObjectSchema {
	c := o.clone(false)
	for k, f := range c.fields {
		f.Required = false
		f.HasDefault = false
		f.DefaultValue = nil
		c.fields[k] = f
	}
	return c
}

// Omit returns a schema without the named fields. Unknown keys are ignored.
func (o *ObjectSchema) Omit(keys ...string) *ObjectSchema {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	c := o.clone(false)
	c.keys = c.keys[:0]
	for _, k := range o.keys {
		if _, ok := drop[k]; ok {
			delete(c.fields, k)
			continue
		}
		c.keys = append(c.keys, k)
	}
	return c
}

// Pick returns a schema containing only the named fields, in the order of
// the receiver. Unknown keys are ignored.
func (o *ObjectSchema) Pick(keys ...string) *ObjectSchema {
	keep := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keep[k] = struct{}{}
	}
	c := o.clone(false)
	c.keys = c.keys[:0]
	for _, k := range o.keys {
		if _, ok := keep[k]; !ok {
			delete(c.fields, k)
			continue
		}
		c.keys = append(c.keys, k)
	}
	return c
}

// Extend returns a schema with additional fields. A property whose key
// already exists replaces the base definition and keeps its position.
func (o *ObjectSchema) Extend(props ...Property) *ObjectSchema {
	c := o.clone(false)
	c.put(props)
	return c
}

// Merge is Extend with the fields of another object schema.
func (o *ObjectSchema) Merge(other *ObjectSchema) *ObjectSchema {
	props := make([]Property, 0, other.Len())
	for _, k := range other.keys {
		props = append(props, Prop(k, other.fields[k]))
	}
	return o.Extend(props...)
}

// ---- refinements ----

// Refine returns a copy with an additional cross-field refinement. check runs
// against the normalized object only when every field passed; a false result
// reports message at path. check must not modify the map.
func (o *ObjectSchema) Refine(check func(obj map[string]any) bool, message string, path ...string) *ObjectSchema {
	if check == nil {
		panic("schema: nil refinement")
	}
	c := o.clone(true)
	c.refinements = append(c.refinements, Refinement{
		Check:   check,
		Message: message,
		Path:    append([]string(nil), path...),
	})
	return c
}

// FieldsMatch returns a refinement check requiring two fields to hold equal
// values.
func FieldsMatch(a, b string) func(map[string]any) bool {
	return func(obj map[string]any) bool {
		return reflect.DeepEqual(obj[a], obj[b])
	}
}

// RefineMatch is Refine(FieldsMatch(a, b), message, b).
func (o *ObjectSchema) RefineMatch(a, b, message string) *ObjectSchema {
	return o.Refine(FieldsMatch(a, b), message, b)
}

// DependentRequired returns a copy requiring every dependency to be present
// whenever field is present. Each dependency is its own refinement.
func (o *ObjectSchema) DependentRequired(field string, deps ...string) *ObjectSchema {
	c := o.clone(true)
	if c.dependentRequired == nil {
		c.dependentRequired = make(map[string][]string)
	}
	c.dependentRequired[field] = append(c.dependentRequired[field], deps...)
	for _, dep := range deps {
		c = c.Refine(func(obj map[string]any) bool {
			if _, ok := obj[field]; !ok {
				return true
			}
			_, ok := obj[dep]
			return ok
		}, fmt.Sprintf("field is required when %q is present", field), dep)
	}
	return c
}
