package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	// MissingRequiredField is reported for an absent key with no default.
	MissingRequiredField ErrorKind = "MissingRequiredField"
	// ConstraintViolation covers type, length, range, format and enum failures.
	ConstraintViolation ErrorKind = "ConstraintViolation"
	// RefinementViolation is reported by a failed cross-field refinement.
	RefinementViolation ErrorKind = "RefinementViolation"
)

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Path    []string       // field path from the root object
	Kind    ErrorKind      // failure class
	Rule    string         // rule that failed, e.g. "min", "email", "refine"
	Params  map[string]any // rule parameters, e.g. {"min": 8}
	Message string         // human-readable reason
	Value   any            // the value that failed validation, if any
}

// Field returns the dot-separated field path.
func (e ValidationError) Field() string {
	return strings.Join(e.Path, ".")
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field(), e.Message)
}

// ValidationErrors is the ordered failure list of a rejected validation. It
// implements the error interface.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has returns true if there is at least one validation error for the given
// dot-separated field path.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field() == field {
			return true
		}
	}
	return false
}

// For returns the errors reported for the given field path, in order.
func (ve ValidationErrors) For(field string) ValidationErrors {
	var out ValidationErrors
	for _, e := range ve {
		if e.Field() == field {
			out = append(out, e)
		}
	}
	return out
}

// Fields returns the distinct failing field paths in first-seen order.
func (ve ValidationErrors) Fields() []string {
	seen := make(map[string]struct{}, len(ve))
	var out []string
	for _, e := range ve {
		f := e.Field()
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Ensure ValidationErrors satisfies the json.Marshaler interface so callers
// can serialise errors directly if needed.
var _ json.Marshaler = (ValidationErrors)(nil)

// MarshalJSON serialises ValidationErrors as a JSON array of
// {path, message, kind, rule} objects. Root-level failures carry an empty path.
func (ve ValidationErrors) MarshalJSON() ([]byte, error) {
	type entry struct {
		Path    []string       `json:"path"`
		Message string         `json:"message"`
		Kind    ErrorKind      `json:"kind"`
		Rule    string         `json:"rule"`
		Params  map[string]any `json:"params,omitempty"`
	}
	entries := make([]entry, len(ve))
	for i, e := range ve {
		path := e.Path
		if path == nil {
			path = []string{}
		}
		entries[i] = entry{Path: path, Message: e.Message, Kind: e.Kind, Rule: e.Rule, Params: e.Params}
	}
	return json.Marshal(entries)
}
