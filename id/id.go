// Package id generates record identifiers.
package id

import "github.com/google/uuid"

// New returns a random (version 4) UUID in canonical form.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s is a canonical UUID string.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
