package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		s := New()
		require.True(t, Valid(s), s)
		require.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true

		u := uuid.MustParse(s)
		assert.Equal(t, uuid.Version(4), u.Version())
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("123e4567-e89b-12d3-a456-426614174000"))
	assert.False(t, Valid("123e4567e89b12d3a456426614174000"))
	assert.False(t, Valid("{123e4567-e89b-12d3-a456-426614174000}"))
	assert.False(t, Valid(""))
}
