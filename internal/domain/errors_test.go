package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"missing field is invalid input", MissingField("title"), ErrInvalidInput, true},
		{"invalid format is invalid input", InvalidFormat("email"), ErrInvalidInput, true},
		{"invalid enum is invalid input", InvalidEnum("mode", "online"), ErrInvalidInput, true},
		{"empty collection is invalid input", EmptyCollection("tags"), ErrInvalidInput, true},
		{"dangling reference is not found", DanglingReference("event_id"), ErrNotFound, true},
		{"dangling reference is not invalid input", DanglingReference("event_id"), ErrInvalidInput, false},
		{"unique violation is conflict", UniqueViolation("slug"), ErrConflict, true},
		{"same kind any field", MissingField("venue"), &ValidationError{Kind: KindMissingField}, true},
		{"same kind same field", InvalidFormat("email"), InvalidFormat("email"), true},
		{"same kind other field", InvalidFormat("email"), InvalidFormat("time"), false},
		{"other kind", MissingField("email"), InvalidFormat("email"), false},
		{"wrapped", fmt.Errorf("create booking: %w", InvalidFormat("email")), InvalidFormat("email"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "title is required", MissingField("title").Error())
	assert.Equal(t, "mode must be one of: online, offline, hybrid", InvalidEnum("mode", "online", "offline", "hybrid").Error())
	assert.Equal(t, "slug already exists", UniqueViolation("slug").Error())
}

func TestAsValidationError(t *testing.T) {
	ve, ok := AsValidationError(fmt.Errorf("wrap: %w", EmptyCollection("agenda")))
	require.True(t, ok)
	require.Equal(t, KindEmptyCollection, ve.Kind)
	require.Equal(t, "agenda", ve.Field)

	_, ok = AsValidationError(errors.New("plain"))
	require.False(t, ok)
}

func TestEventMode_Valid(t *testing.T) {
	require.True(t, ModeHybrid.Valid())
	require.False(t, EventMode("in-person").Valid())
	require.False(t, EventMode("Online").Valid())
}
