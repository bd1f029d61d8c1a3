package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrConnection       = errors.New("store unreachable")
	ErrEventHasBookings = errors.New("event has bookings")
)

// ValidationKind classifies a ValidationError.
type ValidationKind string

const (
	KindMissingField      ValidationKind = "missing_field"
	KindInvalidFormat     ValidationKind = "invalid_format"
	KindInvalidEnum       ValidationKind = "invalid_enum"
	KindEmptyCollection   ValidationKind = "empty_collection"
	KindDanglingReference ValidationKind = "dangling_reference"
	KindUniqueViolation   ValidationKind = "unique_violation"
)

// ValidationError is the structured failure returned by the validators and
// surfaced by the stores for unique and referential violations.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Allowed []string
}

func MissingField(field string) *ValidationError {
	return &ValidationError{Kind: KindMissingField, Field: field}
}

func InvalidFormat(field string) *ValidationError {
	return &ValidationError{Kind: KindInvalidFormat, Field: field}
}

func InvalidEnum(field string, allowed ...string) *ValidationError {
	return &ValidationError{Kind: KindInvalidEnum, Field: field, Allowed: allowed}
}

func EmptyCollection(field string) *ValidationError {
	return &ValidationError{Kind: KindEmptyCollection, Field: field}
}

func DanglingReference(field string) *ValidationError {
	return &ValidationError{Kind: KindDanglingReference, Field: field}
}

func UniqueViolation(field string) *ValidationError {
	return &ValidationError{Kind: KindUniqueViolation, Field: field}
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("%s is required", e.Field)
	case KindInvalidFormat:
		return fmt.Sprintf("%s has an invalid format", e.Field)
	case KindInvalidEnum:
		return fmt.Sprintf("%s must be one of: %s", e.Field, strings.Join(e.Allowed, ", "))
	case KindEmptyCollection:
		return fmt.Sprintf("%s must be a non-empty list", e.Field)
	case KindDanglingReference:
		return fmt.Sprintf("%s does not reference an existing record", e.Field)
	case KindUniqueViolation:
		return fmt.Sprintf("%s already exists", e.Field)
	}
	return fmt.Sprintf("%s is invalid", e.Field)
}

// Is lets callers match on the sentinel category (ErrInvalidInput, ErrNotFound,
// ErrConflict) or on another ValidationError with the same kind. An empty Field
// in the target matches any field.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		switch e.Kind {
		case KindMissingField, KindInvalidFormat, KindInvalidEnum, KindEmptyCollection:
			return true
		}
		return false
	case ErrNotFound:
		return e.Kind == KindDanglingReference
	case ErrConflict:
		return e.Kind == KindUniqueViolation
	}
	var other *ValidationError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind && (other.Field == "" || other.Field == e.Field)
}

// AsValidationError unwraps err to a *ValidationError if it carries one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
