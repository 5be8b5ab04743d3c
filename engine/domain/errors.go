package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for dataset validation and lookups.
var (
	ErrInvalidVehicle   = errors.New("invalid vehicle")
	ErrDuplicateID      = errors.New("duplicate vehicle id")
	ErrNegativePrice    = errors.New("negative price")
	ErrRatingOutOfRange = errors.New("rating out of range")
	ErrMissingField     = errors.New("missing required field")
	ErrUnknownVehicle   = errors.New("unknown vehicle")
	ErrUnknownOption    = errors.New("unknown option")
	ErrInvalidSelection = errors.New("invalid selection")
)

// ValidationError wraps a sentinel with context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
