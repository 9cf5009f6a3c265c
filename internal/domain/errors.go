package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that the backing store for the dataset is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals a new record with a missing or invalid field.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidRecord signals a persisted row that cannot be hydrated.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrNotLoaded signals a read against a session whose dataset failed to load.
	ErrNotLoaded = errors.New("dataset not loaded")
)

// ValidationError wraps ErrValidation with the field that failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RecordError wraps ErrInvalidRecord with the offending line of the backing file.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s at line %d: %v", ErrInvalidRecord.Error(), e.Line, e.Err)
}

func (e *RecordError) Unwrap() []error { return []error{ErrInvalidRecord, e.Err} }
