package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Callers classify failures with
// errors.Is against these three values; the more specific errors below
// and in the store package wrap them.
var (
	// ErrNotFound is returned when a requested learning state or other
	// entity does not exist. Recover by initializing and retrying.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when caller input is outside the
	// accepted domain. State is never mutated when this is returned.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict is returned when a concurrent update won the race for the
	// same learning state. The whole scheduling step can be retried.
	ErrConflict = errors.New("conflict")
)

// Input validation errors.
var (
	ErrInvalidQuality = fmt.Errorf(
		"%w: quality must be between %d and %d",
		ErrInvalidArgument,
		MinQuality,
		MaxQuality,
	)
	ErrInvalidDuration = fmt.Errorf("%w: review duration cannot be negative", ErrInvalidArgument)
	ErrEmptyUserID     = fmt.Errorf("%w: user ID cannot be empty", ErrInvalidArgument)
	ErrEmptyCardID     = fmt.Errorf("%w: card ID cannot be empty", ErrInvalidArgument)
	ErrEmptyDeckID     = fmt.Errorf("%w: deck ID cannot be empty", ErrInvalidArgument)
	ErrNilState        = fmt.Errorf("%w: learning state cannot be nil", ErrInvalidArgument)
	ErrInvalidInterval = fmt.Errorf("%w: interval cannot be negative", ErrInvalidArgument)
	ErrInvalidEase     = fmt.Errorf("%w: ease factor out of range", ErrInvalidArgument)
	ErrInvalidCounters = fmt.Errorf("%w: review counters are inconsistent", ErrInvalidArgument)
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError. A nil err defaults to
// ErrInvalidArgument so the error still classifies correctly.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrInvalidArgument
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}
