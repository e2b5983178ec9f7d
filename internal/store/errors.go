package store

import (
	"errors"
	"fmt"

	"github.com/banki/banki-srs/internal/domain"
)

// Common store errors used across all store implementations. Each one
// wraps the domain error class it belongs to, so callers above the store
// layer can classify failures with errors.Is against domain.ErrNotFound,
// domain.ErrInvalidArgument and domain.ErrConflict.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = fmt.Errorf("entity %w", domain.ErrNotFound)

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = fmt.Errorf("entity already exists: %w", domain.ErrConflict)

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or the database rejects it through a constraint.
	ErrInvalidEntity = fmt.Errorf("invalid entity: %w", domain.ErrInvalidArgument)

	// ErrTransactionFailed is returned when a database transaction fails
	// to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrInternal is returned for unexpected database failures that carry
	// no domain meaning.
	ErrInternal = errors.New("internal store error")

	// ErrLearningStateNotFound indicates no learning state exists for the
	// (user, card) pair. The card has to be initialized first.
	ErrLearningStateNotFound = fmt.Errorf("%w: learning state", ErrNotFound)

	// ErrCardNotFound indicates that the referenced card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrStaleLearningState is returned by ProgressStore.Update when the
	// stored version no longer matches the version the update was based on.
	ErrStaleLearningState = fmt.Errorf("learning state was modified concurrently: %w", domain.ErrConflict)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, domain.ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsConflictError reports whether the operation lost a race with a
// concurrent writer and may succeed if retried from scratch.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrStaleLearningState) || errors.Is(err, domain.ErrConflict)
}

// IsInternalError checks if the error is an unclassified store failure.
func IsInternalError(err error) bool {
	return errors.Is(err, ErrInternal) || errors.Is(err, ErrTransactionFailed)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "learning_state", "review")
	Operation string // The operation that failed (e.g., "insert", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
