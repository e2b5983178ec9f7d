package review

import "fmt"

// Operation names carried by ServiceError.
const (
	OpInitializeProgress     = "initialize_progress"
	OpInitializeDeckProgress = "initialize_deck_progress"
	OpDueCards               = "due_cards"
	OpSubmitReview           = "submit_review"
	OpDeckStats              = "deck_stats"
	OpUserStats              = "user_stats"
	OpReviewHistory          = "review_history"
)

// ServiceError wraps errors from the review service with the failing
// operation. Callers classify it with errors.Is against the domain
// sentinels, which it unwraps to.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
