package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/banki/banki-srs/internal/api/shared"
	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes by error
// class. Unknown errors become 500 so internal failures are never reported
// as client mistakes.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErrs),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that does not
// leak store or driver details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	var fieldErr *domain.ValidationError

	switch {
	case errors.Is(err, store.ErrLearningStateNotFound):
		return "Card has not been initialized for review"
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, domain.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, domain.ErrInvalidQuality):
		return "Quality must be between 0 and 5"
	case errors.Is(err, domain.ErrInvalidDuration):
		return "Review duration cannot be negative"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Invalid %s: %s", fieldErr.Field, fieldErr.Message)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "Invalid request"

	case errors.Is(err, domain.ErrConflict):
		return "The card was updated concurrently, please retry"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "must be a UUID"
	case "min":
		return "too small"
	case "max":
		return "too large"
	default:
		return "validation failed"
	}
}
