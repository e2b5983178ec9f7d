package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banki/banki-srs/internal/api/shared"
	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/service/review"
	"github.com/banki/banki-srs/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"learning state not found", store.ErrLearningStateNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", domain.ErrNotFound), http.StatusNotFound},
		{"invalid quality", domain.ErrInvalidQuality, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"field validation", domain.NewValidationError("limit", "must be positive", nil), http.StatusBadRequest},
		{"empty body", shared.ErrEmptyBody, http.StatusBadRequest},
		{"stale", store.ErrStaleLearningState, http.StatusConflict},
		{
			"service error",
			review.NewServiceError(review.OpSubmitReview, "failed", store.ErrStaleLearningState),
			http.StatusConflict,
		},
		{"internal", store.ErrInternal, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"learning state", store.ErrLearningStateNotFound, "Card has not been initialized for review"},
		{"card", store.ErrCardNotFound, "Card not found"},
		{"quality", fmt.Errorf("submit: %w", domain.ErrInvalidQuality), "Quality must be between 0 and 5"},
		{"duration", domain.ErrInvalidDuration, "Review duration cannot be negative"},
		{"field", domain.NewValidationError("days", "must be a non-negative integer", nil), "Invalid days: must be a non-negative integer"},
		{"conflict", store.ErrStaleLearningState, "The card was updated concurrently, please retry"},
		{"leaky internal", errors.New(`pq: relation "learning_states" does not exist`), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	q := 9
	err := shared.ValidateRequest(&SubmitReviewRequest{CardID: "8f14e45f-ceea-467f-a0e6-7d4b1e3c9a10", Quality: &q})
	assert.Equal(t, "Invalid quality: too large", SanitizeValidationError(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
