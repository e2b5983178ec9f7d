package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
)

// ReviewStore is the append-only review history. It exposes no update or
// delete operations.
type ReviewStore interface {
	// Append records a completed review.
	// Returns ErrInvalidEntity if the event fails validation.
	Append(ctx context.Context, event *domain.ReviewEvent) error

	// ListByUser returns the user's most recent events, newest first.
	// A zero limit returns the full history.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ReviewEvent, error)

	// DailyStats aggregates the user's reviews per UTC day for days on or
	// after since, newest day first.
	DailyStats(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DailyReviewStats, error)

	// ReviewDays returns the distinct UTC days on which the user reviewed
	// anything, newest first.
	ReviewDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error)
}
