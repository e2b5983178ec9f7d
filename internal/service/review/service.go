package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/domain/srs"
)

// DueOptions narrows a due-card listing.
type DueOptions struct {
	// DeckID restricts the listing to one deck when non-nil.
	DeckID *uuid.UUID
	// Limit caps the number of cards. Zero selects the configured default;
	// values above the configured maximum are clamped.
	Limit int
	// AutoInitialize initializes DeckID for the user when the listing
	// would otherwise be empty and the user has no state in that deck.
	AutoInitialize bool
}

// Service is the review session driver.
type Service interface {
	// InitializeProgress creates the learning state for a card unless one
	// exists. Concurrent calls for the same user and card all receive the
	// same stored state; an existing state is returned unchanged.
	InitializeProgress(ctx context.Context, userID, cardID, deckID uuid.UUID) (*domain.LearningState, error)

	// InitializeDeckProgress initializes every card of a deck in one unit of
	// work and returns the number of cards in the deck.
	InitializeDeckProgress(ctx context.Context, userID, deckID uuid.UUID) (int, error)

	// DueCards lists the cards due today, oldest due date first and, within
	// a day, shortest interval first.
	DueCards(ctx context.Context, userID uuid.UUID, opts DueOptions) ([]domain.DueCard, error)

	// SubmitReview applies a rating to a card. The read, schedule, update
	// and history append happen in one unit of work, retried when a
	// concurrent review of the same card wins the version check.
	//
	// Errors unwrap to domain.ErrInvalidArgument for a bad rating,
	// domain.ErrNotFound for an uninitialized card and domain.ErrConflict
	// once retries are exhausted.
	SubmitReview(ctx context.Context, userID, cardID uuid.UUID, review srs.Review) (*domain.LearningState, error)

	// DeckStats summarizes the user's progress in one deck.
	DeckStats(ctx context.Context, userID, deckID uuid.UUID) (*domain.DeckStats, error)

	// UserStats reports the daily activity for the last days days (the
	// configured default when days is zero), overall totals and the
	// current streak.
	UserStats(ctx context.Context, userID uuid.UUID, days int) (*domain.UserStats, error)

	// ReviewHistory returns the most recent reviews, newest first.
	ReviewHistory(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ReviewEvent, error)
}
