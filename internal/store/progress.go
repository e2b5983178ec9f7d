package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
)

// DueQuery selects the learning states that are due for a user.
type DueQuery struct {
	UserID uuid.UUID
	// DeckID restricts the result to one deck when non-nil.
	DeckID *uuid.UUID
	// Today is the UTC date the query is evaluated for; states with a
	// next review date on or before it are due.
	Today time.Time
	// Limit caps the number of rows; zero means no limit.
	Limit uint64
}

// ProgressStore defines the interface for learning state persistence.
type ProgressStore interface {
	// Get retrieves the learning state for a (user, card) pair.
	// Returns ErrLearningStateNotFound if the card was never initialized.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.LearningState, error)

	// Insert stores state unless a state for the same (user, card) pair
	// already exists. It returns whichever state is stored after the call,
	// so concurrent callers for the same pair all observe the same row.
	// Returns ErrInvalidEntity if state fails domain validation and
	// ErrCardNotFound if the card does not exist.
	Insert(ctx context.Context, state *domain.LearningState) (*domain.LearningState, error)

	// InsertMany inserts every state that is not present yet and returns the
	// number of rows that were created.
	InsertMany(ctx context.Context, states []*domain.LearningState) (int, error)

	// Update replaces the stored state if and only if its version still
	// equals state.Version. On success state.Version is advanced to the
	// new stored version. Returns ErrStaleLearningState when the version
	// check fails and ErrLearningStateNotFound when the row is gone.
	Update(ctx context.Context, state *domain.LearningState) error

	// ListDue returns the due cards ordered by next review date, then by
	// interval, then by card ID. The read takes no locks.
	ListDue(ctx context.Context, q DueQuery) ([]domain.DueCard, error)

	// DeckStats aggregates a user's progress in one deck as of today.
	DeckStats(ctx context.Context, userID, deckID uuid.UUID, today time.Time) (*domain.DeckStats, error)

	// UserTotals aggregates the user's learning states across all decks.
	UserTotals(ctx context.Context, userID uuid.UUID) (*domain.UserTotals, error)
}
