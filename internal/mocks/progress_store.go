package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/store"
)

// MockProgressStore implements store.ProgressStore. Calls without a
// function field go to Base.
type MockProgressStore struct {
	Base store.ProgressStore

	GetFn        func(ctx context.Context, userID, cardID uuid.UUID) (*domain.LearningState, error)
	InsertFn     func(ctx context.Context, state *domain.LearningState) (*domain.LearningState, error)
	InsertManyFn func(ctx context.Context, states []*domain.LearningState) (int, error)
	UpdateFn     func(ctx context.Context, state *domain.LearningState) error
	ListDueFn    func(ctx context.Context, q store.DueQuery) ([]domain.DueCard, error)
	DeckStatsFn  func(ctx context.Context, userID, deckID uuid.UUID, today time.Time) (*domain.DeckStats, error)
	UserTotalsFn func(ctx context.Context, userID uuid.UUID) (*domain.UserTotals, error)
}

var _ store.ProgressStore = (*MockProgressStore)(nil)

// Get implements store.ProgressStore
func (m *MockProgressStore) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.LearningState, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, cardID)
	}
	return m.Base.Get(ctx, userID, cardID)
}

// Insert implements store.ProgressStore
func (m *MockProgressStore) Insert(ctx context.Context, state *domain.LearningState) (*domain.LearningState, error) {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, state)
	}
	return m.Base.Insert(ctx, state)
}

// InsertMany implements store.ProgressStore
func (m *MockProgressStore) InsertMany(ctx context.Context, states []*domain.LearningState) (int, error) {
	if m.InsertManyFn != nil {
		return m.InsertManyFn(ctx, states)
	}
	return m.Base.InsertMany(ctx, states)
}

// Update implements store.ProgressStore
func (m *MockProgressStore) Update(ctx context.Context, state *domain.LearningState) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, state)
	}
	return m.Base.Update(ctx, state)
}

// ListDue implements store.ProgressStore
func (m *MockProgressStore) ListDue(ctx context.Context, q store.DueQuery) ([]domain.DueCard, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, q)
	}
	return m.Base.ListDue(ctx, q)
}

// DeckStats implements store.ProgressStore
func (m *MockProgressStore) DeckStats(
	ctx context.Context,
	userID, deckID uuid.UUID,
	today time.Time,
) (*domain.DeckStats, error) {
	if m.DeckStatsFn != nil {
		return m.DeckStatsFn(ctx, userID, deckID, today)
	}
	return m.Base.DeckStats(ctx, userID, deckID, today)
}

// UserTotals implements store.ProgressStore
func (m *MockProgressStore) UserTotals(ctx context.Context, userID uuid.UUID) (*domain.UserTotals, error) {
	if m.UserTotalsFn != nil {
		return m.UserTotalsFn(ctx, userID)
	}
	return m.Base.UserTotals(ctx, userID)
}
