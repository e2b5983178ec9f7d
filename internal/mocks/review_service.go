package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/domain/srs"
	"github.com/banki/banki-srs/internal/service/review"
)

// MockReviewService implements review.Service. Unset function fields return
// zero values.
type MockReviewService struct {
	InitializeProgressFn     func(ctx context.Context, userID, cardID, deckID uuid.UUID) (*domain.LearningState, error)
	InitializeDeckProgressFn func(ctx context.Context, userID, deckID uuid.UUID) (int, error)
	DueCardsFn               func(ctx context.Context, userID uuid.UUID, opts review.DueOptions) ([]domain.DueCard, error)
	SubmitReviewFn           func(ctx context.Context, userID, cardID uuid.UUID, r srs.Review) (*domain.LearningState, error)
	DeckStatsFn              func(ctx context.Context, userID, deckID uuid.UUID) (*domain.DeckStats, error)
	UserStatsFn              func(ctx context.Context, userID uuid.UUID, days int) (*domain.UserStats, error)
	ReviewHistoryFn          func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ReviewEvent, error)
}

var _ review.Service = (*MockReviewService)(nil)

// InitializeProgress implements review.Service
func (m *MockReviewService) InitializeProgress(
	ctx context.Context,
	userID, cardID, deckID uuid.UUID,
) (*domain.LearningState, error) {
	if m.InitializeProgressFn != nil {
		return m.InitializeProgressFn(ctx, userID, cardID, deckID)
	}
	return nil, nil
}

// InitializeDeckProgress implements review.Service
func (m *MockReviewService) InitializeDeckProgress(ctx context.Context, userID, deckID uuid.UUID) (int, error) {
	if m.InitializeDeckProgressFn != nil {
		return m.InitializeDeckProgressFn(ctx, userID, deckID)
	}
	return 0, nil
}

// DueCards implements review.Service
func (m *MockReviewService) DueCards(
	ctx context.Context,
	userID uuid.UUID,
	opts review.DueOptions,
) ([]domain.DueCard, error) {
	if m.DueCardsFn != nil {
		return m.DueCardsFn(ctx, userID, opts)
	}
	return []domain.DueCard{}, nil
}

// SubmitReview implements review.Service
func (m *MockReviewService) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	r srs.Review,
) (*domain.LearningState, error) {
	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, userID, cardID, r)
	}
	return nil, nil
}

// DeckStats implements review.Service
func (m *MockReviewService) DeckStats(ctx context.Context, userID, deckID uuid.UUID) (*domain.DeckStats, error) {
	if m.DeckStatsFn != nil {
		return m.DeckStatsFn(ctx, userID, deckID)
	}
	return &domain.DeckStats{}, nil
}

// UserStats implements review.Service
func (m *MockReviewService) UserStats(ctx context.Context, userID uuid.UUID, days int) (*domain.UserStats, error) {
	if m.UserStatsFn != nil {
		return m.UserStatsFn(ctx, userID, days)
	}
	return &domain.UserStats{}, nil
}

// ReviewHistory implements review.Service
func (m *MockReviewService) ReviewHistory(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.ReviewEvent, error) {
	if m.ReviewHistoryFn != nil {
		return m.ReviewHistoryFn(ctx, userID, limit)
	}
	return []domain.ReviewEvent{}, nil
}
