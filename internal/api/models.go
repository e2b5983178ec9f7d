package api

import "github.com/banki/banki-srs/internal/domain"

// SubmitReviewRequest is the body of POST /api/reviews.
type SubmitReviewRequest struct {
	CardID string `json:"card_id" validate:"required,uuid"`
	// Quality is a pointer so that a rating of 0 passes the required check.
	Quality        *int `json:"quality"         validate:"required,min=0,max=5"`
	ReviewDuration int  `json:"review_duration" validate:"min=0"`
}

// InitializeProgressRequest is the body of POST /api/reviews/progress.
type InitializeProgressRequest struct {
	CardID string `json:"card_id" validate:"required,uuid"`
	DeckID string `json:"deck_id" validate:"required,uuid"`
}

// DueCardsResponse lists the cards due for review.
type DueCardsResponse struct {
	Count int              `json:"count"`
	Cards []domain.DueCard `json:"cards"`
}

// DeckProgressResponse reports a deck initialization.
type DeckProgressResponse struct {
	Initialized int `json:"initialized"`
}

// ReviewHistoryResponse lists recent reviews, newest first.
type ReviewHistoryResponse struct {
	Count   int                  `json:"count"`
	Reviews []domain.ReviewEvent `json:"reviews"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
