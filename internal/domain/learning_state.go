package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ease factor bounds and the value a fresh learning state starts with.
const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
	InitialEaseFactor = 2.5
)

// LearningState is a user's scheduling state for a single card.
//
// A fresh state has Interval 0, which marks it as never reviewed. After
// the first review Interval is always at least 1. NextReviewDate is kept at
// UTC midnight; only its calendar date is meaningful.
type LearningState struct {
	ID             uuid.UUID  `json:"id"              db:"id"`
	UserID         uuid.UUID  `json:"user_id"         db:"user_id"`
	CardID         uuid.UUID  `json:"card_id"         db:"card_id"`
	DeckID         uuid.UUID  `json:"deck_id"         db:"deck_id"`
	Interval       int        `json:"interval"        db:"interval_days"`
	Repetitions    int        `json:"repetitions"     db:"repetitions"`
	EaseFactor     float64    `json:"ease_factor"     db:"ease_factor"`
	NextReviewDate time.Time  `json:"next_review_date" db:"next_review_date"`
	LastReviewed   *time.Time `json:"last_reviewed,omitempty" db:"last_reviewed"`
	TotalReviews   int        `json:"total_reviews"   db:"total_reviews"`
	CorrectReviews int        `json:"correct_reviews" db:"correct_reviews"`
	Version        int64      `json:"-"               db:"version"`
	CreatedAt      time.Time  `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"      db:"updated_at"`
}

// NewLearningState creates the initial state for a card a user has not
// studied yet. The card is due on the day it is created.
func NewLearningState(userID, cardID, deckID uuid.UUID, now time.Time) (*LearningState, error) {
	now = now.UTC()
	state := &LearningState{
		ID:             uuid.New(),
		UserID:         userID,
		CardID:         cardID,
		DeckID:         deckID,
		Interval:       0,
		Repetitions:    0,
		EaseFactor:     InitialEaseFactor,
		NextReviewDate: StartOfDay(now),
		TotalReviews:   0,
		CorrectReviews: 0,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks the structural invariants of the state.
func (s *LearningState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptyCardID
	}

	if s.DeckID == uuid.Nil {
		return ErrEmptyDeckID
	}

	if s.Interval < 0 || (s.Interval == 0 && s.TotalReviews > 0) {
		return ErrInvalidInterval
	}

	if s.EaseFactor < MinEaseFactor || s.EaseFactor > MaxEaseFactor {
		return ErrInvalidEase
	}

	if s.Repetitions < 0 || s.TotalReviews < 0 || s.CorrectReviews < 0 ||
		s.CorrectReviews > s.TotalReviews || s.Repetitions > s.TotalReviews {
		return ErrInvalidCounters
	}

	return nil
}

// IsNew reports whether the card has never been reviewed.
func (s *LearningState) IsNew() bool {
	return s.TotalReviews == 0
}

// IsDue reports whether the card should be shown on the day containing now.
func (s *LearningState) IsDue(now time.Time) bool {
	return !s.NextReviewDate.After(StartOfDay(now))
}

// Clone returns a deep copy of the state.
func (s *LearningState) Clone() *LearningState {
	if s == nil {
		return nil
	}
	c := *s
	if s.LastReviewed != nil {
		lr := *s.LastReviewed
		c.LastReviewed = &lr
	}
	return &c
}

// StartOfDay returns midnight UTC of the calendar day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
