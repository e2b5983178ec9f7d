package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review quality ratings. Anything at or above QualityPass counts as a
// successful recall.
const (
	MinQuality  = 0
	QualityPass = 3
	MaxQuality  = 5
)

// ReviewEvent records one completed review. Events are append-only; the
// Previous* fields hold the learning state before the review was applied.
type ReviewEvent struct {
	ID                  uuid.UUID `json:"id"                    db:"id"`
	UserID              uuid.UUID `json:"user_id"               db:"user_id"`
	CardID              uuid.UUID `json:"card_id"               db:"card_id"`
	DeckID              uuid.UUID `json:"deck_id"               db:"deck_id"`
	Quality             int       `json:"quality"               db:"quality"`
	ReviewDuration      int       `json:"review_duration"       db:"review_duration"`
	PreviousInterval    int       `json:"previous_interval"     db:"previous_interval"`
	PreviousEaseFactor  float64   `json:"previous_ease_factor"  db:"previous_ease_factor"`
	PreviousRepetitions int       `json:"previous_repetitions"  db:"previous_repetitions"`
	ReviewedAt          time.Time `json:"reviewed_at"           db:"reviewed_at"`
}

// ValidateQuality returns ErrInvalidQuality when q is outside [0,5].
func ValidateQuality(q int) error {
	if q < MinQuality || q > MaxQuality {
		return ErrInvalidQuality
	}
	return nil
}

// ValidateDuration returns ErrInvalidDuration for negative durations.
func ValidateDuration(seconds int) error {
	if seconds < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// IsCorrect reports whether the review counted as a successful recall.
func (e *ReviewEvent) IsCorrect() bool {
	return e.Quality >= QualityPass
}

// Validate checks that the event references a user and card and carries
// a valid rating.
func (e *ReviewEvent) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if e.CardID == uuid.Nil {
		return ErrEmptyCardID
	}
	if err := ValidateQuality(e.Quality); err != nil {
		return err
	}
	return ValidateDuration(e.ReviewDuration)
}
