package srs

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
)

// easeDelta returns the change applied to the ease factor for a rating.
//
// The quality is clamped to [0, params.EaseQualityCap] before entering the
// SM-2 formula 0.1 - (5-q)*(0.08 + (5-q)*0.02). With the default cap of 4
// a rating of 5 moves the ease factor exactly like a rating of 4.
//
// Parameters:
//   - quality: the user's 0-5 rating
//   - params: configuration parameters for the recurrence
//
// Returns:
//   - the signed delta; it depends on the rating only, never on the card
func easeDelta(quality int, params *Params) float64 {
	q := quality
	if q < domain.MinQuality {
		q = domain.MinQuality
	}
	if q > params.EaseQualityCap {
		q = params.EaseQualityCap
	}

	d := float64(domain.MaxQuality - q)
	return 0.1 - d*(0.08+d*0.02)
}

// calculateNewEaseFactor applies the rating's delta to the current ease
// factor, clamps it to the configured limits and rounds to two decimals.
// The ease factor is updated on lapses as well as on successes.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	newEF := currentEF + easeDelta(quality, params)

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return round2(newEF)
}

// calculateNewInterval determines the new interval in days.
//
// Parameters:
//   - currentInterval: the interval before this review
//   - repetitions: consecutive successes before this review
//   - easeFactor: the ease factor before this review
//   - quality: the user's 0-5 rating
//   - params: configuration parameters for the recurrence
//
// Returns:
//   - the new interval and the new repetition count
//
// Algorithm behavior:
//   - A lapse (quality below the pass threshold) resets to FirstInterval and
//     zero repetitions
//   - The first success of a run gives FirstInterval, the second gives
//     SecondInterval
//   - Later successes multiply the previous interval by the previous ease
//     factor, rounding half away from zero
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	quality int,
	params *Params,
) (int, int) {
	if quality < domain.QualityPass {
		return params.FirstInterval, 0
	}

	var interval int
	switch repetitions {
	case 0:
		interval = params.FirstInterval
	case 1:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(currentInterval) * easeFactor))
		if interval < 1 {
			interval = 1
		}
	}

	return interval, repetitions + 1
}

// calculateNextReviewDate returns the UTC date interval days after the day containing now.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return domain.StartOfDay(now).AddDate(0, 0, interval)
}

// calculateNextState creates the updated learning state and the review
// event describing the transition. The input state is not modified.
func calculateNextState(
	state *domain.LearningState,
	review Review,
	now time.Time,
	params *Params,
) (*domain.LearningState, *domain.ReviewEvent) {
	now = now.UTC()
	next := state.Clone()

	next.Interval, next.Repetitions = calculateNewInterval(
		state.Interval,
		state.Repetitions,
		state.EaseFactor,
		review.Quality,
		params,
	)
	next.EaseFactor = calculateNewEaseFactor(state.EaseFactor, review.Quality, params)
	next.NextReviewDate = calculateNextReviewDate(next.Interval, now)

	next.TotalReviews++
	if review.Quality >= domain.QualityPass {
		next.CorrectReviews++
	}

	reviewed := now
	next.LastReviewed = &reviewed
	next.UpdatedAt = now

	event := &domain.ReviewEvent{
		ID:                  uuid.New(),
		UserID:              state.UserID,
		CardID:              state.CardID,
		DeckID:              state.DeckID,
		Quality:             review.Quality,
		ReviewDuration:      review.Duration,
		PreviousInterval:    state.Interval,
		PreviousEaseFactor:  state.EaseFactor,
		PreviousRepetitions: state.Repetitions,
		ReviewedAt:          now,
	}

	return next, event
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
