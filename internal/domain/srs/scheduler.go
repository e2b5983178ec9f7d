package srs

import (
	"time"

	"github.com/banki/banki-srs/internal/domain"
)

// Review is a single rating submitted for a card.
type Review struct {
	// Quality is the 0-5 recall rating.
	Quality int
	// Duration is the time spent on the card in seconds.
	Duration int
}

// Scheduler computes the next learning state for a card after a review.
// Implementations are pure: they perform no I/O and never modify their
// input, so they are safe for concurrent use.
type Scheduler interface {
	// Schedule applies review to state as of now and returns the new state
	// together with the event to append to the review history.
	Schedule(
		state *domain.LearningState,
		review Review,
		now time.Time,
	) (*domain.LearningState, *domain.ReviewEvent, error)
}

// sm2Scheduler is the standard implementation of the Scheduler interface
type sm2Scheduler struct {
	params *Params
}

var _ Scheduler = (*sm2Scheduler)(nil)

// NewDefaultScheduler creates a new Scheduler with default parameters
func NewDefaultScheduler() Scheduler {
	return &sm2Scheduler{
		params: NewDefaultParams(),
	}
}

// NewSchedulerWithParams creates a new Scheduler with custom parameters.
// A nil params falls back to the defaults.
func NewSchedulerWithParams(params *Params) Scheduler {
	if params == nil {
		params = NewDefaultParams()
	}
	return &sm2Scheduler{
		params: params,
	}
}

// Schedule implements the Scheduler interface
func (s *sm2Scheduler) Schedule(
	state *domain.LearningState,
	review Review,
	now time.Time,
) (*domain.LearningState, *domain.ReviewEvent, error) {
	if state == nil {
		return nil, nil, domain.ErrNilState
	}

	if err := domain.ValidateQuality(review.Quality); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateDuration(review.Duration); err != nil {
		return nil, nil, err
	}

	next, event := calculateNextState(state, review, now, s.params)
	return next, event, nil
}
