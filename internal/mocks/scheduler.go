package mocks

import (
	"time"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/domain/srs"
)

// MockScheduler implements srs.Scheduler. Without ScheduleFn it delegates
// to the default SM-2 scheduler.
type MockScheduler struct {
	ScheduleFn func(
		state *domain.LearningState,
		review srs.Review,
		now time.Time,
	) (*domain.LearningState, *domain.ReviewEvent, error)

	Calls int
}

var _ srs.Scheduler = (*MockScheduler)(nil)

// Schedule implements srs.Scheduler
func (m *MockScheduler) Schedule(
	state *domain.LearningState,
	review srs.Review,
	now time.Time,
) (*domain.LearningState, *domain.ReviewEvent, error) {
	m.Calls++
	if m.ScheduleFn != nil {
		return m.ScheduleFn(state, review, now)
	}
	return srs.NewDefaultScheduler().Schedule(state, review, now)
}
