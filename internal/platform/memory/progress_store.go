package memory

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/store"
)

// ProgressStore implements store.ProgressStore over a DB.
type ProgressStore struct {
	db   *DB
	inTx bool
}

var _ store.ProgressStore = (*ProgressStore)(nil)

// Get implements store.ProgressStore.Get
func (s *ProgressStore) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.LearningState, error) {
	var out *domain.LearningState
	err := s.db.read(ctx, s.inTx, func(d *data) error {
		st, ok := d.states[stateKey{userID, cardID}]
		if !ok {
			return store.ErrLearningStateNotFound
		}
		out = st.Clone()
		return nil
	})
	return out, err
}

// Insert implements store.ProgressStore.Insert
func (s *ProgressStore) Insert(ctx context.Context, state *domain.LearningState) (*domain.LearningState, error) {
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var out *domain.LearningState
	err := s.db.write(ctx, s.inTx, func(d *data) error {
		key := stateKey{state.UserID, state.CardID}
		if existing, ok := d.states[key]; ok {
			out = existing.Clone()
			return nil
		}
		if _, ok := d.cards[state.CardID]; !ok {
			return fmt.Errorf("%w: %s", store.ErrCardNotFound, state.CardID)
		}
		d.states[key] = state.Clone()
		out = state.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InsertMany implements store.ProgressStore.InsertMany
func (s *ProgressStore) InsertMany(ctx context.Context, states []*domain.LearningState) (int, error) {
	for _, st := range states {
		if err := st.Validate(); err != nil {
			return 0, fmt.Errorf("%w: card %s: %w", store.ErrInvalidEntity, st.CardID, err)
		}
	}

	created := 0
	err := s.db.write(ctx, s.inTx, func(d *data) error {
		for _, st := range states {
			if _, ok := d.cards[st.CardID]; !ok {
				return fmt.Errorf("%w: %s", store.ErrCardNotFound, st.CardID)
			}
		}
		for _, st := range states {
			key := stateKey{st.UserID, st.CardID}
			if _, ok := d.states[key]; ok {
				continue
			}
			d.states[key] = st.Clone()
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// Update implements store.ProgressStore.Update
func (s *ProgressStore) Update(ctx context.Context, state *domain.LearningState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	return s.db.write(ctx, s.inTx, func(d *data) error {
		key := stateKey{state.UserID, state.CardID}
		current, ok := d.states[key]
		if !ok {
			return store.ErrLearningStateNotFound
		}
		if current.Version != state.Version {
			return store.ErrStaleLearningState
		}

		next := state.Clone()
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.Version = current.Version + 1
		d.states[key] = next
		state.Version = next.Version
		return nil
	})
}

// ListDue implements store.ProgressStore.ListDue
func (s *ProgressStore) ListDue(ctx context.Context, q store.DueQuery) ([]domain.DueCard, error) {
	today := domain.StartOfDay(q.Today)
	due := []domain.DueCard{}

	err := s.db.read(ctx, s.inTx, func(d *data) error {
		for key, st := range d.states {
			if key.userID != q.UserID || st.NextReviewDate.After(today) {
				continue
			}
			if q.DeckID != nil && st.DeckID != *q.DeckID {
				continue
			}
			rec, ok := d.cards[st.CardID]
			if !ok {
				continue
			}
			due = append(due, domain.DueCard{Card: rec.card, State: *st.Clone()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(due, func(i, j int) bool {
		a, b := due[i].State, due[j].State
		if !a.NextReviewDate.Equal(b.NextReviewDate) {
			return a.NextReviewDate.Before(b.NextReviewDate)
		}
		if a.Interval != b.Interval {
			return a.Interval < b.Interval
		}
		return bytes.Compare(a.CardID[:], b.CardID[:]) < 0
	})

	if q.Limit > 0 && uint64(len(due)) > q.Limit {
		due = due[:q.Limit]
	}
	return due, nil
}

// DeckStats implements store.ProgressStore.DeckStats
func (s *ProgressStore) DeckStats(
	ctx context.Context,
	userID, deckID uuid.UUID,
	today time.Time,
) (*domain.DeckStats, error) {
	day := domain.StartOfDay(today)
	var stats domain.DeckStats

	err := s.db.read(ctx, s.inTx, func(d *data) error {
		var easeSum float64
		for cardID, rec := range d.cards {
			if rec.card.DeckID != deckID {
				continue
			}
			stats.TotalCards++

			st, ok := d.states[stateKey{userID, cardID}]
			if !ok {
				continue
			}
			stats.LearnedCards++
			if !st.NextReviewDate.After(day) {
				stats.DueCards++
			}
			easeSum += st.EaseFactor
			stats.TotalReviews += st.TotalReviews
			stats.CorrectReviews += st.CorrectReviews
		}
		if stats.LearnedCards > 0 {
			stats.AvgEaseFactor = round2(easeSum / float64(stats.LearnedCards))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// UserTotals implements store.ProgressStore.UserTotals
func (s *ProgressStore) UserTotals(ctx context.Context, userID uuid.UUID) (*domain.UserTotals, error) {
	var totals domain.UserTotals

	err := s.db.read(ctx, s.inTx, func(d *data) error {
		decks := make(map[uuid.UUID]struct{})
		for key, st := range d.states {
			if key.userID != userID {
				continue
			}
			decks[st.DeckID] = struct{}{}
			totals.TotalCards++
			totals.TotalReviews += st.TotalReviews
			totals.CorrectReviews += st.CorrectReviews
		}
		totals.TotalDecks = len(decks)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
