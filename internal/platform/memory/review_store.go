package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/store"
)

// ReviewStore implements store.ReviewStore over a DB.
type ReviewStore struct {
	db   *DB
	inTx bool
}

var _ store.ReviewStore = (*ReviewStore)(nil)

// Append implements store.ReviewStore.Append
func (s *ReviewStore) Append(ctx context.Context, event *domain.ReviewEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	return s.db.write(ctx, s.inTx, func(d *data) error {
		if _, ok := d.cards[event.CardID]; !ok {
			return fmt.Errorf("%w: %s", store.ErrCardNotFound, event.CardID)
		}
		d.reviews = append(d.reviews, *event)
		return nil
	})
}

// ListByUser implements store.ReviewStore.ListByUser
func (s *ReviewStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ReviewEvent, error) {
	events := []domain.ReviewEvent{}
	err := s.db.read(ctx, s.inTx, func(d *data) error {
		for _, e := range d.reviews {
			if e.UserID == userID {
				events = append(events, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].ReviewedAt.Equal(events[j].ReviewedAt) {
			return events[i].ReviewedAt.After(events[j].ReviewedAt)
		}
		return bytes.Compare(events[i].ID[:], events[j].ID[:]) > 0
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// DailyStats implements store.ReviewStore.DailyStats
func (s *ReviewStore) DailyStats(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.DailyReviewStats, error) {
	type acc struct {
		total, correct, qualitySum, durationSum int
	}
	days := make(map[time.Time]*acc)

	err := s.db.read(ctx, s.inTx, func(d *data) error {
		for _, e := range d.reviews {
			if e.UserID != userID || e.ReviewedAt.Before(since) {
				continue
			}
			day := domain.StartOfDay(e.ReviewedAt)
			a, ok := days[day]
			if !ok {
				a = &acc{}
				days[day] = a
			}
			a.total++
			if e.IsCorrect() {
				a.correct++
			}
			a.qualitySum += e.Quality
			a.durationSum += e.ReviewDuration
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := make([]domain.DailyReviewStats, 0, len(days))
	for day, a := range days {
		stats = append(stats, domain.DailyReviewStats{
			Date:              day,
			TotalReviews:      a.total,
			CorrectReviews:    a.correct,
			AvgQuality:        round2(float64(a.qualitySum) / float64(a.total)),
			AvgReviewDuration: round2(float64(a.durationSum) / float64(a.total)),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date.After(stats[j].Date) })
	return stats, nil
}

// ReviewDays implements store.ReviewStore.ReviewDays
func (s *ReviewStore) ReviewDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	seen := make(map[time.Time]struct{})
	err := s.db.read(ctx, s.inTx, func(d *data) error {
		for _, e := range d.reviews {
			if e.UserID == userID {
				seen[domain.StartOfDay(e.ReviewedAt)] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days, nil
}

// DeckReader implements store.DeckReader over a DB.
type DeckReader struct {
	db   *DB
	inTx bool
}

var _ store.DeckReader = (*DeckReader)(nil)

// CardIDs implements store.DeckReader.CardIDs
func (r *DeckReader) CardIDs(ctx context.Context, deckID uuid.UUID) ([]uuid.UUID, error) {
	var recs []cardRecord
	err := r.db.read(ctx, r.inTx, func(d *data) error {
		for _, rec := range d.cards {
			if rec.card.DeckID == deckID {
				recs = append(recs, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.card.ID)
	}
	return ids, nil
}
