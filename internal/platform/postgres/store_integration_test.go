//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/platform/postgres"
	"github.com/banki/banki-srs/internal/store"
	"github.com/banki/banki-srs/internal/testdb"
)

func TestProgressStore_Integration(t *testing.T) {
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sqlx.Tx) {
		ctx := context.Background()
		stores := postgres.NewStores(tx, nil)

		deck, cards := testdb.SeedDeck(t, tx, "Kanji N5", 3)
		deckID := uuid.MustParse(deck)
		userID := uuid.New()
		now := time.Now().UTC()

		ids, err := stores.Decks.CardIDs(ctx, deckID)
		require.NoError(t, err)
		require.Len(t, ids, 3)
		assert.Equal(t, uuid.MustParse(cards[0]), ids[0])

		states := make([]*domain.LearningState, 0, len(ids))
		for _, id := range ids {
			s, err := domain.NewLearningState(userID, id, deckID, now)
			require.NoError(t, err)
			states = append(states, s)
		}

		created, err := stores.Progress.InsertMany(ctx, states)
		require.NoError(t, err)
		assert.Equal(t, 3, created)

		created, err = stores.Progress.InsertMany(ctx, states)
		require.NoError(t, err)
		assert.Zero(t, created, "second initialization must not create rows")

		due, err := stores.Progress.ListDue(ctx, store.DueQuery{UserID: userID, DeckID: &deckID, Today: now})
		require.NoError(t, err)
		require.Len(t, due, 3)
		assert.Equal(t, "Kanji N5", due[0].Card.DeckTitle)

		state, err := stores.Progress.Get(ctx, userID, ids[0])
		require.NoError(t, err)
		stale := state.Clone()

		state.Interval = 1
		state.Repetitions = 1
		state.TotalReviews = 1
		state.CorrectReviews = 1
		state.NextReviewDate = domain.StartOfDay(now).AddDate(0, 0, 1)
		state.LastReviewed = &now
		require.NoError(t, stores.Progress.Update(ctx, state))
		assert.Equal(t, int64(2), state.Version)

		err = stores.Progress.Update(ctx, stale)
		assert.ErrorIs(t, err, store.ErrStaleLearningState)

		due, err = stores.Progress.ListDue(ctx, store.DueQuery{UserID: userID, Today: now})
		require.NoError(t, err)
		assert.Len(t, due, 2)

		stats, err := stores.Progress.DeckStats(ctx, userID, deckID, now)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalCards)
		assert.Equal(t, 2, stats.DueCards)
		assert.Equal(t, 1, stats.TotalReviews)
	})
}

func TestReviewStore_Integration(t *testing.T) {
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sqlx.Tx) {
		ctx := context.Background()
		stores := postgres.NewStores(tx, nil)

		deck, cards := testdb.SeedDeck(t, tx, "Verbs", 1)
		userID := uuid.New()
		day := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

		for i, q := range []int{5, 2, 4} {
			require.NoError(t, stores.Reviews.Append(ctx, &domain.ReviewEvent{
				ID:                 uuid.New(),
				UserID:             userID,
				CardID:             uuid.MustParse(cards[0]),
				DeckID:             uuid.MustParse(deck),
				Quality:            q,
				ReviewDuration:     1000,
				PreviousEaseFactor: 2.5,
				ReviewedAt:         day.AddDate(0, 0, -i),
			}))
		}

		history, err := stores.Reviews.ListByUser(ctx, userID, 2)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, 5, history[0].Quality)

		daily, err := stores.Reviews.DailyStats(ctx, userID, day.AddDate(0, 0, -30))
		require.NoError(t, err)
		assert.Len(t, daily, 3)

		days, err := stores.Reviews.ReviewDays(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, domain.CurrentStreak(days))
	})
}

func TestUnitOfWork_ConcurrentInitialization_Integration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	var deck string
	var cards []string
	func() {
		tx, err := db.BeginTxx(ctx, nil)
		require.NoError(t, err)
		deck, cards = testdb.SeedDeck(t, tx, "Concurrent", 1)
		require.NoError(t, tx.Commit())
	}()
	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, deck)
	})

	uow := postgres.NewUnitOfWork(db, nil)
	userID := uuid.New()
	cardID := uuid.MustParse(cards[0])
	deckID := uuid.MustParse(deck)

	var wg sync.WaitGroup
	results := make([]*domain.LearningState, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := uow.RunInTransaction(ctx, func(ctx context.Context, s store.Stores) error {
				fresh, err := domain.NewLearningState(userID, cardID, deckID, time.Now())
				if err != nil {
					return err
				}
				results[i], err = s.Progress.Insert(ctx, fresh)
				return err
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, results[0].ID, r.ID, "all callers must observe the same row")
	}
}
