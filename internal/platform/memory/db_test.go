package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/store"
)

var testNow = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

// seedDeck creates a deck with n cards and returns its ID and card IDs.
func seedDeck(t *testing.T, db *DB, title string, n int) (uuid.UUID, []uuid.UUID) {
	t.Helper()
	deckID := uuid.New()
	db.AddDeck(deckID, title)

	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		id := uuid.New()
		require.NoError(t, db.AddCard(domain.Card{ID: id, DeckID: deckID, Question: "q", Answer: "a"}))
		ids = append(ids, id)
	}
	return deckID, ids
}

func newState(t *testing.T, userID, cardID, deckID uuid.UUID) *domain.LearningState {
	t.Helper()
	s, err := domain.NewLearningState(userID, cardID, deckID, testNow)
	require.NoError(t, err)
	return s
}

func TestAddCard_UnknownDeck(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)

	err := db.AddCard(domain.Card{ID: uuid.New(), DeckID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeckReader_CardIDsInInsertionOrder(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)
	deckID, ids := seedDeck(t, db, "Hiragana", 5)
	seedDeck(t, db, "Other", 2)

	got, err := db.Stores().Decks.CardIDs(context.Background(), deckID)
	require.NoError(t, err)
	assert.Equal(t, ids, got)

	empty, err := db.Stores().Decks.CardIDs(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProgressStore_InsertIsIdempotent(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)
	ctx := context.Background()
	deckID, cards := seedDeck(t, db, "Kanji", 1)
	userID := uuid.New()
	progress := db.Stores().Progress

	first, err := progress.Insert(ctx, newState(t, userID, cards[0], deckID))
	require.NoError(t, err)

	// Advance the stored state, then initialize again.
	first.Interval, first.Repetitions, first.TotalReviews, first.CorrectReviews = 6, 2, 2, 2
	require.NoError(t, progress.Update(ctx, first))

	again, err := progress.Insert(ctx, newState(t, userID, cards[0], deckID))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 6, again.Interval)
	assert.Equal(t, int64(2), again.Version)
}

func TestProgressStore_InsertUnknownCard(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)

	_, err := db.Stores().Progress.Insert(context.Background(), newState(t, uuid.New(), uuid.New(), uuid.New()))
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestProgressStore_ConcurrentInsertYieldsOneRow(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)
	ctx := context.Background()
	deckID, cards := seedDeck(t, db, "Race", 1)
	userID := uuid.New()

	const callers = 16
	results := make([]*domain.LearningState, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := db.Stores().Progress.Insert(ctx, newState(t, userID, cards[0], deckID))
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, results[0].ID, r.ID)
	}
	totals, err := db.Stores().Progress.UserTotals(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, totals.TotalCards)
}

func TestProgressStore_InsertMany(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)
	ctx := context.Background()
	deckID, cards := seedDeck(t, db, "Deck", 3)
	userID := uuid.New()
	progress := db.Stores().Progress

	_, err := progress.Insert(ctx, newState(t, userID, cards[1], deckID))
	require.NoError(t, err)

	states := make([]*domain.LearningState, 0, len(cards))
	for _, c := range cards {
		states = append(states, newState(t, userID, c, deckID))
	}

	n, err := progress.InsertMany(ctx, states)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = progress.InsertMany(ctx, states)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProgressStore_UpdateVersionCheck(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)
	ctx := context.Background()
	deckID, cards := seedDeck(t, db, "Deck", 1)
	userID := uuid.New()
	progress := db.Stores().Progress

	stored, err := progress.Insert(ctx, newState(t, userID, cards[0], deckID))
	require.NoError(t, err)
	stale := stored.Clone()

	stored.Interval, stored.Repetitions, stored.TotalReviews, stored.CorrectReviews = 1, 1, 1, 1
	require.NoError(t, progress.Update(ctx, stored))
	assert.Equal(t, int64(2), stored.Version)

	err = progress.Update(ctx, stale)
	assert.ErrorIs(t, err, store.ErrStaleLearningState)
	assert.ErrorIs(t, err, domain.ErrConflict)

	missing := newState(t, uuid.New(), cards[0], deckID)
	err = progress.Update(ctx, missing)
	assert.ErrorIs(t, err, store.ErrLearningStateNotFound)

	got, err := progress.Get(ctx, userID, cards[0])
	require.NoError(t, err)
	assert.Equal(t, 1, got.Interval)
}

func TestProgressStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)
	ctx := context.Background()
	deckID, cards := seedDeck(t, db, "Deck", 1)
	userID := uuid.New()

	_, err := db.Stores().Progress.Insert(ctx, newState(t, userID, cards[0], deckID))
	require.NoError(t, err)

	got, err := db.Stores().Progress.Get(ctx, userID, cards[0])
	require.NoError(t, err)
	got.Interval = 99

	again, err := db.Stores().Progress.Get(ctx, userID, cards[0])
	require.NoError(t, err)
	assert.Zero(t, again.Interval)
}

func TestProgressStore_ListDueOrdering(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)
	ctx := context.Background()
	deckID, cards := seedDeck(t, db, "Deck", 4)
	otherDeck, otherCards := seedDeck(t, db, "Other", 1)
	userID := uuid.New()
	progress := db.Stores().Progress
	today := domain.StartOfDay(testNow)

	set := func(cardID, deck uuid.UUID, interval int, next time.Time) {
		s := newState(t, userID, cardID, deck)
		s.Interval = interval
		if interval > 0 {
			s.Repetitions, s.TotalReviews, s.CorrectReviews = 1, 1, 1
		}
		s.NextReviewDate = next
		_, err := progress.Insert(ctx, s)
		require.NoError(t, err)
	}

	set(cards[0], deckID, 6, today)
	set(cards[1], deckID, 1, today)
	set(cards[2], deckID, 15, today.AddDate(0, 0, -2))
	set(cards[3], deckID, 1, today.AddDate(0, 0, 1))
	set(otherCards[0], otherDeck, 0, today)

	due, err := progress.ListDue(ctx, store.DueQuery{UserID: userID, DeckID: &deckID, Today: testNow})
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, cards[2], due[0].Card.ID)
	assert.Equal(t, cards[1], due[1].Card.ID)
	assert.Equal(t, cards[0], due[2].Card.ID)
	assert.Equal(t, "Deck", due[0].Card.DeckTitle)

	all, err := progress.ListDue(ctx, store.DueQuery{UserID: userID, Today: testNow, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tomorrow, err := progress.ListDue(ctx, store.DueQuery{UserID: userID, Today: testNow.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Len(t, tomorrow, 5)
}

func TestProgressStore_Stats(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)
	ctx := context.Background()
	deckID, cards := seedDeck(t, db, "Deck", 3)
	userID := uuid.New()
	progress := db.Stores().Progress

	a := newState(t, userID, cards[0], deckID)
	a.Interval, a.Repetitions, a.TotalReviews, a.CorrectReviews = 6, 2, 3, 2
	a.EaseFactor = 2.36
	a.NextReviewDate = domain.StartOfDay(testNow).AddDate(0, 0, 6)
	_, err := progress.Insert(ctx, a)
	require.NoError(t, err)

	b := newState(t, userID, cards[1], deckID)
	_, err = progress.Insert(ctx, b)
	require.NoError(t, err)

	stats, err := progress.DeckStats(ctx, userID, deckID, testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.DeckStats{
		TotalCards:     3,
		LearnedCards:   2,
		DueCards:       1,
		AvgEaseFactor:  2.43,
		TotalReviews:   3,
		CorrectReviews: 2,
	}, *stats)

	totals, err := progress.UserTotals(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserTotals{TotalDecks: 1, TotalCards: 2, TotalReviews: 3, CorrectReviews: 2}, *totals)
}

func TestReviewStore_HistoryAndStats(t *testing.T) {
	t.Parallel()
	db := NewDB(nil)
	ctx := context.Background()
	deckID, cards := seedDeck(t, db, "Deck", 1)
	userID := uuid.New()
	reviews := db.Stores().Reviews

	add := func(q, duration int, at time.Time) {
		require.NoError(t, reviews.Append(ctx, &domain.ReviewEvent{
			ID: uuid.New(), UserID: userID, CardID: cards[0], DeckID: deckID,
			Quality: q, ReviewDuration: duration, PreviousEaseFactor: 2.5, ReviewedAt: at,
		}))
	}

	add(5, 1000, testNow)
	add(2, 3000, testNow.Add(-time.Hour))
	add(4, 2000, testNow.AddDate(0, 0, -1))
	add(3, 1000, testNow.AddDate(0, 0, -5))

	history, err := reviews.ListByUser(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 5, history[0].Quality)
	assert.Equal(t, 2, history[1].Quality)

	daily, err := reviews.DailyStats(ctx, userID, testNow.AddDate(0, 0, -2))
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, domain.DailyReviewStats{
		Date:              domain.StartOfDay(testNow),
		TotalReviews:      2,
		CorrectReviews:    1,
		AvgQuality:        3.5,
		AvgReviewDuration: 2000,
	}, daily[0])

	days, err := reviews.ReviewDays(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, days, 3)
	assert.Equal(t, 2, domain.CurrentStreak(days))

	err = reviews.Append(ctx, &domain.ReviewEvent{ID: uuid.New(), UserID: userID, CardID: cards[0], Quality: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)
}

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	t.Run("commit", func(t *testing.T) {
		t.Parallel()
		db := NewDB(nil)
		ctx := context.Background()
		deckID, cards := seedDeck(t, db, "Deck", 1)
		userID := uuid.New()

		err := db.RunInTransaction(ctx, func(ctx context.Context, s store.Stores) error {
			_, err := s.Progress.Insert(ctx, newState(t, userID, cards[0], deckID))
			return err
		})
		require.NoError(t, err)

		_, err = db.Stores().Progress.Get(ctx, userID, cards[0])
		assert.NoError(t, err)
	})

	t.Run("error rolls back", func(t *testing.T) {
		t.Parallel()
		db := NewDB(nil)
		ctx := context.Background()
		deckID, cards := seedDeck(t, db, "Deck", 1)
		userID := uuid.New()
		boom := errors.New("boom")

		err := db.RunInTransaction(ctx, func(ctx context.Context, s store.Stores) error {
			if _, err := s.Progress.Insert(ctx, newState(t, userID, cards[0], deckID)); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = db.Stores().Progress.Get(ctx, userID, cards[0])
		assert.ErrorIs(t, err, store.ErrLearningStateNotFound)
	})

	t.Run("panic rolls back", func(t *testing.T) {
		t.Parallel()
		db := NewDB(nil)
		ctx := context.Background()
		deckID, cards := seedDeck(t, db, "Deck", 1)
		userID := uuid.New()

		assert.Panics(t, func() {
			_ = db.RunInTransaction(ctx, func(ctx context.Context, s store.Stores) error {
				_, _ = s.Progress.Insert(ctx, newState(t, userID, cards[0], deckID))
				panic("boom")
			})
		})

		_, err := db.Stores().Progress.Get(ctx, userID, cards[0])
		assert.ErrorIs(t, err, store.ErrLearningStateNotFound)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		db := NewDB(nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := db.RunInTransaction(ctx, func(context.Context, store.Stores) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}
