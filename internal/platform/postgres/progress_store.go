package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/platform/logger"
	"github.com/banki/banki-srs/internal/store"
)

const learningStateColumns = `id, user_id, card_id, deck_id, interval_days, repetitions, ease_factor,
	next_review_date, last_reviewed, total_reviews, correct_reviews, version, created_at, updated_at`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.LearningState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + learningStateColumns + `
		FROM learning_states
		WHERE user_id = $1 AND card_id = $2`

	var state domain.LearningState
	if err := s.db.GetContext(ctx, &state, query, userID, cardID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learning state not found",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, store.ErrLearningStateNotFound
		}
		log.Error("failed to get learning state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, wrapError("learning_state", "get", err)
	}

	state.NextReviewDate = domain.StartOfDay(state.NextReviewDate)
	return &state, nil
}

// Insert implements store.ProgressStore.Insert
// ON CONFLICT DO NOTHING makes a concurrent insert for the same pair wait
// for the winner and then skip; the follow-up read observes the winner's row.
func (s *PostgresProgressStore) Insert(
	ctx context.Context,
	state *domain.LearningState,
) (*domain.LearningState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("learning state validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("card_id", state.CardID.String()))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO learning_states (` + learningStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, card_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query,
		state.ID,
		state.UserID,
		state.CardID,
		state.DeckID,
		state.Interval,
		state.Repetitions,
		state.EaseFactor,
		state.NextReviewDate,
		state.LastReviewed,
		state.TotalReviews,
		state.CorrectReviews,
		state.Version,
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("learning state references unknown card or deck",
				slog.String("card_id", state.CardID.String()),
				slog.String("deck_id", state.DeckID.String()))
			return nil, fmt.Errorf("%w: %s", store.ErrCardNotFound, state.CardID)
		}
		log.Error("failed to insert learning state",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("card_id", state.CardID.String()))
		return nil, wrapError("learning_state", "insert", err)
	}

	if n, err := rowsAffected(result); err == nil && n == 1 {
		log.Debug("learning state created",
			slog.String("user_id", state.UserID.String()),
			slog.String("card_id", state.CardID.String()))
	}

	return s.Get(ctx, state.UserID, state.CardID)
}

// InsertMany implements store.ProgressStore.InsertMany
func (s *PostgresProgressStore) InsertMany(
	ctx context.Context,
	states []*domain.LearningState,
) (int, error) {
	if len(states) == 0 {
		return 0, nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	builder := psql.Insert("learning_states").
		Columns(
			"id", "user_id", "card_id", "deck_id", "interval_days", "repetitions",
			"ease_factor", "next_review_date", "total_reviews", "correct_reviews",
			"version", "created_at", "updated_at",
		).
		Suffix("ON CONFLICT (user_id, card_id) DO NOTHING")

	for _, st := range states {
		if err := st.Validate(); err != nil {
			return 0, fmt.Errorf("%w: card %s: %w", store.ErrInvalidEntity, st.CardID, err)
		}
		builder = builder.Values(
			st.ID, st.UserID, st.CardID, st.DeckID, st.Interval, st.Repetitions,
			st.EaseFactor, st.NextReviewDate, st.TotalReviews, st.CorrectReviews,
			st.Version, st.CreatedAt, st.UpdatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build SQL query (states: %d): %w", len(states), err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert learning states",
			slog.String("error", err.Error()),
			slog.Int("count", len(states)))
		return 0, wrapError("learning_state", "insert_many", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return 0, err
	}

	log.Debug("learning states inserted",
		slog.Int("requested", len(states)),
		slog.Int64("created", n))
	return int(n), nil
}

// Update implements store.ProgressStore.Update
func (s *PostgresProgressStore) Update(ctx context.Context, state *domain.LearningState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("learning state validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", state.CardID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE learning_states
		SET interval_days = $1,
			repetitions = $2,
			ease_factor = $3,
			next_review_date = $4,
			last_reviewed = $5,
			total_reviews = $6,
			correct_reviews = $7,
			updated_at = $8,
			version = version + 1
		WHERE user_id = $9 AND card_id = $10 AND version = $11`

	result, err := s.db.ExecContext(ctx, query,
		state.Interval,
		state.Repetitions,
		state.EaseFactor,
		state.NextReviewDate,
		state.LastReviewed,
		state.TotalReviews,
		state.CorrectReviews,
		state.UpdatedAt,
		state.UserID,
		state.CardID,
		state.Version,
	)
	if err != nil {
		log.Error("failed to update learning state",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("card_id", state.CardID.String()))
		return wrapError("learning_state", "update", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}

	if n == 0 {
		// Tell a vanished row apart from a lost race.
		var current int64
		err := s.db.GetContext(ctx, &current,
			`SELECT version FROM learning_states WHERE user_id = $1 AND card_id = $2`,
			state.UserID, state.CardID)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrLearningStateNotFound
		}
		if err != nil {
			return wrapError("learning_state", "update", err)
		}

		log.Debug("learning state version mismatch",
			slog.String("card_id", state.CardID.String()),
			slog.Int64("expected_version", state.Version),
			slog.Int64("current_version", current))
		return store.ErrStaleLearningState
	}

	state.Version++
	return nil
}

// dueRow is the flat row shape of the due-cards join.
type dueRow struct {
	domain.LearningState
	Question  string `db:"question"`
	Answer    string `db:"answer"`
	DeckTitle string `db:"deck_title"`
}

// ListDue implements store.ProgressStore.ListDue
func (s *PostgresProgressStore) ListDue(ctx context.Context, q store.DueQuery) ([]domain.DueCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	builder := psql.Select(
		"ls.id", "ls.user_id", "ls.card_id", "ls.deck_id", "ls.interval_days", "ls.repetitions",
		"ls.ease_factor", "ls.next_review_date", "ls.last_reviewed", "ls.total_reviews",
		"ls.correct_reviews", "ls.version", "ls.created_at", "ls.updated_at",
		"c.question", "c.answer", "d.title AS deck_title",
	).
		From("learning_states ls").
		Join("cards c ON c.id = ls.card_id").
		Join("decks d ON d.id = ls.deck_id").
		Where("ls.user_id = ?", q.UserID).
		Where("ls.next_review_date <= ?::date", domain.StartOfDay(q.Today)).
		OrderBy("ls.next_review_date ASC", "ls.interval_days ASC", "ls.card_id ASC")

	if q.DeckID != nil {
		builder = builder.Where("ls.deck_id = ?", *q.DeckID)
	}
	if q.Limit > 0 {
		builder = builder.Limit(q.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (user_id: %s): %w", q.UserID, err)
	}

	var rows []dueRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", q.UserID.String()))
		return nil, wrapError("learning_state", "list_due", err)
	}

	due := make([]domain.DueCard, 0, len(rows))
	for _, r := range rows {
		r.NextReviewDate = domain.StartOfDay(r.NextReviewDate)
		due = append(due, domain.DueCard{
			Card: domain.Card{
				ID:        r.CardID,
				DeckID:    r.DeckID,
				Question:  r.Question,
				Answer:    r.Answer,
				DeckTitle: r.DeckTitle,
			},
			State: r.LearningState,
		})
	}

	log.Debug("due cards listed",
		slog.String("user_id", q.UserID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

// DeckStats implements store.ProgressStore.DeckStats
func (s *PostgresProgressStore) DeckStats(
	ctx context.Context,
	userID, deckID uuid.UUID,
	today time.Time,
) (*domain.DeckStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*) AS total_cards,
			COUNT(ls.id) AS learned_cards,
			COALESCE(SUM(CASE WHEN ls.next_review_date <= $3::date THEN 1 ELSE 0 END), 0) AS due_cards,
			COALESCE(ROUND(AVG(ls.ease_factor), 2), 0) AS avg_ease_factor,
			COALESCE(SUM(ls.total_reviews), 0) AS total_reviews,
			COALESCE(SUM(ls.correct_reviews), 0) AS correct_reviews
		FROM cards c
		LEFT JOIN learning_states ls ON ls.card_id = c.id AND ls.user_id = $1
		WHERE c.deck_id = $2`

	var stats domain.DeckStats
	if err := s.db.GetContext(ctx, &stats, query, userID, deckID, domain.StartOfDay(today)); err != nil {
		log.Error("failed to compute deck stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, wrapError("learning_state", "deck_stats", err)
	}

	return &stats, nil
}

// UserTotals implements store.ProgressStore.UserTotals
func (s *PostgresProgressStore) UserTotals(ctx context.Context, userID uuid.UUID) (*domain.UserTotals, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(DISTINCT deck_id) AS total_decks,
			COUNT(DISTINCT card_id) AS total_cards,
			COALESCE(SUM(total_reviews), 0) AS total_reviews,
			COALESCE(SUM(correct_reviews), 0) AS correct_reviews
		FROM learning_states
		WHERE user_id = $1`

	var totals domain.UserTotals
	if err := s.db.GetContext(ctx, &totals, query, userID); err != nil {
		log.Error("failed to compute user totals",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, wrapError("learning_state", "user_totals", err)
	}

	return &totals, nil
}
