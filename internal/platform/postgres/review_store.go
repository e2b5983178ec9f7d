package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/platform/logger"
	"github.com/banki/banki-srs/internal/store"
)

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the ReviewStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// Append implements store.ReviewStore.Append
func (s *PostgresReviewStore) Append(ctx context.Context, event *domain.ReviewEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		log.Warn("review event validation failed",
			slog.String("error", err.Error()),
			slog.String("card_id", event.CardID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO reviews (
			id, user_id, card_id, deck_id, quality, review_duration,
			previous_interval, previous_ease_factor, previous_repetitions, reviewed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.CardID,
		event.DeckID,
		event.Quality,
		event.ReviewDuration,
		event.PreviousInterval,
		event.PreviousEaseFactor,
		event.PreviousRepetitions,
		event.ReviewedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", store.ErrCardNotFound, event.CardID)
		}
		log.Error("failed to append review",
			slog.String("error", err.Error()),
			slog.String("user_id", event.UserID.String()),
			slog.String("card_id", event.CardID.String()))
		return wrapError("review", "append", err)
	}

	log.Debug("review appended",
		slog.String("review_id", event.ID.String()),
		slog.String("card_id", event.CardID.String()),
		slog.Int("quality", event.Quality))
	return nil
}

// ListByUser implements store.ReviewStore.ListByUser
func (s *PostgresReviewStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.ReviewEvent, error) {
	builder := psql.Select(
		"id", "user_id", "card_id", "deck_id", "quality", "review_duration",
		"previous_interval", "previous_ease_factor", "previous_repetitions", "reviewed_at",
	).
		From("reviews").
		Where("user_id = ?", userID).
		OrderBy("reviewed_at DESC", "id DESC")

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (user_id: %s): %w", userID, err)
	}

	events := []domain.ReviewEvent{}
	if err := s.db.SelectContext(ctx, &events, query, args...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, wrapError("review", "list", err)
	}

	return events, nil
}

// DailyStats implements store.ReviewStore.DailyStats
func (s *PostgresReviewStore) DailyStats(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.DailyReviewStats, error) {
	query := `
		SELECT
			(reviewed_at AT TIME ZONE 'UTC')::date AS review_date,
			COUNT(*) AS total_reviews,
			SUM(CASE WHEN quality >= $3 THEN 1 ELSE 0 END) AS correct_reviews,
			ROUND(AVG(quality), 2) AS avg_quality,
			ROUND(AVG(review_duration), 2) AS avg_review_duration
		FROM reviews
		WHERE user_id = $1 AND reviewed_at >= $2
		GROUP BY review_date
		ORDER BY review_date DESC`

	stats := []domain.DailyReviewStats{}
	if err := s.db.SelectContext(ctx, &stats, query, userID, since.UTC(), domain.QualityPass); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to compute daily review stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, wrapError("review", "daily_stats", err)
	}

	for i := range stats {
		stats[i].Date = domain.StartOfDay(stats[i].Date)
	}
	return stats, nil
}

// ReviewDays implements store.ReviewStore.ReviewDays
func (s *PostgresReviewStore) ReviewDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	query := `
		SELECT DISTINCT (reviewed_at AT TIME ZONE 'UTC')::date AS review_date
		FROM reviews
		WHERE user_id = $1
		ORDER BY review_date DESC`

	days := []time.Time{}
	if err := s.db.SelectContext(ctx, &days, query, userID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list review days",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, wrapError("review", "review_days", err)
	}

	for i := range days {
		days[i] = domain.StartOfDay(days[i])
	}
	return days, nil
}
