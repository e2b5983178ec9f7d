package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/platform/logger"
	"github.com/banki/banki-srs/internal/store"
)

// PostgresDeckReader implements the store.DeckReader interface over the
// cards table.
type PostgresDeckReader struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckReader creates a new PostgreSQL implementation of the DeckReader interface.
func NewPostgresDeckReader(db store.DBTX, logger *slog.Logger) *PostgresDeckReader {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckReader{
		db:     db,
		logger: logger.With(slog.String("component", "deck_reader")),
	}
}

var _ store.DeckReader = (*PostgresDeckReader)(nil)

// CardIDs implements store.DeckReader.CardIDs
func (r *PostgresDeckReader) CardIDs(ctx context.Context, deckID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM cards WHERE deck_id = $1 ORDER BY created_at, id`, deckID)
	if err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("failed to list deck cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, wrapError("card", "list_deck", err)
	}
	return ids, nil
}
