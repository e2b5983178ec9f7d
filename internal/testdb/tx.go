//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// WithTx runs fn inside a transaction that is always rolled back, so tests
// can share one database and still run in parallel.
func WithTx(t *testing.T, db *sqlx.DB, fn func(t *testing.T, tx *sqlx.Tx)) {
	t.Helper()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err, "begin test transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// SeedDeck inserts a deck with the given number of cards and returns the
// deck ID and the card IDs in insertion order.
func SeedDeck(t *testing.T, tx *sqlx.Tx, title string, cards int) (deckID string, cardIDs []string) {
	t.Helper()
	ctx := context.Background()

	err := tx.GetContext(ctx, &deckID,
		`INSERT INTO decks (id, title) VALUES (gen_random_uuid(), $1) RETURNING id`, title)
	require.NoError(t, err, "insert deck")

	for i := 0; i < cards; i++ {
		var id string
		err := tx.GetContext(ctx, &id, `
			INSERT INTO cards (id, deck_id, question, answer, created_at)
			VALUES (gen_random_uuid(), $1, $2, $3, NOW() + make_interval(secs => $4))
			RETURNING id`,
			deckID, title+" question", title+" answer", i)
		require.NoError(t, err, "insert card %d", i)
		cardIDs = append(cardIDs, id)
	}
	return deckID, cardIDs
}
