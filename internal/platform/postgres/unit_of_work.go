package postgres

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/banki/banki-srs/internal/store"
)

// NewStores binds every PostgreSQL store to db, which may be the pool or a
// transaction.
func NewStores(db store.DBTX, logger *slog.Logger) store.Stores {
	return store.Stores{
		Progress: NewPostgresProgressStore(db, logger),
		Reviews:  NewPostgresReviewStore(db, logger),
		Decks:    NewPostgresDeckReader(db, logger),
	}
}

// UnitOfWork implements store.UnitOfWork with a database transaction per call.
type UnitOfWork struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ store.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a UnitOfWork over db.
func NewUnitOfWork(db *sqlx.DB, logger *slog.Logger) *UnitOfWork {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitOfWork{db: db, logger: logger}
}

// RunInTransaction implements store.UnitOfWork.RunInTransaction
func (u *UnitOfWork) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return store.RunInTransaction(ctx, u.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, NewStores(tx, u.logger))
	})
}
