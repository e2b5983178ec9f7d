package store

import (
	"context"
)

// Stores groups the stores that take part in one unit of work.
type Stores struct {
	Progress ProgressStore
	Reviews  ReviewStore
	Decks    DeckReader
}

// TxFn is a function that executes within a unit of work. The stores it
// receives are bound to that unit and must not be retained after it returns.
type TxFn func(ctx context.Context, stores Stores) error

// UnitOfWork runs a function atomically. Every change made through the
// supplied stores is committed when fn returns nil and discarded when it
// returns an error or panics.
type UnitOfWork interface {
	RunInTransaction(ctx context.Context, fn TxFn) error
}
