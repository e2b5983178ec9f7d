package mocks

import (
	"context"

	"github.com/banki/banki-srs/internal/store"
)

// MockUnitOfWork implements store.UnitOfWork. Without RunInTransactionFn it
// calls fn with Stores directly and counts the calls.
type MockUnitOfWork struct {
	Stores             store.Stores
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	Calls int
}

var _ store.UnitOfWork = (*MockUnitOfWork)(nil)

// RunInTransaction implements store.UnitOfWork
func (m *MockUnitOfWork) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, m.Stores)
}
