//go:build integration

package testdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/banki/banki-srs/internal/config"
	"github.com/banki/banki-srs/internal/platform/postgres"
	"github.com/banki/banki-srs/internal/redact"
)

// TestTimeout bounds connection and migration work during setup.
const TestTimeout = 30 * time.Second

var migrateOnce struct {
	sync.Once
	err error
}

// Open connects to the test database, migrating it on first use, and closes
// the pool when the test finishes. The test is skipped if no URL is set.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	url := DatabaseURL()
	if url == "" {
		t.Skipf("skipping database test: set %s or %s", EnvTestDatabaseURL, EnvDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		URL:          url,
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	}, nil)
	require.NoError(t, err, "connect to %s", redact.String(url))
	t.Cleanup(func() { _ = db.Close() })

	migrateOnce.Do(func() {
		migrateOnce.err = postgres.Migrate(ctx, db.DB, postgres.MigrateUp, nil)
	})
	require.NoError(t, migrateOnce.err, "apply migrations")

	return db
}
