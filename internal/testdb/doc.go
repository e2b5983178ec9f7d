// Package testdb opens the PostgreSQL database used by integration tests,
// applies the embedded migrations once per process, and runs each test
// inside a transaction that is rolled back afterwards.
//
// Tests that use it carry the integration build tag and are skipped when
// no database URL is configured:
//
//	func TestSomething(t *testing.T) {
//		db := testdb.Open(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sqlx.Tx) {
//			stores := postgres.NewStores(tx, nil)
//			// ...
//		})
//	}
package testdb
