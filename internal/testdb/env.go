//go:build integration

package testdb

import "os"

// Database URL variables, in lookup order.
const (
	EnvTestDatabaseURL = "BANKI_TEST_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// DatabaseURL returns the first configured test database URL, or "".
func DatabaseURL() string {
	for _, name := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no database is configured.
func ShouldSkipDatabaseTest() bool {
	return DatabaseURL() == ""
}
