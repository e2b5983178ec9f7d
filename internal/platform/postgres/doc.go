// Package postgres implements the store interfaces on PostgreSQL through
// sqlx and the pgx stdlib driver. Queries are built with squirrel, driver
// errors are mapped to the store sentinels, and the schema is managed by
// embedded goose migrations.
package postgres
