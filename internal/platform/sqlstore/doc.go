// Package sqlstore implements the store interfaces on top of jmoiron/sqlx.
//
// Queries are written once with "?" placeholders and rebound per driver, so the
// same code serves the embedded modernc.org/sqlite database used by default and
// a PostgreSQL server reached through pgx. Schema changes are goose migrations
// embedded per dialect.
package sqlstore
