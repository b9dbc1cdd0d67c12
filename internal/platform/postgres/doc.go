// Package postgres provides the SQL implementation of the store interfaces
// together with the embedded goose migrations that own the schema.
//
// Queries use PostgreSQL-style $N placeholders in ascending order of first
// use and only portable SQL, so the same store runs on PostgreSQL (through
// pgx or lib/pq) and on SQLite (through go-sqlite3), which is what the unit
// tests use.
package postgres
