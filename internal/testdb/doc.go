//go:build integration

// Package testdb provides helpers for PostgreSQL integration tests: opening
// the test database from TAREAS_TEST_DATABASE_URL (or DATABASE_URL), applying
// the schema migrations, and running each test inside a transaction that is
// rolled back when the test ends.
package testdb
