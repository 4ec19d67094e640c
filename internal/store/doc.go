// Package store defines the persistence contracts of the chore board.
// Implementations live under internal/platform (PostgreSQL and SQLite); business
// code depends only on these interfaces and on Transactor for atomic units.
package store
