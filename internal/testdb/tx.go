//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tareaspendientes/tareas-api/internal/store"
)

// WithTx runs fn inside a transaction that is always rolled back, so tests
// can write freely without affecting each other.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// InsertUser creates an approved user and returns its ID.
func InsertUser(t *testing.T, db store.DBTX, name, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	var emailArg any
	if email != "" {
		emailArg = email
	}
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO users (id, name, email, is_approved) VALUES ($1, $2, $3, TRUE)`,
		id, name, emailArg)
	require.NoError(t, err, "Failed to insert user")
	return id
}
