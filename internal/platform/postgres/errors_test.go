package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tareaspendientes/tareas-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: sql.ErrNoRows, target: store.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: uniqueViolationCode}, target: store.ErrDuplicate},
		{
			name:   "foreign key violation",
			err:    &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "tasks_category_id_fkey"},
			target: store.ErrInvalidEntity,
		},
		{name: "check violation", err: &pgconn.PgError{Code: checkViolationCode}, target: store.ErrInvalidEntity},
		{name: "not null violation", err: &pgconn.PgError{Code: notNullViolationCode}, target: store.ErrInvalidEntity},
		{
			name:   "wrapped pg error",
			err:    fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode}),
			target: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.target)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("unmapped errors pass through", func(t *testing.T) {
		original := errors.New("connection reset")
		assert.Same(t, original, MapError(original))

		other := &pgconn.PgError{Code: "40001"}
		assert.Equal(t, error(other), MapError(other))
	})
}

func TestViolationHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("unique")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: uniqueViolationCode})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrTaskNotFound))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrTaskNotFound), store.ErrTaskNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)

	resultErr := errors.New("driver does not support RowsAffected")
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewErrorResult(resultErr), nil), resultErr)
	assert.Error(t, CheckRowsAffected(nil, nil))
}
