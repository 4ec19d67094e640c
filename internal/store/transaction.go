package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// It receives the context and a transaction, and returns an error if the operation fails.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// The function handles rollbacks in case of panic and logs appropriate information.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return NewStoreError("transaction", "begin", "failed to begin transaction",
			fmt.Errorf("%w: %w", ErrTransactionFailed, err))
	}

	defer func() {
		if p := recover(); p != nil {
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	err = fn(ctx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	err = tx.Commit()
	if err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return NewStoreError("transaction", "commit", "failed to commit transaction",
			fmt.Errorf("%w: %w", ErrTransactionFailed, err))
	}

	return nil
}

// TxStores bundles the stores bound to a single transaction.
type TxStores struct {
	PeriodicTasks PeriodicTaskStore
	Tasks         TaskStore
	History       HistoryStore
	Users         UserStore
	Categories    CategoryStore
}

// TxStoresFn is the body of an atomic unit of work.
type TxStoresFn func(ctx context.Context, s TxStores) error

// Transactor runs units of work atomically against a storage backend.
// Writes made through the TxStores passed to fn are committed only if fn
// returns nil.
type Transactor interface {
	WithinTx(ctx context.Context, fn TxStoresFn) error
}
