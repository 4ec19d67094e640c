package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/tareaspendientes/tareas-api/internal/store"
)

// Stores bundles the PostgreSQL stores bound to the connection pool.
type Stores struct {
	PeriodicTasks *PostgresPeriodicTaskStore
	Tasks         *PostgresTaskStore
	History       *PostgresHistoryStore
	Users         *PostgresUserStore
	Categories    *PostgresCategoryStore
	Transactor    *Transactor
}

// NewStores creates every store on db.
func NewStores(db *sql.DB, logger *slog.Logger) *Stores {
	return &Stores{
		PeriodicTasks: NewPostgresPeriodicTaskStore(db, logger),
		Tasks:         NewPostgresTaskStore(db, logger),
		History:       NewPostgresHistoryStore(db, logger),
		Users:         NewPostgresUserStore(db, logger),
		Categories:    NewPostgresCategoryStore(db, logger),
		Transactor:    NewTransactor(db, logger),
	}
}

// Transactor implements store.Transactor on a PostgreSQL connection pool.
type Transactor struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTransactor creates a Transactor on db.
func NewTransactor(db *sql.DB, logger *slog.Logger) *Transactor {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transactor{db: db, logger: logger}
}

var _ store.Transactor = (*Transactor)(nil)

// WithinTx runs fn with stores bound to a single transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn store.TxStoresFn) error {
	return store.RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, TxStores(tx, t.logger))
	})
}

// TxStores returns the stores bound to tx.
func TxStores(tx *sql.Tx, logger *slog.Logger) store.TxStores {
	return store.TxStores{
		PeriodicTasks: NewPostgresPeriodicTaskStore(tx, logger),
		Tasks:         NewPostgresTaskStore(tx, logger),
		History:       NewPostgresHistoryStore(tx, logger),
		Users:         NewPostgresUserStore(tx, logger),
		Categories:    NewPostgresCategoryStore(tx, logger),
	}
}
