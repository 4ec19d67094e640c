package sqlite

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/tareaspendientes/tareas-api/internal/store"
)

// Stores bundles the SQLite stores.
type Stores struct {
	PeriodicTasks *PeriodicTaskStore
	Tasks         *TaskStore
	History       *HistoryStore
	Users         *UserStore
	Categories    *CategoryStore
	Transactor    *Transactor
}

// NewStores creates every store on db.
func NewStores(db *gorm.DB, logger *slog.Logger) *Stores {
	return &Stores{
		PeriodicTasks: NewPeriodicTaskStore(db, logger),
		Tasks:         NewTaskStore(db, logger),
		History:       NewHistoryStore(db, logger),
		Users:         NewUserStore(db),
		Categories:    NewCategoryStore(db),
		Transactor:    &Transactor{db: db, logger: logger},
	}
}

// Transactor implements store.Transactor with gorm transactions.
type Transactor struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ store.Transactor = (*Transactor)(nil)

// WithinTx runs fn with stores bound to one gorm transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn store.TxStoresFn) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, store.TxStores{
			PeriodicTasks: NewPeriodicTaskStore(tx, t.logger),
			Tasks:         NewTaskStore(tx, t.logger),
			History:       NewHistoryStore(tx, t.logger),
			Users:         NewUserStore(tx),
			Categories:    NewCategoryStore(tx),
		})
	})
}
