package mocks

import (
	"context"
	"sync"

	"github.com/tareaspendientes/tareas-api/internal/store"
)

// TxStores holds the mocks handed to transaction bodies.
type TxStores struct {
	PeriodicTasks *PeriodicTaskStore
	Tasks         *TaskStore
	History       *HistoryStore
	Users         *UserStore
	Categories    *CategoryStore
}

// Transactor runs transaction bodies directly against mock stores. Nil
// stores are replaced with empty mocks.
type Transactor struct {
	stores TxStores

	// BeginErr, when set, is returned without running the body.
	BeginErr error

	mu    sync.Mutex
	calls int
}

var _ store.Transactor = (*Transactor)(nil)

// NewTransactor creates a Transactor over stores.
func NewTransactor(stores TxStores) *Transactor {
	if stores.PeriodicTasks == nil {
		stores.PeriodicTasks = new(PeriodicTaskStore)
	}
	if stores.Tasks == nil {
		stores.Tasks = new(TaskStore)
	}
	if stores.History == nil {
		stores.History = new(HistoryStore)
	}
	if stores.Users == nil {
		stores.Users = new(UserStore)
	}
	if stores.Categories == nil {
		stores.Categories = new(CategoryStore)
	}
	return &Transactor{stores: stores}
}

// Stores returns the mocks used inside transactions.
func (t *Transactor) Stores() TxStores {
	return t.stores
}

// Calls returns how many transactions were started.
func (t *Transactor) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// WithinTx implements store.Transactor.
func (t *Transactor) WithinTx(ctx context.Context, fn store.TxStoresFn) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()

	if t.BeginErr != nil {
		return t.BeginErr
	}
	return fn(ctx, store.TxStores{
		PeriodicTasks: t.stores.PeriodicTasks,
		Tasks:         t.stores.Tasks,
		History:       t.stores.History,
		Users:         t.stores.Users,
		Categories:    t.stores.Categories,
	})
}
