package generation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// memStore is an in-memory backend whose transactions are fully serialized,
// like SQLite's single writer. Each transaction works on a staged copy that is
// only published on commit.
type memStore struct {
	txMu sync.Mutex // held for the whole of a transaction
	mu   sync.Mutex // guards the committed state below

	templates map[uuid.UUID]domain.PeriodicTask
	tasks     map[uuid.UUID]domain.Task
	history   []domain.HistoryEntry
	users     map[uuid.UUID]domain.User

	listErr       error
	listBarrier   *sync.WaitGroup
	failCreateFor map[uuid.UUID]error
	// staleReads makes GetByIDForUpdate return the snapshot from the last List
	// call instead of the locked row, so that only the guarded update protects
	// against double generation.
	staleReads bool
	listed     map[uuid.UUID]domain.PeriodicTask
	// onLock runs inside the transaction right after the template is read.
	onLock func(ctx context.Context) error
}

func newMemStore() *memStore {
	return &memStore{
		templates:     map[uuid.UUID]domain.PeriodicTask{},
		tasks:         map[uuid.UUID]domain.Task{},
		users:         map[uuid.UUID]domain.User{},
		failCreateFor: map[uuid.UUID]error{},
		listed:        map[uuid.UUID]domain.PeriodicTask{},
	}
}

func (m *memStore) addTemplate(t *domain.PeriodicTask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = *t
}

func (m *memStore) addUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
}

func (m *memStore) template(id uuid.UUID) domain.PeriodicTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.templates[id]
}

func (m *memStore) tasksFor(templateID uuid.UUID) []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Task
	for _, t := range m.tasks {
		if t.PeriodicTaskID != nil && *t.PeriodicTaskID == templateID {
			out = append(out, t)
		}
	}
	return out
}

func (m *memStore) historyFor(taskID uuid.UUID) []domain.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HistoryEntry
	for _, h := range m.history {
		if h.TaskID == taskID {
			out = append(out, h)
		}
	}
	return out
}

func (m *memStore) taskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// List implements store.PeriodicTaskLister.
func (m *memStore) List(ctx context.Context) ([]*domain.PeriodicTask, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	m.mu.Lock()
	out := make([]*domain.PeriodicTask, 0, len(m.templates))
	for _, t := range m.templates {
		t := t
		out = append(out, &t)
		m.listed[t.ID] = t
	}
	m.mu.Unlock()

	if m.listBarrier != nil {
		m.listBarrier.Done()
		m.listBarrier.Wait()
	}
	return out, nil
}

// WithinTx implements store.Transactor.
func (m *memStore) WithinTx(ctx context.Context, fn store.TxStoresFn) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	tx := &memTx{
		store:     m,
		templates: cloneMap(m.templates),
		tasks:     cloneMap(m.tasks),
	}
	m.mu.Unlock()

	stores := store.TxStores{
		PeriodicTasks: &memTemplates{tx: tx},
		Tasks:         &memTasks{tx: tx},
		History:       &memHistory{tx: tx},
	}
	if err := fn(ctx, stores); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates = tx.templates
	m.tasks = tx.tasks
	m.history = append(m.history, tx.history...)
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type memTx struct {
	store     *memStore
	templates map[uuid.UUID]domain.PeriodicTask
	tasks     map[uuid.UUID]domain.Task
	history   []domain.HistoryEntry
}

// memTemplates implements the parts of store.PeriodicTaskStore the generator uses.
type memTemplates struct {
	store.PeriodicTaskStore
	tx *memTx
}

func (s *memTemplates) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.PeriodicTask, error) {
	t, ok := s.tx.templates[id]
	if s.tx.store.staleReads {
		s.tx.store.mu.Lock()
		t, ok = s.tx.store.listed[id]
		s.tx.store.mu.Unlock()
	}
	if !ok {
		return nil, store.ErrPeriodicTaskNotFound
	}
	if s.tx.store.onLock != nil {
		if err := s.tx.store.onLock(ctx); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func (s *memTemplates) MarkGenerated(ctx context.Context, id uuid.UUID, at, threshold time.Time) error {
	t, ok := s.tx.templates[id]
	if !ok || (t.LastGeneratedAt != nil && !t.LastGeneratedAt.Before(threshold)) {
		return store.ErrConflict
	}
	at = at.UTC()
	t.LastGeneratedAt = &at
	s.tx.templates[id] = t
	return nil
}

// memTasks implements the parts of store.TaskStore the generator uses.
type memTasks struct {
	store.TaskStore
	tx *memTx
}

func (s *memTasks) Create(ctx context.Context, task *domain.Task) error {
	if task.PeriodicTaskID != nil {
		if err := s.tx.store.failCreateFor[*task.PeriodicTaskID]; err != nil {
			return err
		}
	}
	s.tx.tasks[task.ID] = *task
	return nil
}

func (s *memTasks) GetView(ctx context.Context, id uuid.UUID) (*domain.TaskView, error) {
	t, ok := s.tx.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	view := &domain.TaskView{Task: t}

	s.tx.store.mu.Lock()
	defer s.tx.store.mu.Unlock()
	if t.AssignedToID != nil {
		if u, ok := s.tx.store.users[*t.AssignedToID]; ok {
			view.AssignedTo = u.Summary()
		}
	}
	if u, ok := s.tx.store.users[t.CreatedByID]; ok {
		view.CreatedBy = u.Summary()
	}
	return view, nil
}

// memHistory implements store.HistoryStore appends.
type memHistory struct {
	store.HistoryStore
	tx *memTx
}

func (s *memHistory) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	s.tx.history = append(s.tx.history, *entry)
	return nil
}
