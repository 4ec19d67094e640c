package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// TaskStore is a mock of store.TaskStore.
type TaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TaskStore)(nil)

func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*domain.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskStore) GetView(ctx context.Context, id uuid.UUID) (*domain.TaskView, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*domain.TaskView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskStore) ListViews(ctx context.Context) ([]*domain.TaskView, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]*domain.TaskView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TaskStore) DeletePendingByTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, templateID)
	if ids, ok := args.Get(0).([]uuid.UUID); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskStore) ListCompleted(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	args := m.Called(ctx, from, to)
	if t, ok := args.Get(0).([]*domain.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

// PeriodicTaskStore is a mock of store.PeriodicTaskStore.
type PeriodicTaskStore struct {
	mock.Mock
}

var _ store.PeriodicTaskStore = (*PeriodicTaskStore)(nil)

func (m *PeriodicTaskStore) List(ctx context.Context) ([]*domain.PeriodicTask, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]*domain.PeriodicTask); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PeriodicTaskStore) Create(ctx context.Context, pt *domain.PeriodicTask) error {
	return m.Called(ctx, pt).Error(0)
}

func (m *PeriodicTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PeriodicTask, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*domain.PeriodicTask); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PeriodicTaskStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.PeriodicTask, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*domain.PeriodicTask); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PeriodicTaskStore) ListViews(ctx context.Context) ([]*domain.PeriodicTaskView, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]*domain.PeriodicTaskView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PeriodicTaskStore) GetView(ctx context.Context, id uuid.UUID) (*domain.PeriodicTaskView, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*domain.PeriodicTaskView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PeriodicTaskStore) Update(ctx context.Context, pt *domain.PeriodicTask) error {
	return m.Called(ctx, pt).Error(0)
}

func (m *PeriodicTaskStore) MarkGenerated(ctx context.Context, id uuid.UUID, at, threshold time.Time) error {
	return m.Called(ctx, id, at, threshold).Error(0)
}

func (m *PeriodicTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// HistoryStore is a mock of store.HistoryStore.
type HistoryStore struct {
	mock.Mock
}

var _ store.HistoryStore = (*HistoryStore)(nil)

func (m *HistoryStore) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *HistoryStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.HistoryView, error) {
	args := m.Called(ctx, taskID)
	if v, ok := args.Get(0).([]*domain.HistoryView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *HistoryStore) List(ctx context.Context, limit, offset int) ([]*domain.HistoryView, int, error) {
	args := m.Called(ctx, limit, offset)
	if v, ok := args.Get(0).([]*domain.HistoryView); ok {
		return v, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

// UserStore is a mock of store.UserStore.
type UserStore struct {
	mock.Mock
}

var _ store.UserStore = (*UserStore)(nil)

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserStore) ListApproved(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if u, ok := args.Get(0).([]*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// CategoryStore is a mock of store.CategoryStore.
type CategoryStore struct {
	mock.Mock
}

var _ store.CategoryStore = (*CategoryStore)(nil)

func (m *CategoryStore) Create(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*domain.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryStore) List(ctx context.Context) ([]*domain.CategoryView, error) {
	args := m.Called(ctx)
	if c, ok := args.Get(0).([]*domain.CategoryView); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryStore) Update(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CategoryStore) CountTasks(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
