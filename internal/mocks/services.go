package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/service"
	"github.com/tareaspendientes/tareas-api/internal/service/auth"
)

// TaskService is a mock of service.TaskService.
type TaskService struct {
	mock.Mock
}

var _ service.TaskService = (*TaskService)(nil)

func (m *TaskService) ListGrouped(ctx context.Context) (*service.TaskBoard, error) {
	args := m.Called(ctx)
	if b, ok := args.Get(0).(*service.TaskBoard); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskService) Create(
	ctx context.Context,
	actorID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.TaskView, error) {
	args := m.Called(ctx, actorID, input)
	if v, ok := args.Get(0).(*domain.TaskView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskService) Update(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	input service.UpdateTaskInput,
) (*domain.TaskView, error) {
	args := m.Called(ctx, actorID, taskID, input)
	if v, ok := args.Get(0).(*domain.TaskView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskService) Delete(ctx context.Context, actorID, taskID uuid.UUID) error {
	return m.Called(ctx, actorID, taskID).Error(0)
}

func (m *TaskService) History(ctx context.Context, taskID uuid.UUID) ([]*domain.HistoryView, error) {
	args := m.Called(ctx, taskID)
	if v, ok := args.Get(0).([]*domain.HistoryView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// PeriodicTaskService is a mock of service.PeriodicTaskService.
type PeriodicTaskService struct {
	mock.Mock
}

var _ service.PeriodicTaskService = (*PeriodicTaskService)(nil)

func (m *PeriodicTaskService) List(ctx context.Context) ([]*domain.PeriodicTaskView, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]*domain.PeriodicTaskView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PeriodicTaskService) Create(
	ctx context.Context,
	input service.PeriodicTaskInput,
) (*domain.PeriodicTaskView, error) {
	args := m.Called(ctx, input)
	if v, ok := args.Get(0).(*domain.PeriodicTaskView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PeriodicTaskService) Update(
	ctx context.Context,
	id uuid.UUID,
	patch service.PeriodicTaskPatch,
) (*domain.PeriodicTaskView, error) {
	args := m.Called(ctx, id, patch)
	if v, ok := args.Get(0).(*domain.PeriodicTaskView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PeriodicTaskService) Delete(ctx context.Context, id uuid.UUID, deletePending bool) ([]uuid.UUID, error) {
	args := m.Called(ctx, id, deletePending)
	if v, ok := args.Get(0).([]uuid.UUID); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// CategoryService is a mock of service.CategoryService.
type CategoryService struct {
	mock.Mock
}

var _ service.CategoryService = (*CategoryService)(nil)

func (m *CategoryService) List(ctx context.Context) ([]*domain.CategoryView, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]*domain.CategoryView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) Create(ctx context.Context, name, emoji string) (*domain.CategoryView, error) {
	args := m.Called(ctx, name, emoji)
	if v, ok := args.Get(0).(*domain.CategoryView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) Update(ctx context.Context, id uuid.UUID, name, emoji *string) (*domain.CategoryView, error) {
	args := m.Called(ctx, id, name, emoji)
	if v, ok := args.Get(0).(*domain.CategoryView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// HistoryService is a mock of service.HistoryService.
type HistoryService struct {
	mock.Mock
}

var _ service.HistoryService = (*HistoryService)(nil)

func (m *HistoryService) List(ctx context.Context, page, limit int) (*service.HistoryPage, error) {
	args := m.Called(ctx, page, limit)
	if v, ok := args.Get(0).(*service.HistoryPage); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// UserService is a mock of service.UserService.
type UserService struct {
	mock.Mock
}

var _ service.UserService = (*UserService)(nil)

func (m *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).(*domain.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserService) ListApproved(ctx context.Context) ([]*domain.UserSummary, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]*domain.UserSummary); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// ScoreboardService is a mock of service.ScoreboardService.
type ScoreboardService struct {
	mock.Mock
}

var _ service.ScoreboardService = (*ScoreboardService)(nil)

func (m *ScoreboardService) Scores(ctx context.Context, from, to time.Time) ([]*service.Score, error) {
	args := m.Called(ctx, from, to)
	if v, ok := args.Get(0).([]*service.Score); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScoreboardService) ScoresForPeriod(ctx context.Context, period string) ([]*service.Score, error) {
	args := m.Called(ctx, period)
	if v, ok := args.Get(0).([]*service.Score); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// JWTService is a configurable auth.JWTService.
type JWTService struct {
	Token       string
	GenerateErr error
	Claims      *auth.Claims
	ValidateErr error
}

var _ auth.JWTService = (*JWTService)(nil)

func (m *JWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return m.Token, m.GenerateErr
}

func (m *JWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	return m.Claims, nil
}
