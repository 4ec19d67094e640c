package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// TaskStore implements store.TaskStore.
type TaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTaskStore creates a task store on db.
func NewTaskStore(db *gorm.DB, logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{db: db, logger: logger.With(slog.String("component", "task_store"))}
}

var _ store.TaskStore = (*TaskStore)(nil)

func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(newTaskModel(task)).Error; err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "failed to insert task", mapError(err, nil))
	}
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var m taskModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapError(err, store.ErrTaskNotFound)
	}
	return m.toDomain(), nil
}

func (s *TaskStore) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Category").Preload("AssignedTo").Preload("CreatedBy")
}

func (s *TaskStore) GetView(ctx context.Context, id uuid.UUID) (*domain.TaskView, error) {
	var m taskModel
	if err := s.withRelations(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapError(err, store.ErrTaskNotFound)
	}
	return m.toView(), nil
}

func (s *TaskStore) ListViews(ctx context.Context) ([]*domain.TaskView, error) {
	var rows []taskModel
	if err := s.withRelations(ctx).Order("created_at DESC, id").Find(&rows).Error; err != nil {
		return nil, mapError(err, nil)
	}
	out := make([]*domain.TaskView, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toView())
	}
	return out, nil
}

func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	res := s.db.WithContext(ctx).Model(&taskModel{}).Where("id = ?", task.ID).
		Select("title", "description", "size", "status", "category_id", "assigned_to_id",
			"completed_at", "updated_at").
		Updates(newTaskModel(task))
	return checkAffected(res, store.ErrTaskNotFound)
}

func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&taskModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("%w: %w", store.ErrDeleteFailed, mapError(res.Error, nil))
	}
	return checkAffected(res, store.ErrTaskNotFound)
}

func (s *TaskStore) DeletePendingByTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	q := s.db.WithContext(ctx).Model(&taskModel{}).
		Where("periodic_task_id = ? AND status <> ?", templateID, string(domain.TaskStatusCompleted))
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, mapError(err, nil)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := s.db.WithContext(ctx).Delete(&taskModel{}, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrDeleteFailed, mapError(err, nil))
	}
	return ids, nil
}

func (s *TaskStore) ListCompleted(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	q := s.db.WithContext(ctx).
		Where("status = ? AND completed_at IS NOT NULL", string(domain.TaskStatusCompleted))
	if !from.IsZero() {
		q = q.Where("completed_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("completed_at < ?", to.UTC())
	}

	var rows []taskModel
	if err := q.Order("completed_at").Find(&rows).Error; err != nil {
		return nil, mapError(err, nil)
	}
	out := make([]*domain.Task, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
