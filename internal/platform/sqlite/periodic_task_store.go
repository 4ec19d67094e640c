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

// PeriodicTaskStore implements store.PeriodicTaskStore.
type PeriodicTaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPeriodicTaskStore creates a template store on db.
func NewPeriodicTaskStore(db *gorm.DB, logger *slog.Logger) *PeriodicTaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PeriodicTaskStore{db: db, logger: logger.With(slog.String("component", "periodic_task_store"))}
}

var _ store.PeriodicTaskStore = (*PeriodicTaskStore)(nil)

func (s *PeriodicTaskStore) Create(ctx context.Context, pt *domain.PeriodicTask) error {
	if err := pt.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(newPeriodicTaskModel(pt)).Error; err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert periodic task",
			slog.String("error", err.Error()),
			slog.String("periodic_task_id", pt.ID.String()))
		return mapError(err, nil)
	}
	return nil
}

func (s *PeriodicTaskStore) List(ctx context.Context) ([]*domain.PeriodicTask, error) {
	var rows []periodicTaskModel
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, mapError(err, nil)
	}
	out := make([]*domain.PeriodicTask, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *PeriodicTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PeriodicTask, error) {
	var m periodicTaskModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapError(err, store.ErrPeriodicTaskNotFound)
	}
	return m.toDomain(), nil
}

// GetByIDForUpdate reads the row like GetByID. SQLite has no row locks; the
// single-connection pool already serializes transactions.
func (s *PeriodicTaskStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.PeriodicTask, error) {
	return s.GetByID(ctx, id)
}

func (s *PeriodicTaskStore) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Category").Preload("AssignedTo")
}

func (s *PeriodicTaskStore) ListViews(ctx context.Context) ([]*domain.PeriodicTaskView, error) {
	var rows []periodicTaskModel
	if err := s.withRelations(ctx).Order("created_at DESC, id").Find(&rows).Error; err != nil {
		return nil, mapError(err, nil)
	}
	out := make([]*domain.PeriodicTaskView, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toView())
	}
	return out, nil
}

func (s *PeriodicTaskStore) GetView(ctx context.Context, id uuid.UUID) (*domain.PeriodicTaskView, error) {
	var m periodicTaskModel
	if err := s.withRelations(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapError(err, store.ErrPeriodicTaskNotFound)
	}
	return m.toView(), nil
}

func (s *PeriodicTaskStore) Update(ctx context.Context, pt *domain.PeriodicTask) error {
	if err := pt.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	res := s.db.WithContext(ctx).Model(&periodicTaskModel{}).Where("id = ?", pt.ID).
		Select("title", "description", "size", "frequency", "day_of_week", "month_of_year",
			"active_from_month", "active_to_month", "category_id", "assigned_to_id", "updated_at").
		Updates(newPeriodicTaskModel(pt))
	return checkAffected(res, store.ErrPeriodicTaskNotFound)
}

func (s *PeriodicTaskStore) MarkGenerated(ctx context.Context, id uuid.UUID, at, threshold time.Time) error {
	res := s.db.WithContext(ctx).Model(&periodicTaskModel{}).
		Where("id = ? AND (last_generated_at IS NULL OR last_generated_at < ?)", id, threshold.UTC()).
		Update("last_generated_at", at.UTC())
	if res.Error != nil {
		return store.NewStoreError("periodic_task", "mark_generated", "failed to record generation", mapError(res.Error, nil))
	}
	if res.RowsAffected == 0 {
		return store.NewStoreError("periodic_task", "mark_generated", "generation guard matched no row", store.ErrConflict)
	}
	return nil
}

func (s *PeriodicTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&periodicTaskModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("%w: %w", store.ErrDeleteFailed, mapError(res.Error, nil))
	}
	return checkAffected(res, store.ErrPeriodicTaskNotFound)
}
