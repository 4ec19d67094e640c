package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// CategoryStore implements store.CategoryStore.
type CategoryStore struct {
	db *gorm.DB
}

// NewCategoryStore creates a category store on db.
func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

var _ store.CategoryStore = (*CategoryStore)(nil)

func categoryWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", store.ErrCategoryExists, err)
	}
	return mapError(err, store.ErrCategoryNotFound)
}

func (s *CategoryStore) Create(ctx context.Context, c *domain.Category) error {
	if err := s.db.WithContext(ctx).Create(newCategoryModel(c)).Error; err != nil {
		return categoryWriteError(err)
	}
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var m categoryModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapError(err, store.ErrCategoryNotFound)
	}
	return m.toDomain(), nil
}

// categoryRow is a category joined with its task count.
type categoryRow struct {
	ID        uuid.UUID
	Name      string
	Emoji     string
	CreatedAt time.Time
	TaskCount int
}

func (s *CategoryStore) List(ctx context.Context) ([]*domain.CategoryView, error) {
	var rows []categoryRow
	err := s.db.WithContext(ctx).Model(&categoryModel{}).
		Select("categories.id, categories.name, categories.emoji, categories.created_at, COUNT(tasks.id) AS task_count").
		Joins("LEFT JOIN tasks ON tasks.category_id = categories.id").
		Group("categories.id").
		Order("categories.name").
		Scan(&rows).Error
	if err != nil {
		return nil, mapError(err, nil)
	}

	out := make([]*domain.CategoryView, 0, len(rows))
	for i := range rows {
		out = append(out, &domain.CategoryView{
			Category: domain.Category{
				ID:        rows[i].ID,
				Name:      rows[i].Name,
				Emoji:     rows[i].Emoji,
				CreatedAt: rows[i].CreatedAt.UTC(),
			},
			TaskCount: rows[i].TaskCount,
		})
	}
	return out, nil
}

func (s *CategoryStore) Update(ctx context.Context, c *domain.Category) error {
	res := s.db.WithContext(ctx).Model(&categoryModel{}).Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "emoji": c.Emoji})
	if res.Error != nil {
		return categoryWriteError(res.Error)
	}
	return checkAffected(res, store.ErrCategoryNotFound)
}

func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&categoryModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("%w: %w", store.ErrDeleteFailed, mapError(res.Error, nil))
	}
	return checkAffected(res, store.ErrCategoryNotFound)
}

func (s *CategoryStore) CountTasks(ctx context.Context, id uuid.UUID) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&taskModel{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return 0, mapError(err, nil)
	}
	return int(n), nil
}
