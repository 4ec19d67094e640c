package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

const categoryServiceName = "category"

// CategoryService manages the board categories. Changes are restricted to
// administrators by the API layer.
type CategoryService interface {
	List(ctx context.Context) ([]*domain.CategoryView, error)
	Create(ctx context.Context, name, emoji string) (*domain.CategoryView, error)
	Update(ctx context.Context, id uuid.UUID, name, emoji *string) (*domain.CategoryView, error)

	// Delete removes an unused category. It returns a *CategoryInUseError
	// while tasks or periodic tasks still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryServiceImpl struct {
	categories store.CategoryStore
	tx         store.Transactor
	logger     *slog.Logger
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories store.CategoryStore, tx store.Transactor, log *slog.Logger) (CategoryService, error) {
	if categories == nil || tx == nil {
		return nil, &ServiceError{
			Service:   categoryServiceName,
			Operation: "create_service",
			Message:   "category store and transactor are required",
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &categoryServiceImpl{categories: categories, tx: tx, logger: log.With("service", "category")}, nil
}

func (s *categoryServiceImpl) List(ctx context.Context) ([]*domain.CategoryView, error) {
	views, err := s.categories.List(ctx)
	if err != nil {
		return nil, NewServiceError(categoryServiceName, "list", "failed to list categories", err)
	}
	if views == nil {
		views = []*domain.CategoryView{}
	}
	return views, nil
}

func (s *categoryServiceImpl) Create(ctx context.Context, name, emoji string) (*domain.CategoryView, error) {
	c, err := domain.NewCategory(name, emoji)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, NewServiceError(categoryServiceName, "create", "failed to create category", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("category created", "category_id", c.ID, "name", c.Name)
	return &domain.CategoryView{Category: *c}, nil
}

func (s *categoryServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	name, emoji *string,
) (*domain.CategoryView, error) {
	var view *domain.CategoryView
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.TxStores) error {
		c, err := st.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := c.Rename(name, emoji); err != nil {
			return err
		}
		if err := st.Categories.Update(ctx, c); err != nil {
			return err
		}
		n, err := st.Categories.CountTasks(ctx, id)
		if err != nil {
			return err
		}
		view = &domain.CategoryView{Category: *c, TaskCount: n}
		return nil
	})
	if err != nil {
		return nil, NewServiceError(categoryServiceName, "update", "failed to update category", err)
	}
	return view, nil
}

func (s *categoryServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.TxStores) error {
		if _, err := st.Categories.GetByID(ctx, id); err != nil {
			return err
		}
		n, err := st.Categories.CountTasks(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &CategoryInUseError{Tasks: n}
		}
		if err := st.Categories.Delete(ctx, id); err != nil {
			// Periodic tasks reference categories with a restricting key.
			if errors.Is(err, store.ErrDeleteFailed) {
				return &CategoryInUseError{}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return NewServiceError(categoryServiceName, "delete", "failed to delete category", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("category deleted", "category_id", id)
	return nil
}
