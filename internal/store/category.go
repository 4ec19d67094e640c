package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tareaspendientes/tareas-api/internal/domain"
)

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	// Create saves a new category.
	// Returns ErrCategoryExists if the name is taken.
	Create(ctx context.Context, c *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// List returns all categories ordered by name, with their task counts.
	List(ctx context.Context) ([]*domain.CategoryView, error)

	// Update saves the name and emoji of an existing category.
	// Returns ErrCategoryNotFound or ErrCategoryExists.
	Update(ctx context.Context, c *domain.Category) error

	// Delete removes a category.
	// Returns ErrCategoryNotFound if the category does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountTasks returns how many tasks reference the category.
	CountTasks(ctx context.Context, id uuid.UUID) (int, error)
}
