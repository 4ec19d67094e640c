package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tareaspendientes/tareas-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the task references unknown rows.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetView retrieves a task with category, assignee and creator resolved.
	// Returns ErrTaskNotFound if the task does not exist.
	GetView(ctx context.Context, id uuid.UUID) (*domain.TaskView, error)

	// ListViews returns every task with related entities resolved, newest first.
	ListViews(ctx context.Context) ([]*domain.TaskView, error)

	// Update saves all mutable fields of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeletePendingByTemplate removes every task generated from the template
	// that is not completed, returning the deleted IDs.
	DeletePendingByTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error)

	// ListCompleted returns tasks completed within [from, to).
	// A zero bound is open.
	ListCompleted(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
}
