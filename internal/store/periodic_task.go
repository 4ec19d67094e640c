package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tareaspendientes/tareas-api/internal/domain"
)

// PeriodicTaskLister is the read side of the template store used by the
// generation sweep to find candidate templates.
type PeriodicTaskLister interface {
	// List returns every template, ordered by ID.
	List(ctx context.Context) ([]*domain.PeriodicTask, error)
}

// PeriodicTaskStore defines the interface for recurring-task template persistence.
type PeriodicTaskStore interface {
	PeriodicTaskLister

	// Create saves a new template.
	// Returns ErrInvalidEntity if the template violates a constraint
	// (e.g. unknown category or assignee).
	Create(ctx context.Context, pt *domain.PeriodicTask) error

	// GetByID retrieves a template by its unique ID.
	// Returns ErrPeriodicTaskNotFound if the template does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PeriodicTask, error)

	// GetByIDForUpdate retrieves a template and locks its row until the
	// surrounding transaction ends, where the backend supports row locks.
	// Returns ErrPeriodicTaskNotFound if the template does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.PeriodicTask, error)

	// ListViews returns every template with category and assignee resolved,
	// newest first.
	ListViews(ctx context.Context) ([]*domain.PeriodicTaskView, error)

	// GetView returns a single template with category and assignee resolved.
	// Returns ErrPeriodicTaskNotFound if the template does not exist.
	GetView(ctx context.Context, id uuid.UUID) (*domain.PeriodicTaskView, error)

	// Update saves the editable fields of an existing template.
	// LastGeneratedAt is not touched; use MarkGenerated.
	// Returns ErrPeriodicTaskNotFound if the template does not exist.
	Update(ctx context.Context, pt *domain.PeriodicTask) error

	// MarkGenerated sets last_generated_at to at, but only while the stored
	// value is NULL or earlier than threshold.
	// Returns ErrConflict when the guard matched no row.
	MarkGenerated(ctx context.Context, id uuid.UUID, at, threshold time.Time) error

	// Delete removes a template. Generated tasks keep existing with their
	// template reference cleared.
	// Returns ErrPeriodicTaskNotFound if the template does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
