package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tareaspendientes/tareas-api/internal/domain"
)

// UserStore defines the read access to user accounts. Accounts are written by
// the login flow, which lives outside this service.
type UserStore interface {
	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ListApproved returns approved users ordered by name.
	ListApproved(ctx context.Context) ([]*domain.User, error)
}
