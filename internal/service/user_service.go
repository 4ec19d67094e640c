package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// UserService reads household members. Accounts are created and approved
// by the login flow, not through this API.
type UserService interface {
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListApproved returns the users tasks can be assigned to, by name.
	ListApproved(ctx context.Context) ([]*domain.UserSummary, error)
}

type userServiceImpl struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users store.UserStore, log *slog.Logger) UserService {
	if log == nil {
		log = slog.Default()
	}
	return &userServiceImpl{users: users, logger: log.With("service", "user")}
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to retrieve user", "error", err, "user_id", userID)
		}
		return nil, NewServiceError("user", "get_user", "failed to retrieve user", err)
	}
	return user, nil
}

func (s *userServiceImpl) ListApproved(ctx context.Context) ([]*domain.UserSummary, error) {
	users, err := s.users.ListApproved(ctx)
	if err != nil {
		return nil, NewServiceError("user", "list_approved", "failed to list users", err)
	}
	out := make([]*domain.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}
