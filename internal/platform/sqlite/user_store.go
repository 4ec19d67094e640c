package sqlite

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// UserStore implements store.UserStore.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a user store on db.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

var _ store.UserStore = (*UserStore)(nil)

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var m userModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapError(err, store.ErrUserNotFound)
	}
	return m.toDomain(), nil
}

func (s *UserStore) ListApproved(ctx context.Context) ([]*domain.User, error) {
	var rows []userModel
	if err := s.db.WithContext(ctx).Where("is_approved = ?", true).Order("name, id").Find(&rows).Error; err != nil {
		return nil, mapError(err, nil)
	}
	out := make([]*domain.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// SaveUser inserts or replaces an account. The login flow owns accounts in
// production; this is used to seed the system user and in tests.
func SaveUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	m := &userModel{
		ID:         u.ID,
		Name:       u.Name,
		ShortName:  u.ShortName,
		Email:      u.Email,
		Picture:    u.Picture,
		Color:      u.Color,
		IsApproved: u.IsApproved,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt.UTC(),
		UpdatedAt:  u.UpdatedAt.UTC(),
	}
	return mapError(db.WithContext(ctx).Save(m).Error, nil)
}
