package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/mocks"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/service"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

func TestUserService_GetUser(t *testing.T) {
	log, _ := logger.GetTestLogger(t)

	t.Run("found", func(t *testing.T) {
		users := new(mocks.UserStore)
		u := &domain.User{ID: uuid.New(), Name: "Ana", IsApproved: true}
		users.On("GetByID", anyCtx, u.ID).Return(u, nil)

		got, err := service.NewUserService(users, log).GetUser(t.Context(), u.ID)
		require.NoError(t, err)
		assert.Same(t, u, got)
	})

	t.Run("not found", func(t *testing.T) {
		users := new(mocks.UserStore)
		id := uuid.New()
		users.On("GetByID", anyCtx, id).Return(nil, store.ErrUserNotFound)

		_, err := service.NewUserService(users, log).GetUser(t.Context(), id)
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestUserService_ListApproved(t *testing.T) {
	users := new(mocks.UserStore)
	ana := &domain.User{ID: uuid.New(), Name: "Ana", Color: strPtr("#ff8800"), IsApproved: true, IsAdmin: true}
	luis := &domain.User{ID: uuid.New(), Name: "Luis", IsApproved: true}
	users.On("ListApproved", anyCtx).Return([]*domain.User{ana, luis}, nil)

	got, err := service.NewUserService(users, nil).ListApproved(t.Context())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ana.Summary(), got[0])
	assert.Equal(t, "Luis", got[1].Name)
}
