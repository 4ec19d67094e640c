package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/mocks"
	"github.com/tareaspendientes/tareas-api/internal/service"
)

func TestUserHandler_List(t *testing.T) {
	users := &mocks.UserService{}
	users.On("ListApproved", anyCtx).Return([]*domain.UserSummary{
		{ID: uuid.New(), Name: "Ana García"},
		{ID: uuid.New(), Name: "Luis Pérez"},
	}, nil)
	h := NewUserHandler(users, &mocks.ScoreboardService{}, nil, testLogger(t))

	rec := serve(t, h.List, request{method: http.MethodGet, pattern: "/users", target: "/users"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Luis Pérez")
}

func TestUserHandler_Me(t *testing.T) {
	user := testUser()
	user.IsAdmin = true
	h := NewUserHandler(&mocks.UserService{}, &mocks.ScoreboardService{}, nil, testLogger(t))

	rec := serve(t, h.Me, request{method: http.MethodGet, pattern: "/users/me", target: "/users/me", user: user})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, user.ID.String(), body["id"])
	assert.Equal(t, true, body["isAdmin"])
}

func TestUserHandler_Scores(t *testing.T) {
	t.Run("defaults to week", func(t *testing.T) {
		scores := &mocks.ScoreboardService{}
		scores.On("ScoresForPeriod", anyCtx, service.PeriodWeek).Return([]*service.Score{
			{ID: uuid.New(), Name: "Ana García", TaskCount: 2, TotalPoints: 5},
		}, nil)
		h := NewUserHandler(&mocks.UserService{}, scores, nil, testLogger(t))

		rec := serve(t, h.Scores, request{method: http.MethodGet, pattern: "/users/scores", target: "/users/scores"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"totalPoints":5`)
	})

	t.Run("unknown period", func(t *testing.T) {
		scores := &mocks.ScoreboardService{}
		scores.On("ScoresForPeriod", anyCtx, "decade").Return(nil, service.ErrInvalidPeriod)
		h := NewUserHandler(&mocks.UserService{}, scores, nil, testLogger(t))

		rec := serve(t, h.Scores, request{
			method: http.MethodGet, pattern: "/users/scores", target: "/users/scores?period=decade",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid period", errorMessage(t, rec))
	})
}

func TestUserHandler_Scoreboard(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	t.Run("date bounds in household zone", func(t *testing.T) {
		from := time.Date(2026, 5, 1, 0, 0, 0, 0, madrid)
		to := time.Date(2026, 6, 1, 0, 0, 0, 0, madrid)
		scores := &mocks.ScoreboardService{}
		scores.On("Scores", anyCtx, from, to).Return([]*service.Score{}, nil)
		h := NewUserHandler(&mocks.UserService{}, scores, madrid, testLogger(t))

		rec := serve(t, h.Scoreboard, request{
			method: http.MethodGet, pattern: "/scoreboard", target: "/scoreboard?from=2026-05-01&to=2026-06-01",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		scores.AssertExpectations(t)
	})

	t.Run("open bounds", func(t *testing.T) {
		scores := &mocks.ScoreboardService{}
		scores.On("Scores", anyCtx, time.Time{}, time.Time{}).Return([]*service.Score{}, nil)
		h := NewUserHandler(&mocks.UserService{}, scores, nil, testLogger(t))

		rec := serve(t, h.Scoreboard, request{method: http.MethodGet, pattern: "/scoreboard", target: "/scoreboard"})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	tests := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{name: "bad from", query: "?from=yesterday", wantMsg: "Invalid from date"},
		{name: "bad to", query: "?to=2026-13-01", wantMsg: "Invalid to date"},
		{name: "inverted range", query: "?from=2026-06-01&to=2026-05-01", wantMsg: "from must be before to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUserHandler(&mocks.UserService{}, &mocks.ScoreboardService{}, nil, testLogger(t))

			rec := serve(t, h.Scoreboard, request{
				method: http.MethodGet, pattern: "/scoreboard", target: "/scoreboard" + tt.query,
			})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
		})
	}
}
