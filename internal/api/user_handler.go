package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tareaspendientes/tareas-api/internal/api/shared"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/service"
)

// UserHandler serves the household members and their scores.
type UserHandler struct {
	users  service.UserService
	scores service.ScoreboardService
	loc    *time.Location
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler. loc is the household time zone
// used to read date-only scoreboard bounds; nil means UTC.
func NewUserHandler(
	users service.UserService,
	scores service.ScoreboardService,
	loc *time.Location,
	logger *slog.Logger,
) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &UserHandler{
		users:  users,
		scores: scores,
		loc:    loc,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// List handles GET /users and returns the approved users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListApproved(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch users")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Scores handles GET /users/scores?period=week|month|year. The period
// defaults to the current week.
func (h *UserHandler) Scores(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = service.PeriodWeek
	}

	scores, err := h.scores.ScoresForPeriod(r.Context(), period)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch scores")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, scores)
}

// Scoreboard handles GET /scoreboard?from=&to=. Bounds are RFC 3339
// timestamps or dates; a missing bound leaves that side open.
func (h *UserHandler) Scoreboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	from, err := queryTime(r, "from", h.loc)
	if err != nil {
		log.Debug("invalid scoreboard bound", slog.String("param_name", "from"))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid from date")
		return
	}
	to, err := queryTime(r, "to", h.loc)
	if err != nil {
		log.Debug("invalid scoreboard bound", slog.String("param_name", "to"))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid to date")
		return
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "from must be before to")
		return
	}

	scores, err := h.scores.Scores(r.Context(), from, to)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch scoreboard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, scores)
}
