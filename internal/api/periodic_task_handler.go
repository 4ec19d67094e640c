package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tareaspendientes/tareas-api/internal/api/shared"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/service"
)

// PeriodicTaskHandler handles the recurring-task template endpoints.
type PeriodicTaskHandler struct {
	templates service.PeriodicTaskService
	logger    *slog.Logger
}

// NewPeriodicTaskHandler creates a new PeriodicTaskHandler.
func NewPeriodicTaskHandler(templates service.PeriodicTaskService, logger *slog.Logger) *PeriodicTaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PeriodicTaskHandler")
	}
	return &PeriodicTaskHandler{
		templates: templates,
		logger:    logger.With(slog.String("component", "periodic_task_handler")),
	}
}

// List handles GET /periodic-tasks.
func (h *PeriodicTaskHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.templates.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch periodic tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, views)
}

// Create handles POST /periodic-tasks.
func (h *PeriodicTaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePeriodicTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.templates.Create(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create periodic task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// Update handles PATCH /periodic-tasks/{id}.
func (h *PeriodicTaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdatePeriodicTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.templates.Update(r.Context(), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update periodic task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Delete handles DELETE /periodic-tasks/{id}. With ?deletePending=true the
// generated tasks that are not completed yet go too.
func (h *PeriodicTaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	deletePending, _ := strconv.ParseBool(r.URL.Query().Get("deletePending"))
	removed, err := h.templates.Delete(r.Context(), id, deletePending)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete periodic task")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("periodic task deleted",
		slog.String("periodic_task_id", id.String()),
		slog.Int("deleted_tasks", len(removed)))
	shared.RespondWithJSON(w, r, http.StatusOK, PeriodicTaskDeletedResponse{
		Message:      "Periodic task deleted",
		DeletedTasks: len(removed),
	})
}
