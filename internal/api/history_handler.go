package api

import (
	"log/slog"
	"net/http"

	"github.com/tareaspendientes/tareas-api/internal/api/shared"
	"github.com/tareaspendientes/tareas-api/internal/service"
)

// HistoryHandler serves the global audit log.
type HistoryHandler struct {
	history service.HistoryService
	logger  *slog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history service.HistoryService, logger *slog.Logger) *HistoryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for HistoryHandler")
	}
	return &HistoryHandler{
		history: history,
		logger:  logger.With(slog.String("component", "history_handler")),
	}
}

// List handles GET /history?page=&limit=.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.history.List(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch history")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, page)
}
