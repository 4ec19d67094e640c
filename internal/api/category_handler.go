package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tareaspendientes/tareas-api/internal/api/shared"
	"github.com/tareaspendientes/tareas-api/internal/service"
)

// CategoryHandler handles the category endpoints. Everything but List is
// mounted behind the admin middleware.
type CategoryHandler struct {
	categories service.CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories service.CategoryService, logger *slog.Logger) *CategoryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CategoryHandler")
	}
	return &CategoryHandler{
		categories: categories,
		logger:     logger.With(slog.String("component", "category_handler")),
	}
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.categories.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch categories")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, views)
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.categories.Create(r.Context(), req.Name, req.Emoji)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// Update handles PATCH /categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Name cannot be empty")
		return
	}
	if req.Emoji != nil && strings.TrimSpace(*req.Emoji) == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Emoji cannot be empty")
		return
	}

	view, err := h.categories.Update(r.Context(), id, req.Name, req.Emoji)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Delete handles DELETE /categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete category")
		return
	}
	shared.RespondWithMessage(w, r, "Category deleted")
}
