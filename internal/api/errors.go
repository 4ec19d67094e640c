package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tareaspendientes/tareas-api/internal/api/shared"
	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/service"
	"github.com/tareaspendientes/tareas-api/internal/service/auth"
)

// errorMapping pairs an error with its status code and client message.
type errorMapping struct {
	err     error
	status  int
	message string
}

// knownErrors is checked in order; the first match wins.
var knownErrors = []errorMapping{
	{auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{auth.ErrExpiredToken, http.StatusUnauthorized, "Invalid token"},
	{auth.ErrMissingToken, http.StatusUnauthorized, "Authentication required"},

	{service.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
	{service.ErrPeriodicTaskNotFound, http.StatusNotFound, "Periodic task not found"},
	{service.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},

	{service.ErrCategoryExists, http.StatusConflict, "A category with this name already exists"},

	{service.ErrInvalidAssignee, http.StatusBadRequest, "Invalid assignee"},
	{service.ErrInvalidCategory, http.StatusBadRequest, "Invalid category"},
	{service.ErrInvalidPeriod, http.StatusBadRequest, "Invalid period"},
	{domain.ErrEmptyTitle, http.StatusBadRequest, "Title is required"},
	{domain.ErrInvalidStatus, http.StatusBadRequest, "Invalid status"},
	{domain.ErrInvalidSize, http.StatusBadRequest, "Invalid size"},
	{domain.ErrInvalidFrequency, http.StatusBadRequest, "Valid frequency is required"},
	{domain.ErrInvalidDayOfWeek, http.StatusBadRequest, "Valid day of week (0-6) is required for weekly tasks"},
	{domain.ErrInvalidMonthOfYear, http.StatusBadRequest, "Valid month (0-11) is required for monthly tasks"},
	{domain.ErrInvalidActiveRange, http.StatusBadRequest, "Valid active months (0-11) are required"},
	{domain.ErrEmptyCategory, http.StatusBadRequest, "Invalid category"},
	{domain.ErrEmptyName, http.StatusBadRequest, "Name is required"},
	{domain.ErrEmptyEmoji, http.StatusBadRequest, "Emoji is required"},
	{domain.ErrInvalidID, http.StatusBadRequest, "Invalid ID"},
	{domain.ErrValidation, http.StatusBadRequest, "Validation error"},
}

// MapErrorToStatusCode maps service, domain and auth errors to HTTP status
// codes. Anything unknown is a 500.
func MapErrorToStatusCode(err error) int {
	if errors.Is(err, service.ErrCategoryInUse) {
		return http.StatusBadRequest
	}
	for _, m := range knownErrors {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns the message shown to clients for err. It never
// includes the underlying error text, except for the category-in-use message
// which is built from a count.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var inUse *service.CategoryInUseError
	if errors.As(err, &inUse) {
		return inUse.Error()
	}
	for _, m := range knownErrors {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return "An unexpected error occurred"
}

// HandleAPIError writes the response for a failed service call. fallback
// replaces the generic message of unexpected (500) errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// fieldMessages overrides the generated validation message for a field.
var fieldMessages = map[string]string{
	"frequency": "Valid frequency is required",
}

// SanitizeValidationError turns a validator error into a client message such
// as "Title is required" or "Invalid status".
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	field := fe.Field()
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	if fe.Tag() == "required" {
		return capitalize(field) + " is required"
	}
	return "Invalid " + field
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
