package api

import (
	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/service"
)

// CreateTaskRequest is the payload of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description *string `json:"description"`
}

// UpdateTaskRequest is the payload of PATCH /api/tasks/{id}. Absent fields
// are left unchanged; null clears the nullable ones.
type UpdateTaskRequest struct {
	Title        *string                  `json:"title"`
	Description  service.Patch[string]    `json:"description"`
	Status       *domain.TaskStatus       `json:"status"       validate:"omitempty,oneof=Nueva EnProgreso Completada"`
	Size         *domain.TaskSize         `json:"size"         validate:"omitempty,oneof=Pequena Mediana Grande"`
	AssignedToID service.Patch[uuid.UUID] `json:"assignedToId"`
	CategoryID   service.Patch[uuid.UUID] `json:"categoryId"`
}

func (r *UpdateTaskRequest) toInput() service.UpdateTaskInput {
	return service.UpdateTaskInput{
		Title:        r.Title,
		Description:  r.Description,
		Status:       r.Status,
		Size:         r.Size,
		AssignedToID: r.AssignedToID,
		CategoryID:   r.CategoryID,
	}
}

// CreatePeriodicTaskRequest is the payload of POST /api/periodic-tasks.
type CreatePeriodicTaskRequest struct {
	Title           string           `json:"title"           validate:"required"`
	Description     *string          `json:"description"`
	Size            domain.TaskSize  `json:"size"            validate:"omitempty,oneof=Pequena Mediana Grande"`
	Frequency       domain.Frequency `json:"frequency"       validate:"required,oneof=WEEKLY MONTHLY"`
	DayOfWeek       *int             `json:"dayOfWeek"`
	MonthOfYear     *int             `json:"monthOfYear"`
	ActiveFromMonth *int             `json:"activeFromMonth"`
	ActiveToMonth   *int             `json:"activeToMonth"`
	CategoryID      uuid.UUID        `json:"categoryId"`
	AssignedToID    *uuid.UUID       `json:"assignedToId"`
}

func (r *CreatePeriodicTaskRequest) toInput() service.PeriodicTaskInput {
	size := r.Size
	if size == "" {
		size = domain.TaskSizeMedium
	}
	return service.PeriodicTaskInput{
		Title:           r.Title,
		Description:     r.Description,
		Size:            size,
		Frequency:       r.Frequency,
		DayOfWeek:       r.DayOfWeek,
		MonthOfYear:     r.MonthOfYear,
		ActiveFromMonth: r.ActiveFromMonth,
		ActiveToMonth:   r.ActiveToMonth,
		CategoryID:      r.CategoryID,
		AssignedToID:    r.AssignedToID,
	}
}

// UpdatePeriodicTaskRequest is the payload of PATCH /api/periodic-tasks/{id}.
type UpdatePeriodicTaskRequest struct {
	Title           *string                  `json:"title"`
	Description     service.Patch[string]    `json:"description"`
	Size            *domain.TaskSize         `json:"size"      validate:"omitempty,oneof=Pequena Mediana Grande"`
	Frequency       *domain.Frequency        `json:"frequency" validate:"omitempty,oneof=WEEKLY MONTHLY"`
	DayOfWeek       service.Patch[int]       `json:"dayOfWeek"`
	MonthOfYear     service.Patch[int]       `json:"monthOfYear"`
	ActiveFromMonth service.Patch[int]       `json:"activeFromMonth"`
	ActiveToMonth   service.Patch[int]       `json:"activeToMonth"`
	CategoryID      *uuid.UUID               `json:"categoryId"`
	AssignedToID    service.Patch[uuid.UUID] `json:"assignedToId"`
}

func (r *UpdatePeriodicTaskRequest) toPatch() service.PeriodicTaskPatch {
	return service.PeriodicTaskPatch{
		Title:           r.Title,
		Description:     r.Description,
		Size:            r.Size,
		Frequency:       r.Frequency,
		DayOfWeek:       r.DayOfWeek,
		MonthOfYear:     r.MonthOfYear,
		ActiveFromMonth: r.ActiveFromMonth,
		ActiveToMonth:   r.ActiveToMonth,
		CategoryID:      r.CategoryID,
		AssignedToID:    r.AssignedToID,
	}
}

// CreateCategoryRequest is the payload of POST /api/categories.
type CreateCategoryRequest struct {
	Name  string `json:"name"  validate:"required"`
	Emoji string `json:"emoji" validate:"required"`
}

// UpdateCategoryRequest is the payload of PATCH /api/categories/{id}.
type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Emoji *string `json:"emoji"`
}

// PeriodicTaskDeletedResponse reports a template deletion.
type PeriodicTaskDeletedResponse struct {
	Message      string `json:"message"`
	DeletedTasks int    `json:"deletedTasks"`
}
