package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the column a task sits in on the board.
type TaskStatus string

// Possible task status values. The stored values are the ones the board client uses.
const (
	TaskStatusNew        TaskStatus = "Nueva"
	TaskStatusInProgress TaskStatus = "EnProgreso"
	TaskStatusCompleted  TaskStatus = "Completada"
)

// TaskSize is the effort classification of a task; it drives scoreboard points.
type TaskSize string

// Possible task sizes.
const (
	TaskSizeSmall  TaskSize = "Pequena"
	TaskSizeMedium TaskSize = "Mediana"
	TaskSizeLarge  TaskSize = "Grande"
)

// Valid reports whether s is a known size.
func (s TaskSize) Valid() bool {
	switch s {
	case TaskSizeSmall, TaskSizeMedium, TaskSizeLarge:
		return true
	default:
		return false
	}
}

// Points returns the scoreboard weight of a completed task of this size.
func (s TaskSize) Points() int {
	switch s {
	case TaskSizeMedium:
		return 2
	case TaskSizeLarge:
		return 3
	default:
		return 1
	}
}

// Label returns the human-readable size used in notifications.
func (s TaskSize) Label() string {
	switch s {
	case TaskSizeSmall:
		return "Pequeña (S)"
	case TaskSizeMedium:
		return "Mediana (M)"
	case TaskSizeLarge:
		return "Grande (L)"
	default:
		return string(s)
	}
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// Task is a concrete chore on the board, either created by a user or generated
// from a PeriodicTask.
type Task struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Size           TaskSize   `json:"size"`
	Status         TaskStatus `json:"status"`
	CategoryID     *uuid.UUID `json:"categoryId"`
	AssignedToID   *uuid.UUID `json:"assignedToId"`
	PeriodicTaskID *uuid.UUID `json:"periodicTaskId"`
	CreatedByID    uuid.UUID  `json:"createdById"`
	CompletedAt    *time.Time `json:"completedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// TaskView is a task with its related entities resolved, as broadcast to clients.
type TaskView struct {
	Task
	Category   *Category    `json:"category"`
	AssignedTo *UserSummary `json:"assignedTo"`
	CreatedBy  *UserSummary `json:"createdBy"`
}

// NewTask creates a manually created task in the New column.
func NewTask(title string, description *string, createdBy uuid.UUID) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: trimOptional(description),
		Size:        TaskSizeSmall,
		Status:      TaskStatusNew,
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil || t.CreatedByID == uuid.Nil {
		return ErrInvalidID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Size.Valid() {
		return ErrInvalidSize
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// SetStatus moves the task to a new column, maintaining CompletedAt.
func (t *Task) SetStatus(status TaskStatus, at time.Time) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	switch {
	case status == TaskStatusCompleted:
		completed := at.UTC()
		t.CompletedAt = &completed
	case t.Status == TaskStatusCompleted:
		t.CompletedAt = nil
	}

	t.Status = status
	t.UpdatedAt = at.UTC()
	return nil
}

// IsGenerated reports whether the task was produced from a template.
func (t *Task) IsGenerated() bool {
	return t.PeriodicTaskID != nil
}
