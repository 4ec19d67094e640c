package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryAction identifies the kind of change recorded in the audit log.
type HistoryAction string

// Audit log actions.
const (
	ActionCreated            HistoryAction = "CREATED"
	ActionStatusChanged      HistoryAction = "STATUS_CHANGED"
	ActionSizeChanged        HistoryAction = "SIZE_CHANGED"
	ActionTitleUpdated       HistoryAction = "TITLE_UPDATED"
	ActionDescriptionUpdated HistoryAction = "DESCRIPTION_UPDATED"
	ActionAssigned           HistoryAction = "ASSIGNED"
	ActionUnassigned         HistoryAction = "UNASSIGNED"
	ActionDeleted            HistoryAction = "DELETED"
	ActionCategoryChanged    HistoryAction = "CATEGORY_CHANGED"
)

// HistoryEntry is one audit record for a task.
type HistoryEntry struct {
	ID            uuid.UUID     `json:"id"`
	TaskID        uuid.UUID     `json:"taskId"`
	UserID        uuid.UUID     `json:"userId"`
	Action        HistoryAction `json:"action"`
	PreviousValue *string       `json:"previousValue"`
	NewValue      *string       `json:"newValue"`
	Timestamp     time.Time     `json:"timestamp"`
}

// HistoryView is an audit entry with the acting user and task title resolved.
type HistoryView struct {
	HistoryEntry
	User      *UserSummary `json:"user"`
	TaskTitle *string      `json:"taskTitle,omitempty"`
}

// NewHistoryEntry builds an audit record. Empty values are stored as NULL.
func NewHistoryEntry(taskID, userID uuid.UUID, action HistoryAction, previous, next string) *HistoryEntry {
	return &HistoryEntry{
		ID:            uuid.New(),
		TaskID:        taskID,
		UserID:        userID,
		Action:        action,
		PreviousValue: optional(previous),
		NewValue:      optional(next),
		Timestamp:     time.Now().UTC(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
