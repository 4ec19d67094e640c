package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	creator := uuid.New()
	desc := "  sacar la basura  "
	task, err := NewTask(" Basura ", &desc, creator)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Title != "Basura" {
		t.Errorf("Expected trimmed title, got %q", task.Title)
	}
	if task.Description == nil || *task.Description != "sacar la basura" {
		t.Errorf("Expected trimmed description, got %v", task.Description)
	}
	if task.Status != TaskStatusNew {
		t.Errorf("Expected status %s, got %s", TaskStatusNew, task.Status)
	}
	if task.Size != TaskSizeSmall {
		t.Errorf("Expected size %s, got %s", TaskSizeSmall, task.Size)
	}
	if task.IsGenerated() {
		t.Error("Expected manual task")
	}

	if _, err := NewTask("   ", nil, creator); err != ErrEmptyTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTitle, err)
	}
	if _, err := NewTask("x", nil, uuid.Nil); err != ErrInvalidID {
		t.Errorf("Expected error %v, got %v", ErrInvalidID, err)
	}
}

func TestTaskSetStatus(t *testing.T) {
	t.Parallel()

	task, err := NewTask("Fregar", nil, uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	if err := task.SetStatus(TaskStatusCompleted, at); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(at) {
		t.Errorf("Expected CompletedAt %v, got %v", at, task.CompletedAt)
	}

	if err := task.SetStatus(TaskStatusInProgress, at.Add(time.Hour)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.CompletedAt != nil {
		t.Errorf("Expected CompletedAt to be cleared, got %v", task.CompletedAt)
	}

	if err := task.SetStatus("Archivada", at); err != ErrInvalidStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidStatus, err)
	}
}

func TestTaskSizePointsAndLabels(t *testing.T) {
	t.Parallel()

	cases := map[TaskSize]struct {
		points int
		label  string
	}{
		TaskSizeSmall:  {1, "Pequeña (S)"},
		TaskSizeMedium: {2, "Mediana (M)"},
		TaskSizeLarge:  {3, "Grande (L)"},
	}
	for size, want := range cases {
		if got := size.Points(); got != want.points {
			t.Errorf("%s: expected %d points, got %d", size, want.points, got)
		}
		if got := size.Label(); got != want.label {
			t.Errorf("%s: expected label %q, got %q", size, want.label, got)
		}
	}
	if TaskSize("XL").Valid() {
		t.Error("Expected unknown size to be invalid")
	}
}
