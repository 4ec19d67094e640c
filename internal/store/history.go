package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tareaspendientes/tareas-api/internal/domain"
)

// HistoryStore is the append-only audit log of task changes.
// Entries outlive the tasks they describe.
type HistoryStore interface {
	// Append records a new audit entry.
	Append(ctx context.Context, entry *domain.HistoryEntry) error

	// ListByTask returns a task's entries, newest first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.HistoryView, error)

	// List returns one page of the whole log, newest first, together with
	// the total number of entries.
	List(ctx context.Context, limit, offset int) ([]*domain.HistoryView, int, error)
}
