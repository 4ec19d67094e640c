package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/worker"
)

// inlineEnqueuer runs jobs on the calling goroutine.
type inlineEnqueuer struct {
	errs []error
}

func (e *inlineEnqueuer) Enqueue(job worker.Job) error {
	e.errs = append(e.errs, job.Execute(context.Background()))
	return nil
}

type rejectingEnqueuer struct{}

func (rejectingEnqueuer) Enqueue(worker.Job) error { return worker.ErrQueueFull }

var errSend = errors.New("send failed")

func testLogger(t *testing.T) (*slog.Logger, *logger.TestLogBuffer) {
	t.Helper()
	return logger.GetTestLogger(t)
}

func strPtr(s string) *string { return &s }

func sampleTask() *domain.TaskView {
	periodic := uuid.New()
	return &domain.TaskView{
		Task: domain.Task{
			ID:             uuid.New(),
			Title:          "Limpiar <baño>",
			Description:    strPtr("Con lejía"),
			Size:           domain.TaskSizeMedium,
			Status:         domain.TaskStatusNew,
			PeriodicTaskID: &periodic,
			CreatedAt:      time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		},
		Category:   &domain.Category{ID: uuid.New(), Name: "Baño", Emoji: "🛁"},
		AssignedTo: &domain.UserSummary{ID: uuid.New(), Name: "Ana María López", Email: strPtr("ana@example.com")},
	}
}
