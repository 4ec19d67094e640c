package notify

import (
	"context"
	"log/slog"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/worker"
)

const assignmentJobType = "assignment_email"

type assignmentMailer interface {
	SendAssignment(ctx context.Context, to, name string, task *domain.TaskView, sender string) error
}

// Dispatcher hands assignment e-mails to the worker pool so callers never
// wait on SMTP.
type Dispatcher struct {
	mailer assignmentMailer
	jobs   worker.Enqueuer
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher sending through mailer.
func NewDispatcher(mailer *Mailer, jobs worker.Enqueuer, logger *slog.Logger) *Dispatcher {
	return newDispatcher(mailer, jobs, logger)
}

func newDispatcher(mailer assignmentMailer, jobs worker.Enqueuer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{mailer: mailer, jobs: jobs, logger: logger.With("component", "notification_dispatcher")}
}

// SendAssignment queues the e-mail. Failures are logged, never returned.
func (d *Dispatcher) SendAssignment(_ context.Context, to, name string, task *domain.TaskView, sender string) {
	job := worker.NewFuncJob(assignmentJobType, func(ctx context.Context) error {
		return d.mailer.SendAssignment(ctx, to, name, task, sender)
	})
	if err := d.jobs.Enqueue(job); err != nil {
		d.logger.Warn("failed to queue assignment email", "task_id", task.ID, "error", err)
	}
}
