package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/events"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// SystemSender is the sender name shown in assignment emails for generated tasks.
const SystemSender = "Sistema (Tarea Recurrente)"

// Notifier delivers the "task assigned to you" message. Implementations must
// not block the caller on delivery and report their own failures.
type Notifier interface {
	SendAssignment(ctx context.Context, to, name string, task *domain.TaskView, sender string)
}

// Config holds the generator settings.
type Config struct {
	// SystemUserID is recorded as creator and history actor of generated tasks.
	SystemUserID uuid.UUID
	// TemplateTimeout bounds each template's transaction. Zero means no bound.
	TemplateTimeout time.Duration
	// Concurrency is the number of templates processed at once. Values below 1 mean 1.
	Concurrency int
	// Location is the household time zone. Nil keeps the location of the instant passed to Run.
	Location *time.Location
}

// Outcome classifies what happened to one due template.
type Outcome int

// Possible outcomes.
const (
	OutcomeGenerated Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGenerated:
		return "generated"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result is the outcome for a single due template.
type Result struct {
	TemplateID uuid.UUID
	Title      string
	Outcome    Outcome
	// Task is set when the outcome is OutcomeGenerated.
	Task *domain.TaskView
	// Err explains a skip or a failure.
	Err error
}

// Report summarises one sweep. Results are ordered by template ID.
type Report struct {
	RunAt   time.Time
	Results []Result
}

// Count returns how many results have outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Tasks returns the tasks generated by the sweep.
func (r *Report) Tasks() []*domain.TaskView {
	var out []*domain.TaskView
	for _, res := range r.Results {
		if res.Outcome == OutcomeGenerated {
			out = append(out, res.Task)
		}
	}
	return out
}

// Generator creates the tasks owed by due templates.
type Generator struct {
	templates store.PeriodicTaskLister
	tx        store.Transactor
	emitter   events.EventEmitter
	notifier  Notifier
	cfg       Config
	logger    *slog.Logger
}

// NewGenerator creates a Generator. emitter and notifier may be nil.
func NewGenerator(
	templates store.PeriodicTaskLister,
	tx store.Transactor,
	emitter events.EventEmitter,
	notifier Notifier,
	cfg Config,
	log *slog.Logger,
) (*Generator, error) {
	if templates == nil || tx == nil {
		return nil, fmt.Errorf("%w: template store and transactor are required", ErrInvalidConfig)
	}
	if cfg.SystemUserID == uuid.Nil {
		return nil, fmt.Errorf("%w: system user ID is required", ErrInvalidConfig)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}

	return &Generator{
		templates: templates,
		tx:        tx,
		emitter:   emitter,
		notifier:  notifier,
		cfg:       cfg,
		logger:    log.With("component", "task_generator"),
	}, nil
}

// Run generates one task for every template due at now. A template that fails
// is recorded in the report and does not stop the others; Run only returns an
// error when the templates cannot be listed.
func (g *Generator) Run(ctx context.Context, now time.Time) (*Report, error) {
	if g.cfg.Location != nil {
		now = now.In(g.cfg.Location)
	}
	log := logger.FromContextOrDefault(ctx, g.logger)

	templates, err := g.templates.List(ctx)
	if err != nil {
		log.Error("failed to list periodic tasks", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrListTemplates, err)
	}

	due := ResolveDue(now, templates)
	report := &Report{RunAt: now, Results: make([]Result, len(due.Items))}
	if len(due.Items) == 0 {
		return report, nil
	}

	var group errgroup.Group
	group.SetLimit(g.cfg.Concurrency)
	for i, item := range due.Items {
		group.Go(func() error {
			report.Results[i] = g.generate(ctx, log, item, now)
			return nil
		})
	}
	_ = group.Wait()

	log.Info("periodic task sweep finished",
		"due", len(due.Items),
		"generated", report.Count(OutcomeGenerated),
		"skipped", report.Count(OutcomeSkipped),
		"failed", report.Count(OutcomeFailed))

	return report, nil
}

func (g *Generator) generate(ctx context.Context, log *slog.Logger, item DueTemplate, now time.Time) Result {
	res := Result{TemplateID: item.Template.ID, Title: item.Template.Title}
	log = log.With("periodic_task_id", item.Template.ID, "frequency", item.Template.Frequency)

	txCtx := ctx
	if g.cfg.TemplateTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, g.cfg.TemplateTimeout)
		defer cancel()
	}

	view, err := g.createInstance(txCtx, item, now)
	switch {
	case err == nil:
	case IsSkip(err):
		log.Debug("periodic task skipped", "reason", err)
		res.Outcome, res.Err = OutcomeSkipped, err
		return res
	default:
		log.Error("failed to generate periodic task", "error", err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	res.Outcome, res.Task = OutcomeGenerated, view
	log.Info("generated task from periodic task", "task_id", view.ID, "source", item.Source)

	g.publish(ctx, log, view)
	return res
}

// createInstance runs the check-and-create for one template as a single
// atomic unit.
func (g *Generator) createInstance(ctx context.Context, item DueTemplate, now time.Time) (*domain.TaskView, error) {
	var view *domain.TaskView

	err := g.tx.WithinTx(ctx, func(ctx context.Context, s store.TxStores) error {
		tmpl, err := s.PeriodicTasks.GetByIDForUpdate(ctx, item.Template.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTemplateGone
			}
			return fmt.Errorf("failed to lock periodic task: %w", err)
		}

		current := ResolveDue(now, []*domain.PeriodicTask{tmpl})
		if len(current.Items) == 0 {
			if tmpl.GeneratedSince(current.Threshold(tmpl.Frequency)) {
				return ErrAlreadyGenerated
			}
			return ErrNoLongerDue
		}
		threshold := current.Items[0].Threshold
		source := current.Items[0].Source

		task := tmpl.NewInstance(g.cfg.SystemUserID, now)
		if err := s.Tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		if err := s.PeriodicTasks.MarkGenerated(ctx, tmpl.ID, now, threshold); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrAlreadyGenerated
			}
			return fmt.Errorf("failed to mark periodic task generated: %w", err)
		}

		entry := domain.NewHistoryEntry(task.ID, g.cfg.SystemUserID, domain.ActionCreated, "", source)
		entry.Timestamp = now.UTC()
		if err := s.History.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to record task history: %w", err)
		}

		view, err = s.Tasks.GetView(ctx, task.ID)
		if err != nil {
			return fmt.Errorf("failed to load generated task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// publish announces a committed task. Failures are logged only; the task exists
// regardless.
func (g *Generator) publish(ctx context.Context, log *slog.Logger, view *domain.TaskView) {
	if g.emitter != nil {
		if err := events.Emit(ctx, g.emitter, events.TaskCreated, view); err != nil {
			log.Warn("failed to emit task event", "task_id", view.ID, "error", err)
		}
	}

	if g.notifier == nil || view.AssignedTo == nil {
		return
	}
	if email := view.AssignedTo.Email; email != nil && *email != "" {
		g.notifier.SendAssignment(ctx, *email, view.AssignedTo.Name, view, SystemSender)
	}
}
