package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/events"
	"github.com/tareaspendientes/tareas-api/internal/generation"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

const taskServiceName = "task"

// Sweeper generates the tasks owed by due periodic tasks.
type Sweeper interface {
	Run(ctx context.Context, now time.Time) (*generation.Report, error)
}

// Clock returns the current time.
type Clock func() time.Time

// TaskBoard is the task list grouped by board column.
type TaskBoard struct {
	New        []*domain.TaskView `json:"Nueva"`
	InProgress []*domain.TaskView `json:"EnProgreso"`
	Completed  []*domain.TaskView `json:"Completada"`
}

// CreateTaskInput holds the fields of a manually created task.
type CreateTaskInput struct {
	Title       string
	Description *string
}

// UpdateTaskInput is a partial update of a task. Nil pointers and unset
// patches leave the field unchanged.
type UpdateTaskInput struct {
	Title        *string
	Description  Patch[string]
	Status       *domain.TaskStatus
	Size         *domain.TaskSize
	AssignedToID Patch[uuid.UUID]
	CategoryID   Patch[uuid.UUID]
}

// TaskService provides the board operations.
type TaskService interface {
	// ListGrouped runs the periodic task sweep and returns every task
	// grouped by status. A failed sweep is logged and does not fail the list.
	ListGrouped(ctx context.Context) (*TaskBoard, error)

	// Create adds a manual task created by actorID.
	Create(ctx context.Context, actorID uuid.UUID, input CreateTaskInput) (*domain.TaskView, error)

	// Update applies input to the task, recording one history entry per
	// changed field.
	Update(ctx context.Context, actorID, taskID uuid.UUID, input UpdateTaskInput) (*domain.TaskView, error)

	// Delete removes the task. Its history is kept.
	Delete(ctx context.Context, actorID, taskID uuid.UUID) error

	// History returns the audit trail of a task, newest first.
	History(ctx context.Context, taskID uuid.UUID) ([]*domain.HistoryView, error)
}

// TaskServiceOption configures a TaskService.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces time.Now.
func WithClock(clock Clock) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if clock != nil {
			s.now = clock
		}
	}
}

type taskServiceImpl struct {
	tasks    store.TaskStore
	history  store.HistoryStore
	tx       store.Transactor
	sweeper  Sweeper
	emitter  events.EventEmitter
	notifier generation.Notifier
	now      Clock
	logger   *slog.Logger
}

// NewTaskService creates a TaskService. sweeper, emitter and notifier may be nil.
func NewTaskService(
	tasks store.TaskStore,
	history store.HistoryStore,
	tx store.Transactor,
	sweeper Sweeper,
	emitter events.EventEmitter,
	notifier generation.Notifier,
	log *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if tasks == nil || history == nil || tx == nil {
		return nil, &ServiceError{
			Service:   taskServiceName,
			Operation: "create_service",
			Message:   "task store, history store and transactor are required",
		}
	}
	if log == nil {
		log = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:    tasks,
		history:  history,
		tx:       tx,
		sweeper:  sweeper,
		emitter:  emitter,
		notifier: notifier,
		now:      time.Now,
		logger:   log.With("service", "task"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *taskServiceImpl) ListGrouped(ctx context.Context) (*TaskBoard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.sweeper != nil {
		if _, err := s.sweeper.Run(ctx, s.now()); err != nil {
			log.Error("periodic task sweep failed, listing existing tasks", "error", err)
		}
	}

	views, err := s.tasks.ListViews(ctx)
	if err != nil {
		return nil, NewServiceError(taskServiceName, "list_tasks", "failed to list tasks", err)
	}

	board := &TaskBoard{
		New:        []*domain.TaskView{},
		InProgress: []*domain.TaskView{},
		Completed:  []*domain.TaskView{},
	}
	for _, v := range views {
		switch v.Status {
		case domain.TaskStatusNew:
			board.New = append(board.New, v)
		case domain.TaskStatusInProgress:
			board.InProgress = append(board.InProgress, v)
		case domain.TaskStatusCompleted:
			board.Completed = append(board.Completed, v)
		}
	}
	return board, nil
}

func (s *taskServiceImpl) Create(
	ctx context.Context,
	actorID uuid.UUID,
	input CreateTaskInput,
) (*domain.TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(input.Title, input.Description, actorID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now

	var view *domain.TaskView
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st store.TxStores) error {
		if err := st.Tasks.Create(ctx, task); err != nil {
			return err
		}
		entry := domain.NewHistoryEntry(task.ID, actorID, domain.ActionCreated, "", task.Title)
		entry.Timestamp = now
		if err := st.History.Append(ctx, entry); err != nil {
			return err
		}
		view, err = st.Tasks.GetView(ctx, task.ID)
		return err
	})
	if err != nil {
		log.Error("failed to create task", "error", err)
		return nil, NewServiceError(taskServiceName, "create_task", "failed to create task", err)
	}

	log.Info("task created", "task_id", task.ID)
	s.emit(ctx, log, events.TaskCreated, view)
	return view, nil
}

// assignment is the e-mail owed after an assignee change.
type assignment struct {
	to, name, sender string
}

func (s *taskServiceImpl) Update(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	input UpdateTaskInput,
) (*domain.TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("task_id", taskID)
	now := s.now().UTC()

	var (
		view    *domain.TaskView
		changed bool
		notify  *assignment
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.TxStores) error {
		task, err := st.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		changes, mail, err := s.applyUpdate(ctx, st, task, input, now)
		if err != nil {
			return err
		}

		if len(changes) > 0 {
			changed = true
			task.UpdatedAt = now
			if err := st.Tasks.Update(ctx, task); err != nil {
				return err
			}
			for _, c := range changes {
				entry := domain.NewHistoryEntry(task.ID, actorID, c.action, c.previous, c.next)
				entry.Timestamp = now
				if err := st.History.Append(ctx, entry); err != nil {
					return err
				}
			}
		}

		if mail != nil {
			actor, err := st.Users.GetByID(ctx, actorID)
			if err != nil {
				return err
			}
			mail.sender = actor.Name
			notify = mail
		}

		view, err = st.Tasks.GetView(ctx, task.ID)
		return err
	})
	if err != nil {
		return nil, NewServiceError(taskServiceName, "update_task", "failed to update task", err)
	}
	if !changed {
		return view, nil
	}

	log.Info("task updated")
	s.emit(ctx, log, events.TaskUpdated, view)
	if notify != nil && s.notifier != nil {
		s.notifier.SendAssignment(ctx, notify.to, notify.name, view, notify.sender)
	}
	return view, nil
}

type fieldChange struct {
	action   domain.HistoryAction
	previous string
	next     string
}

// applyUpdate mutates task and returns the recorded changes plus the
// assignment e-mail to send, if any.
func (s *taskServiceImpl) applyUpdate(
	ctx context.Context,
	st store.TxStores,
	task *domain.Task,
	input UpdateTaskInput,
	now time.Time,
) ([]fieldChange, *assignment, error) {
	var changes []fieldChange
	var mail *assignment

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, nil, domain.ErrEmptyTitle
		}
		if title != task.Title {
			changes = append(changes, fieldChange{domain.ActionTitleUpdated, task.Title, title})
			task.Title = title
		}
	}

	if input.Description.Set {
		next := trimmed(input.Description.Value)
		if deref(next) != deref(task.Description) {
			changes = append(changes, fieldChange{domain.ActionDescriptionUpdated, deref(task.Description), deref(next)})
			task.Description = next
		}
	}

	if input.Status != nil && *input.Status != task.Status {
		previous := task.Status
		if err := task.SetStatus(*input.Status, now); err != nil {
			return nil, nil, err
		}
		changes = append(changes, fieldChange{domain.ActionStatusChanged, string(previous), string(task.Status)})
	}

	if input.Size != nil && *input.Size != task.Size {
		if !input.Size.Valid() {
			return nil, nil, domain.ErrInvalidSize
		}
		changes = append(changes, fieldChange{domain.ActionSizeChanged, string(task.Size), string(*input.Size)})
		task.Size = *input.Size
	}

	if input.AssignedToID.Set && !sameID(input.AssignedToID.Value, task.AssignedToID) {
		previous := s.userName(ctx, st, task.AssignedToID)
		if id := input.AssignedToID.Value; id != nil {
			user, err := st.Users.GetByID(ctx, *id)
			if err != nil || !user.IsApproved {
				if err != nil && !store.IsNotFoundError(err) {
					return nil, nil, err
				}
				return nil, nil, ErrInvalidAssignee
			}
			changes = append(changes, fieldChange{domain.ActionAssigned, previous, user.Name})
			if user.Email != nil && *user.Email != "" {
				mail = &assignment{to: *user.Email, name: user.Name}
			}
		} else {
			changes = append(changes, fieldChange{domain.ActionUnassigned, previous, ""})
		}
		task.AssignedToID = input.AssignedToID.Value
	}

	if input.CategoryID.Set && !sameID(input.CategoryID.Value, task.CategoryID) {
		previous := s.categoryName(ctx, st, task.CategoryID)
		next := ""
		if id := input.CategoryID.Value; id != nil {
			c, err := st.Categories.GetByID(ctx, *id)
			if err != nil {
				if store.IsNotFoundError(err) {
					return nil, nil, ErrInvalidCategory
				}
				return nil, nil, err
			}
			next = c.Name
		}
		changes = append(changes, fieldChange{domain.ActionCategoryChanged, previous, next})
		task.CategoryID = input.CategoryID.Value
	}

	return changes, mail, nil
}

func (s *taskServiceImpl) userName(ctx context.Context, st store.TxStores, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	u, err := st.Users.GetByID(ctx, *id)
	if err != nil {
		return ""
	}
	return u.Name
}

func (s *taskServiceImpl) categoryName(ctx context.Context, st store.TxStores, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	c, err := st.Categories.GetByID(ctx, *id)
	if err != nil {
		return ""
	}
	return c.Name
}

func (s *taskServiceImpl) Delete(ctx context.Context, actorID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With("task_id", taskID)
	now := s.now().UTC()

	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.TxStores) error {
		task, err := st.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		entry := domain.NewHistoryEntry(task.ID, actorID, domain.ActionDeleted, task.Title, "")
		entry.Timestamp = now
		if err := st.History.Append(ctx, entry); err != nil {
			return err
		}
		return st.Tasks.Delete(ctx, task.ID)
	})
	if err != nil {
		return NewServiceError(taskServiceName, "delete_task", "failed to delete task", err)
	}

	log.Info("task deleted")
	s.emit(ctx, log, events.TaskDeleted, events.TaskDeletedPayload{ID: taskID})
	return nil
}

func (s *taskServiceImpl) History(ctx context.Context, taskID uuid.UUID) ([]*domain.HistoryView, error) {
	entries, err := s.history.ListByTask(ctx, taskID)
	if err != nil {
		return nil, NewServiceError(taskServiceName, "task_history", "failed to load task history", err)
	}
	if entries == nil {
		entries = []*domain.HistoryView{}
	}
	return entries, nil
}

func (s *taskServiceImpl) emit(ctx context.Context, log *slog.Logger, eventType string, payload interface{}) {
	if s.emitter == nil {
		return
	}
	if err := events.Emit(ctx, s.emitter, eventType, payload); err != nil {
		log.Warn("failed to emit task event", "event_type", eventType, "error", err)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
