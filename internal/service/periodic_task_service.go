package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/events"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

const periodicTaskServiceName = "periodic_task"

// PeriodicTaskInput holds the fields of a new periodic task.
type PeriodicTaskInput struct {
	Title           string
	Description     *string
	Size            domain.TaskSize
	Frequency       domain.Frequency
	DayOfWeek       *int
	MonthOfYear     *int
	ActiveFromMonth *int
	ActiveToMonth   *int
	CategoryID      uuid.UUID
	AssignedToID    *uuid.UUID
}

// PeriodicTaskPatch is a partial update of a periodic task. After it is
// applied the template is normalized for its frequency and validated again.
type PeriodicTaskPatch struct {
	Title           *string
	Description     Patch[string]
	Size            *domain.TaskSize
	Frequency       *domain.Frequency
	DayOfWeek       Patch[int]
	MonthOfYear     Patch[int]
	ActiveFromMonth Patch[int]
	ActiveToMonth   Patch[int]
	CategoryID      *uuid.UUID
	AssignedToID    Patch[uuid.UUID]
}

// PeriodicTaskService manages recurring-task templates.
type PeriodicTaskService interface {
	List(ctx context.Context) ([]*domain.PeriodicTaskView, error)
	Create(ctx context.Context, input PeriodicTaskInput) (*domain.PeriodicTaskView, error)
	Update(ctx context.Context, id uuid.UUID, patch PeriodicTaskPatch) (*domain.PeriodicTaskView, error)

	// Delete removes the template. With deletePending, generated tasks that
	// are not completed yet are deleted in the same transaction; their IDs
	// are returned.
	Delete(ctx context.Context, id uuid.UUID, deletePending bool) ([]uuid.UUID, error)
}

type periodicTaskServiceImpl struct {
	templates store.PeriodicTaskStore
	tx        store.Transactor
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewPeriodicTaskService creates a PeriodicTaskService. emitter may be nil.
func NewPeriodicTaskService(
	templates store.PeriodicTaskStore,
	tx store.Transactor,
	emitter events.EventEmitter,
	log *slog.Logger,
) (PeriodicTaskService, error) {
	if templates == nil || tx == nil {
		return nil, &ServiceError{
			Service:   periodicTaskServiceName,
			Operation: "create_service",
			Message:   "periodic task store and transactor are required",
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &periodicTaskServiceImpl{
		templates: templates,
		tx:        tx,
		emitter:   emitter,
		logger:    log.With("service", "periodic_task"),
	}, nil
}

func (s *periodicTaskServiceImpl) List(ctx context.Context) ([]*domain.PeriodicTaskView, error) {
	views, err := s.templates.ListViews(ctx)
	if err != nil {
		return nil, NewServiceError(periodicTaskServiceName, "list", "failed to list periodic tasks", err)
	}
	if views == nil {
		views = []*domain.PeriodicTaskView{}
	}
	return views, nil
}

func (s *periodicTaskServiceImpl) Create(
	ctx context.Context,
	input PeriodicTaskInput,
) (*domain.PeriodicTaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pt, err := domain.NewPeriodicTask(domain.PeriodicTask{
		Title:           input.Title,
		Description:     input.Description,
		Size:            input.Size,
		Frequency:       input.Frequency,
		DayOfWeek:       input.DayOfWeek,
		MonthOfYear:     input.MonthOfYear,
		ActiveFromMonth: input.ActiveFromMonth,
		ActiveToMonth:   input.ActiveToMonth,
		CategoryID:      input.CategoryID,
		AssignedToID:    input.AssignedToID,
	})
	if err != nil {
		return nil, err
	}

	var view *domain.PeriodicTaskView
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st store.TxStores) error {
		if err := checkReferences(ctx, st, &pt.CategoryID, pt.AssignedToID); err != nil {
			return err
		}
		if err := st.PeriodicTasks.Create(ctx, pt); err != nil {
			return err
		}
		view, err = st.PeriodicTasks.GetView(ctx, pt.ID)
		return err
	})
	if err != nil {
		return nil, NewServiceError(periodicTaskServiceName, "create", "failed to create periodic task", err)
	}

	log.Info("periodic task created", "periodic_task_id", pt.ID, "frequency", pt.Frequency)
	return view, nil
}

func (s *periodicTaskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	patch PeriodicTaskPatch,
) (*domain.PeriodicTaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var view *domain.PeriodicTaskView
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.TxStores) error {
		pt, err := st.PeriodicTasks.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		categoryChanged := patch.CategoryID != nil && *patch.CategoryID != pt.CategoryID
		assigneeChanged := patch.AssignedToID.Set && !sameID(patch.AssignedToID.Value, pt.AssignedToID)
		applyPeriodicPatch(pt, patch)
		pt.Normalize()
		if err := pt.Validate(); err != nil {
			return err
		}

		var category, assignee *uuid.UUID
		if categoryChanged {
			category = &pt.CategoryID
		}
		if assigneeChanged {
			assignee = pt.AssignedToID
		}
		if err := checkReferences(ctx, st, category, assignee); err != nil {
			return err
		}

		pt.UpdatedAt = time.Now().UTC()
		if err := st.PeriodicTasks.Update(ctx, pt); err != nil {
			return err
		}
		view, err = st.PeriodicTasks.GetView(ctx, pt.ID)
		return err
	})
	if err != nil {
		return nil, NewServiceError(periodicTaskServiceName, "update", "failed to update periodic task", err)
	}

	log.Info("periodic task updated", "periodic_task_id", id)
	return view, nil
}

func applyPeriodicPatch(pt *domain.PeriodicTask, p PeriodicTaskPatch) {
	if p.Title != nil {
		pt.Title = *p.Title
	}
	if p.Description.Set {
		pt.Description = p.Description.Value
	}
	if p.Size != nil {
		pt.Size = *p.Size
	}
	if p.Frequency != nil {
		pt.Frequency = *p.Frequency
	}
	if p.DayOfWeek.Set {
		pt.DayOfWeek = p.DayOfWeek.Value
	}
	if p.MonthOfYear.Set {
		pt.MonthOfYear = p.MonthOfYear.Value
	}
	if p.ActiveFromMonth.Set {
		pt.ActiveFromMonth = p.ActiveFromMonth.Value
	}
	if p.ActiveToMonth.Set {
		pt.ActiveToMonth = p.ActiveToMonth.Value
	}
	if p.CategoryID != nil {
		pt.CategoryID = *p.CategoryID
	}
	if p.AssignedToID.Set {
		pt.AssignedToID = p.AssignedToID.Value
	}
}

// checkReferences verifies that a non-nil category exists and a non-nil
// assignee is an approved user.
func checkReferences(ctx context.Context, st store.TxStores, categoryID, assigneeID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := st.Categories.GetByID(ctx, *categoryID); err != nil {
			if store.IsNotFoundError(err) {
				return ErrInvalidCategory
			}
			return err
		}
	}
	if assigneeID != nil {
		user, err := st.Users.GetByID(ctx, *assigneeID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrInvalidAssignee
			}
			return err
		}
		if !user.IsApproved {
			return ErrInvalidAssignee
		}
	}
	return nil
}

func (s *periodicTaskServiceImpl) Delete(ctx context.Context, id uuid.UUID, deletePending bool) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("periodic_task_id", id)

	var removed []uuid.UUID
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.TxStores) error {
		if _, err := st.PeriodicTasks.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if deletePending {
			ids, err := st.Tasks.DeletePendingByTemplate(ctx, id)
			if err != nil {
				return err
			}
			removed = ids
		}
		return st.PeriodicTasks.Delete(ctx, id)
	})
	if err != nil {
		return nil, NewServiceError(periodicTaskServiceName, "delete", "failed to delete periodic task", err)
	}

	log.Info("periodic task deleted", "pending_tasks_deleted", len(removed))
	if s.emitter != nil {
		for _, taskID := range removed {
			if err := events.Emit(ctx, s.emitter, events.TaskDeleted, events.TaskDeletedPayload{ID: taskID}); err != nil {
				log.Warn("failed to emit task event", "task_id", taskID, "error", err)
			}
		}
	}
	return removed, nil
}
