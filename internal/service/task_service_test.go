package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/events"
	"github.com/tareaspendientes/tareas-api/internal/mocks"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/service"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

type taskFixture struct {
	tasks      *mocks.TaskStore
	history    *mocks.HistoryStore
	users      *mocks.UserStore
	categories *mocks.CategoryStore
	tx         *mocks.Transactor
	emitter    *mocks.EventEmitter
	notifier   *mocks.Notifier
	sweeper    *fakeSweeper
	logs       *logger.TestLogBuffer
	svc        service.TaskService
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	f := &taskFixture{
		tasks:      new(mocks.TaskStore),
		history:    new(mocks.HistoryStore),
		users:      new(mocks.UserStore),
		categories: new(mocks.CategoryStore),
		emitter:    &mocks.EventEmitter{},
		notifier:   &mocks.Notifier{},
		sweeper:    &fakeSweeper{},
	}
	f.tx = mocks.NewTransactor(mocks.TxStores{
		Tasks:      f.tasks,
		History:    f.history,
		Users:      f.users,
		Categories: f.categories,
	})

	log, buf := logger.GetTestLogger(t)
	f.logs = buf
	svc, err := service.NewTaskService(f.tasks, f.history, f.tx, f.sweeper, f.emitter, f.notifier, log,
		service.WithClock(clock))
	require.NoError(t, err)
	f.svc = svc
	return f
}

func newTask(actor uuid.UUID) *domain.Task {
	return &domain.Task{
		ID:          uuid.New(),
		Title:       "Barrer la terraza",
		Size:        domain.TaskSizeSmall,
		Status:      domain.TaskStatusNew,
		CreatedByID: actor,
		CreatedAt:   fixedNow.AddDate(0, 0, -1),
		UpdatedAt:   fixedNow.AddDate(0, 0, -1),
	}
}

func TestNewTaskService_RequiresStores(t *testing.T) {
	_, err := service.NewTaskService(nil, nil, nil, nil, nil, nil, nil)
	var svcErr *service.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestTaskService_ListGrouped(t *testing.T) {
	f := newTaskFixture(t)
	views := []*domain.TaskView{
		{Task: domain.Task{ID: uuid.New(), Status: domain.TaskStatusNew}},
		{Task: domain.Task{ID: uuid.New(), Status: domain.TaskStatusCompleted}},
		{Task: domain.Task{ID: uuid.New(), Status: domain.TaskStatusNew}},
	}
	f.tasks.On("ListViews", anyCtx).Return(views, nil)

	board, err := f.svc.ListGrouped(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []*domain.TaskView{views[0], views[2]}, board.New)
	assert.Empty(t, board.InProgress)
	assert.NotNil(t, board.InProgress)
	assert.Equal(t, []*domain.TaskView{views[1]}, board.Completed)
	assert.Equal(t, []time.Time{fixedNow}, f.sweeper.calls)
}

func TestTaskService_ListGrouped_SweepFailureStillLists(t *testing.T) {
	f := newTaskFixture(t)
	f.sweeper.err = errors.New("list templates failed")
	f.tasks.On("ListViews", anyCtx).Return([]*domain.TaskView{}, nil)

	board, err := f.svc.ListGrouped(t.Context())
	require.NoError(t, err)
	assert.Empty(t, board.New)
	logger.AssertLogContains(t, f.logs, "periodic task sweep failed")
}

func TestTaskService_ListGrouped_StoreError(t *testing.T) {
	f := newTaskFixture(t)
	f.tasks.On("ListViews", anyCtx).Return(nil, errors.New("connection reset"))

	_, err := f.svc.ListGrouped(t.Context())
	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "list_tasks", svcErr.Operation)
}

func TestTaskService_Create(t *testing.T) {
	actor := uuid.New()

	t.Run("blank title", func(t *testing.T) {
		f := newTaskFixture(t)
		_, err := f.svc.Create(t.Context(), actor, service.CreateTaskInput{Title: "   "})
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)
		assert.Equal(t, 0, f.tx.Calls())
	})

	t.Run("success", func(t *testing.T) {
		f := newTaskFixture(t)
		var created *domain.Task
		f.tasks.On("Create", anyCtx, mock.AnythingOfType("*domain.Task")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Task) }).
			Return(nil)
		f.history.On("Append", anyCtx, mock.Anything).Return(nil)
		f.tasks.On("GetView", anyCtx, mock.Anything).Return(&domain.TaskView{}, nil)

		view, err := f.svc.Create(t.Context(), actor, service.CreateTaskInput{
			Title:       "  Regar plantas ",
			Description: strPtr(" "),
		})
		require.NoError(t, err)
		require.NotNil(t, view)

		require.NotNil(t, created)
		assert.Equal(t, "Regar plantas", created.Title)
		assert.Nil(t, created.Description)
		assert.Equal(t, actor, created.CreatedByID)
		assert.Equal(t, fixedNow, created.CreatedAt)

		entries := appended(f.history)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionCreated, entries[0].Action)
		assert.Nil(t, entries[0].PreviousValue)
		assert.Equal(t, "Regar plantas", value(entries[0].NewValue))
		assert.Equal(t, created.ID, entries[0].TaskID)
		assert.Equal(t, []string{events.TaskCreated}, f.emitter.Types())
	})

	t.Run("store failure emits nothing", func(t *testing.T) {
		f := newTaskFixture(t)
		f.tasks.On("Create", anyCtx, mock.Anything).Return(errors.New("disk full"))

		_, err := f.svc.Create(t.Context(), actor, service.CreateTaskInput{Title: "Fregar"})
		assert.Error(t, err)
		assert.Empty(t, f.emitter.Events())
	})
}

func TestTaskService_Update_Status(t *testing.T) {
	f := newTaskFixture(t)
	actor := uuid.New()
	task := newTask(actor)

	f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
	f.tasks.On("Update", anyCtx, mock.MatchedBy(func(t *domain.Task) bool {
		return t.Status == domain.TaskStatusCompleted &&
			t.CompletedAt != nil && t.CompletedAt.Equal(fixedNow) &&
			t.UpdatedAt.Equal(fixedNow)
	})).Return(nil)
	f.history.On("Append", anyCtx, mock.Anything).Return(nil)
	f.tasks.On("GetView", anyCtx, task.ID).Return(&domain.TaskView{Task: *task}, nil)

	status := domain.TaskStatusCompleted
	_, err := f.svc.Update(t.Context(), actor, task.ID, service.UpdateTaskInput{Status: &status})
	require.NoError(t, err)

	entries := appended(f.history)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionStatusChanged, entries[0].Action)
	assert.Equal(t, "Nueva", value(entries[0].PreviousValue))
	assert.Equal(t, "Completada", value(entries[0].NewValue))
	assert.Equal(t, actor, entries[0].UserID)
	assert.Equal(t, fixedNow, entries[0].Timestamp)
	assert.Equal(t, []string{events.TaskUpdated}, f.emitter.Types())
	f.tasks.AssertExpectations(t)
}

func TestTaskService_Update_ReopenClearsCompletedAt(t *testing.T) {
	f := newTaskFixture(t)
	actor := uuid.New()
	task := newTask(actor)
	done := fixedNow.AddDate(0, 0, -1)
	task.Status, task.CompletedAt = domain.TaskStatusCompleted, &done

	f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
	f.tasks.On("Update", anyCtx, mock.MatchedBy(func(t *domain.Task) bool {
		return t.Status == domain.TaskStatusInProgress && t.CompletedAt == nil
	})).Return(nil)
	f.history.On("Append", anyCtx, mock.Anything).Return(nil)
	f.tasks.On("GetView", anyCtx, task.ID).Return(&domain.TaskView{}, nil)

	status := domain.TaskStatusInProgress
	_, err := f.svc.Update(t.Context(), actor, task.ID, service.UpdateTaskInput{Status: &status})
	require.NoError(t, err)
	f.tasks.AssertExpectations(t)
}

func TestTaskService_Update_SeveralFields(t *testing.T) {
	f := newTaskFixture(t)
	actor := uuid.New()
	task := newTask(actor)
	task.Description = strPtr("antes")

	f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
	f.tasks.On("Update", anyCtx, mock.Anything).Return(nil)
	f.history.On("Append", anyCtx, mock.Anything).Return(nil)
	f.tasks.On("GetView", anyCtx, task.ID).Return(&domain.TaskView{}, nil)

	size := domain.TaskSizeLarge
	_, err := f.svc.Update(t.Context(), actor, task.ID, service.UpdateTaskInput{
		Title:       strPtr("Barrer y fregar la terraza"),
		Description: service.Null[string](),
		Size:        &size,
	})
	require.NoError(t, err)

	entries := appended(f.history)
	assert.Equal(t, []domain.HistoryAction{
		domain.ActionTitleUpdated,
		domain.ActionDescriptionUpdated,
		domain.ActionSizeChanged,
	}, actions(entries))
	assert.Equal(t, "antes", value(entries[1].PreviousValue))
	assert.Nil(t, entries[1].NewValue)
	assert.Equal(t, "Pequena", value(entries[2].PreviousValue))
	assert.Equal(t, "Grande", value(entries[2].NewValue))

	assert.Equal(t, "Barrer y fregar la terraza", task.Title)
	assert.Nil(t, task.Description)
	assert.Equal(t, domain.TaskSizeLarge, task.Size)
}

func TestTaskService_Update_NoChanges(t *testing.T) {
	f := newTaskFixture(t)
	actor := uuid.New()
	task := newTask(actor)

	f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
	f.tasks.On("GetView", anyCtx, task.ID).Return(&domain.TaskView{Task: *task}, nil)

	view, err := f.svc.Update(t.Context(), actor, task.ID, service.UpdateTaskInput{
		Title: strPtr(" Barrer la terraza "),
	})
	require.NoError(t, err)
	assert.Equal(t, task.ID, view.ID)
	f.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Empty(t, appended(f.history))
	assert.Empty(t, f.emitter.Events())
}

func TestTaskService_Update_Assignment(t *testing.T) {
	actorID := uuid.New()
	actor := &domain.User{ID: actorID, Name: "Ana García", IsApproved: true}

	t.Run("approved assignee is notified", func(t *testing.T) {
		f := newTaskFixture(t)
		task := newTask(actorID)
		assignee := &domain.User{ID: uuid.New(), Name: "Luis", Email: strPtr("luis@example.com"), IsApproved: true}

		f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
		f.users.On("GetByID", anyCtx, assignee.ID).Return(assignee, nil)
		f.users.On("GetByID", anyCtx, actorID).Return(actor, nil)
		f.tasks.On("Update", anyCtx, mock.Anything).Return(nil)
		f.history.On("Append", anyCtx, mock.Anything).Return(nil)
		view := &domain.TaskView{Task: *task}
		f.tasks.On("GetView", anyCtx, task.ID).Return(view, nil)

		_, err := f.svc.Update(t.Context(), actorID, task.ID, service.UpdateTaskInput{
			AssignedToID: service.Val(assignee.ID),
		})
		require.NoError(t, err)

		entries := appended(f.history)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionAssigned, entries[0].Action)
		assert.Nil(t, entries[0].PreviousValue)
		assert.Equal(t, "Luis", value(entries[0].NewValue))

		assert.Equal(t, []mocks.Assignment{{
			To:     "luis@example.com",
			Name:   "Luis",
			Task:   view,
			Sender: "Ana García",
		}}, f.notifier.Sent())
	})

	t.Run("unassign records previous name", func(t *testing.T) {
		f := newTaskFixture(t)
		task := newTask(actorID)
		previous := &domain.User{ID: uuid.New(), Name: "Marta", IsApproved: true}
		task.AssignedToID = &previous.ID

		f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
		f.users.On("GetByID", anyCtx, previous.ID).Return(previous, nil)
		f.tasks.On("Update", anyCtx, mock.Anything).Return(nil)
		f.history.On("Append", anyCtx, mock.Anything).Return(nil)
		f.tasks.On("GetView", anyCtx, task.ID).Return(&domain.TaskView{}, nil)

		_, err := f.svc.Update(t.Context(), actorID, task.ID, service.UpdateTaskInput{
			AssignedToID: service.Null[uuid.UUID](),
		})
		require.NoError(t, err)

		entries := appended(f.history)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionUnassigned, entries[0].Action)
		assert.Equal(t, "Marta", value(entries[0].PreviousValue))
		assert.Nil(t, task.AssignedToID)
		assert.Empty(t, f.notifier.Sent())
	})

	for name, lookup := range map[string]func(id uuid.UUID) (*domain.User, error){
		"pending approval": func(id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Nuevo", IsApproved: false}, nil
		},
		"unknown user": func(uuid.UUID) (*domain.User, error) {
			return nil, store.ErrUserNotFound
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := newTaskFixture(t)
			task := newTask(actorID)
			target := uuid.New()
			u, lookupErr := lookup(target)

			f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
			f.users.On("GetByID", anyCtx, target).Return(u, lookupErr)

			_, err := f.svc.Update(t.Context(), actorID, task.ID, service.UpdateTaskInput{
				AssignedToID: service.Val(target),
			})
			assert.ErrorIs(t, err, service.ErrInvalidAssignee)
			f.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			assert.Empty(t, f.emitter.Events())
		})
	}
}

func TestTaskService_Update_Category(t *testing.T) {
	actor := uuid.New()

	t.Run("change records names", func(t *testing.T) {
		f := newTaskFixture(t)
		task := newTask(actor)
		kitchen := &domain.Category{ID: uuid.New(), Name: "Cocina", Emoji: "🍳"}
		bath := &domain.Category{ID: uuid.New(), Name: "Baño", Emoji: "🛁"}
		task.CategoryID = &kitchen.ID

		f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
		f.categories.On("GetByID", anyCtx, kitchen.ID).Return(kitchen, nil)
		f.categories.On("GetByID", anyCtx, bath.ID).Return(bath, nil)
		f.tasks.On("Update", anyCtx, mock.Anything).Return(nil)
		f.history.On("Append", anyCtx, mock.Anything).Return(nil)
		f.tasks.On("GetView", anyCtx, task.ID).Return(&domain.TaskView{}, nil)

		_, err := f.svc.Update(t.Context(), actor, task.ID, service.UpdateTaskInput{
			CategoryID: service.Val(bath.ID),
		})
		require.NoError(t, err)

		entries := appended(f.history)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionCategoryChanged, entries[0].Action)
		assert.Equal(t, "Cocina", value(entries[0].PreviousValue))
		assert.Equal(t, "Baño", value(entries[0].NewValue))
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newTaskFixture(t)
		task := newTask(actor)
		missing := uuid.New()

		f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
		f.categories.On("GetByID", anyCtx, missing).Return(nil, store.ErrCategoryNotFound)

		_, err := f.svc.Update(t.Context(), actor, task.ID, service.UpdateTaskInput{
			CategoryID: service.Val(missing),
		})
		assert.ErrorIs(t, err, service.ErrInvalidCategory)
	})
}

func TestTaskService_Update_Errors(t *testing.T) {
	actor := uuid.New()

	t.Run("not found", func(t *testing.T) {
		f := newTaskFixture(t)
		id := uuid.New()
		f.tasks.On("GetByID", anyCtx, id).Return(nil, store.ErrTaskNotFound)

		_, err := f.svc.Update(t.Context(), actor, id, service.UpdateTaskInput{Title: strPtr("x")})
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newTaskFixture(t)
		task := newTask(actor)
		f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)

		status := domain.TaskStatus("Hecha")
		_, err := f.svc.Update(t.Context(), actor, task.ID, service.UpdateTaskInput{Status: &status})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("invalid size", func(t *testing.T) {
		f := newTaskFixture(t)
		task := newTask(actor)
		f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)

		size := domain.TaskSize("XL")
		_, err := f.svc.Update(t.Context(), actor, task.ID, service.UpdateTaskInput{Size: &size})
		assert.ErrorIs(t, err, domain.ErrInvalidSize)
	})

	t.Run("blank title", func(t *testing.T) {
		f := newTaskFixture(t)
		task := newTask(actor)
		f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)

		_, err := f.svc.Update(t.Context(), actor, task.ID, service.UpdateTaskInput{Title: strPtr("  ")})
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	})
}

func TestTaskService_Delete(t *testing.T) {
	actor := uuid.New()

	t.Run("success keeps an audit entry", func(t *testing.T) {
		f := newTaskFixture(t)
		task := newTask(actor)
		f.tasks.On("GetByID", anyCtx, task.ID).Return(task, nil)
		f.history.On("Append", anyCtx, mock.Anything).Return(nil)
		f.tasks.On("Delete", anyCtx, task.ID).Return(nil)

		require.NoError(t, f.svc.Delete(t.Context(), actor, task.ID))

		entries := appended(f.history)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionDeleted, entries[0].Action)
		assert.Equal(t, task.Title, value(entries[0].PreviousValue))

		evs := f.emitter.Events()
		require.Len(t, evs, 1)
		assert.Equal(t, events.TaskDeleted, evs[0].Type)
		var payload events.TaskDeletedPayload
		require.NoError(t, evs[0].UnmarshalPayload(&payload))
		assert.Equal(t, task.ID, payload.ID)
	})

	t.Run("not found", func(t *testing.T) {
		f := newTaskFixture(t)
		id := uuid.New()
		f.tasks.On("GetByID", anyCtx, id).Return(nil, store.ErrTaskNotFound)

		assert.ErrorIs(t, f.svc.Delete(t.Context(), actor, id), service.ErrTaskNotFound)
		assert.Empty(t, f.emitter.Events())
	})
}

func TestTaskService_History(t *testing.T) {
	f := newTaskFixture(t)
	id := uuid.New()
	f.history.On("ListByTask", anyCtx, id).Return(nil, nil)

	entries, err := f.svc.History(t.Context(), id)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
