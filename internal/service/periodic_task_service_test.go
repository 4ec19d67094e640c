package service_test

import (
	"testing"

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

type periodicFixture struct {
	templates  *mocks.PeriodicTaskStore
	tasks      *mocks.TaskStore
	users      *mocks.UserStore
	categories *mocks.CategoryStore
	tx         *mocks.Transactor
	emitter    *mocks.EventEmitter
	svc        service.PeriodicTaskService
}

func newPeriodicFixture(t *testing.T) *periodicFixture {
	t.Helper()
	f := &periodicFixture{
		templates:  new(mocks.PeriodicTaskStore),
		tasks:      new(mocks.TaskStore),
		users:      new(mocks.UserStore),
		categories: new(mocks.CategoryStore),
		emitter:    &mocks.EventEmitter{},
	}
	f.tx = mocks.NewTransactor(mocks.TxStores{
		PeriodicTasks: f.templates,
		Tasks:         f.tasks,
		Users:         f.users,
		Categories:    f.categories,
	})
	log, _ := logger.GetTestLogger(t)
	svc, err := service.NewPeriodicTaskService(f.templates, f.tx, f.emitter, log)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func weeklyInput(categoryID uuid.UUID) service.PeriodicTaskInput {
	return service.PeriodicTaskInput{
		Title:           " Sacar la basura ",
		Size:            domain.TaskSizeSmall,
		Frequency:       domain.FrequencyWeekly,
		DayOfWeek:       intPtr(1),
		MonthOfYear:     intPtr(4),
		ActiveFromMonth: intPtr(10),
		ActiveToMonth:   intPtr(1),
		CategoryID:      categoryID,
	}
}

func TestPeriodicTaskService_Create(t *testing.T) {
	kitchen := &domain.Category{ID: uuid.New(), Name: "Cocina", Emoji: "🍳"}

	t.Run("weekly template is normalized", func(t *testing.T) {
		f := newPeriodicFixture(t)
		f.categories.On("GetByID", anyCtx, kitchen.ID).Return(kitchen, nil)

		var created *domain.PeriodicTask
		f.templates.On("Create", anyCtx, mock.AnythingOfType("*domain.PeriodicTask")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.PeriodicTask) }).
			Return(nil)
		f.templates.On("GetView", anyCtx, mock.Anything).Return(&domain.PeriodicTaskView{}, nil)

		_, err := f.svc.Create(t.Context(), weeklyInput(kitchen.ID))
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, "Sacar la basura", created.Title)
		assert.Nil(t, created.MonthOfYear)
		assert.Equal(t, 1, *created.DayOfWeek)
		assert.Equal(t, 10, *created.ActiveFromMonth)
		assert.Nil(t, created.LastGeneratedAt)
	})

	t.Run("monthly template drops weekly fields", func(t *testing.T) {
		f := newPeriodicFixture(t)
		f.categories.On("GetByID", anyCtx, kitchen.ID).Return(kitchen, nil)
		f.templates.On("Create", anyCtx, mock.MatchedBy(func(pt *domain.PeriodicTask) bool {
			return pt.DayOfWeek == nil && pt.ActiveFromMonth == nil && pt.ActiveToMonth == nil &&
				pt.MonthOfYear != nil && *pt.MonthOfYear == 4
		})).Return(nil)
		f.templates.On("GetView", anyCtx, mock.Anything).Return(&domain.PeriodicTaskView{}, nil)

		in := weeklyInput(kitchen.ID)
		in.Frequency = domain.FrequencyMonthly
		_, err := f.svc.Create(t.Context(), in)
		require.NoError(t, err)
		f.templates.AssertExpectations(t)
	})

	t.Run("weekly without day", func(t *testing.T) {
		f := newPeriodicFixture(t)
		in := weeklyInput(kitchen.ID)
		in.DayOfWeek = nil

		_, err := f.svc.Create(t.Context(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidDayOfWeek)
		assert.Equal(t, 0, f.tx.Calls())
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newPeriodicFixture(t)
		f.categories.On("GetByID", anyCtx, kitchen.ID).Return(nil, store.ErrCategoryNotFound)

		_, err := f.svc.Create(t.Context(), weeklyInput(kitchen.ID))
		assert.ErrorIs(t, err, service.ErrInvalidCategory)
		f.templates.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unapproved assignee", func(t *testing.T) {
		f := newPeriodicFixture(t)
		pending := &domain.User{ID: uuid.New(), Name: "Invitado"}
		f.categories.On("GetByID", anyCtx, kitchen.ID).Return(kitchen, nil)
		f.users.On("GetByID", anyCtx, pending.ID).Return(pending, nil)

		in := weeklyInput(kitchen.ID)
		in.AssignedToID = &pending.ID
		_, err := f.svc.Create(t.Context(), in)
		assert.ErrorIs(t, err, service.ErrInvalidAssignee)
	})
}

func TestPeriodicTaskService_Update(t *testing.T) {
	t.Run("switching to monthly", func(t *testing.T) {
		f := newPeriodicFixture(t)
		last := fixedNow.AddDate(0, 0, -3)
		pt := &domain.PeriodicTask{
			ID:              uuid.New(),
			Title:           "Limpiar cristales",
			Size:            domain.TaskSizeMedium,
			Frequency:       domain.FrequencyWeekly,
			DayOfWeek:       intPtr(6),
			ActiveFromMonth: intPtr(2),
			CategoryID:      uuid.New(),
			LastGeneratedAt: &last,
		}
		f.templates.On("GetByIDForUpdate", anyCtx, pt.ID).Return(pt, nil)
		f.templates.On("Update", anyCtx, mock.MatchedBy(func(p *domain.PeriodicTask) bool {
			return p.Frequency == domain.FrequencyMonthly &&
				p.DayOfWeek == nil && p.ActiveFromMonth == nil &&
				p.MonthOfYear != nil && *p.MonthOfYear == 3 &&
				p.LastGeneratedAt != nil && p.LastGeneratedAt.Equal(last)
		})).Return(nil)
		f.templates.On("GetView", anyCtx, pt.ID).Return(&domain.PeriodicTaskView{PeriodicTask: *pt}, nil)

		monthly := domain.FrequencyMonthly
		view, err := f.svc.Update(t.Context(), pt.ID, service.PeriodicTaskPatch{
			Frequency:   &monthly,
			MonthOfYear: service.Val(3),
		})
		require.NoError(t, err)
		assert.Equal(t, pt.ID, view.ID)
		f.templates.AssertExpectations(t)
		f.categories.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("switching to monthly without month", func(t *testing.T) {
		f := newPeriodicFixture(t)
		pt := &domain.PeriodicTask{
			ID:         uuid.New(),
			Title:      "Limpiar cristales",
			Size:       domain.TaskSizeMedium,
			Frequency:  domain.FrequencyWeekly,
			DayOfWeek:  intPtr(6),
			CategoryID: uuid.New(),
		}
		f.templates.On("GetByIDForUpdate", anyCtx, pt.ID).Return(pt, nil)

		monthly := domain.FrequencyMonthly
		_, err := f.svc.Update(t.Context(), pt.ID, service.PeriodicTaskPatch{Frequency: &monthly})
		assert.ErrorIs(t, err, domain.ErrInvalidMonthOfYear)
		f.templates.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		f := newPeriodicFixture(t)
		id := uuid.New()
		f.templates.On("GetByIDForUpdate", anyCtx, id).Return(nil, store.ErrPeriodicTaskNotFound)

		_, err := f.svc.Update(t.Context(), id, service.PeriodicTaskPatch{Title: strPtr("x")})
		assert.ErrorIs(t, err, service.ErrPeriodicTaskNotFound)
	})
}

func TestPeriodicTaskService_Delete(t *testing.T) {
	t.Run("with pending tasks", func(t *testing.T) {
		f := newPeriodicFixture(t)
		id := uuid.New()
		pending := []uuid.UUID{uuid.New(), uuid.New()}
		f.templates.On("GetByIDForUpdate", anyCtx, id).Return(&domain.PeriodicTask{ID: id}, nil)
		f.tasks.On("DeletePendingByTemplate", anyCtx, id).Return(pending, nil)
		f.templates.On("Delete", anyCtx, id).Return(nil)

		removed, err := f.svc.Delete(t.Context(), id, true)
		require.NoError(t, err)
		assert.Equal(t, pending, removed)

		evs := f.emitter.Events()
		require.Len(t, evs, 2)
		for i, ev := range evs {
			assert.Equal(t, events.TaskDeleted, ev.Type)
			var payload events.TaskDeletedPayload
			require.NoError(t, ev.UnmarshalPayload(&payload))
			assert.Equal(t, pending[i], payload.ID)
		}
	})

	t.Run("keeping tasks", func(t *testing.T) {
		f := newPeriodicFixture(t)
		id := uuid.New()
		f.templates.On("GetByIDForUpdate", anyCtx, id).Return(&domain.PeriodicTask{ID: id}, nil)
		f.templates.On("Delete", anyCtx, id).Return(nil)

		removed, err := f.svc.Delete(t.Context(), id, false)
		require.NoError(t, err)
		assert.Empty(t, removed)
		f.tasks.AssertNotCalled(t, "DeletePendingByTemplate", mock.Anything, mock.Anything)
		assert.Empty(t, f.emitter.Events())
	})

	t.Run("not found", func(t *testing.T) {
		f := newPeriodicFixture(t)
		id := uuid.New()
		f.templates.On("GetByIDForUpdate", anyCtx, id).Return(nil, store.ErrPeriodicTaskNotFound)

		_, err := f.svc.Delete(t.Context(), id, true)
		assert.ErrorIs(t, err, service.ErrPeriodicTaskNotFound)
	})
}

func TestPeriodicTaskService_List(t *testing.T) {
	f := newPeriodicFixture(t)
	f.templates.On("ListViews", anyCtx).Return(nil, nil)

	views, err := f.svc.List(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}
