//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/postgres"
	"github.com/tareaspendientes/tareas-api/internal/store"
	"github.com/tareaspendientes/tareas-api/internal/testdb"
)

func intPtr(i int) *int { return &i }

func createCategory(t *testing.T, tx *sql.Tx, name string) *domain.Category {
	t.Helper()
	c, err := domain.NewCategory(name, "🧹")
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresCategoryStore(tx, nil).Create(context.Background(), c))
	return c
}

func createWeekly(t *testing.T, tx *sql.Tx, categoryID uuid.UUID, assignee *uuid.UUID) *domain.PeriodicTask {
	t.Helper()
	pt, err := domain.NewPeriodicTask(domain.PeriodicTask{
		Title:           "Regar plantas",
		Size:            domain.TaskSizeMedium,
		Frequency:       domain.FrequencyWeekly,
		DayOfWeek:       intPtr(3),
		ActiveFromMonth: intPtr(10),
		ActiveToMonth:   intPtr(1),
		CategoryID:      categoryID,
		AssignedToID:    assignee,
	})
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresPeriodicTaskStore(tx, nil).Create(context.Background(), pt))
	return pt
}

func TestPeriodicTaskStore_RoundTrip(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresPeriodicTaskStore(tx, nil)
		userID := testdb.InsertUser(t, tx, "Ana García", "ana@example.com")
		category := createCategory(t, tx, "Jardín")
		pt := createWeekly(t, tx, category.ID, &userID)

		got, err := s.GetByID(ctx, pt.ID)
		require.NoError(t, err)
		assert.Equal(t, pt.Title, got.Title)
		assert.Equal(t, 3, *got.DayOfWeek)
		assert.Equal(t, 10, *got.ActiveFromMonth)
		assert.Equal(t, 1, *got.ActiveToMonth)
		assert.Nil(t, got.MonthOfYear)
		assert.Nil(t, got.LastGeneratedAt)

		view, err := s.GetView(ctx, pt.ID)
		require.NoError(t, err)
		require.NotNil(t, view.Category)
		assert.Equal(t, "Jardín", view.Category.Name)
		require.NotNil(t, view.AssignedTo)
		assert.Equal(t, "Ana García", view.AssignedTo.Name)

		got.Title = "Regar el huerto"
		got.AssignedToID = nil
		require.NoError(t, s.Update(ctx, got))
		view, err = s.GetView(ctx, pt.ID)
		require.NoError(t, err)
		assert.Equal(t, "Regar el huerto", view.Title)
		assert.Nil(t, view.AssignedTo)

		_, err = s.GetByIDForUpdate(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrPeriodicTaskNotFound)
	})
}

func TestPeriodicTaskStore_MarkGeneratedIsGuarded(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresPeriodicTaskStore(tx, nil)
		pt := createWeekly(t, tx, createCategory(t, tx, "Casa").ID, nil)

		startOfDay := time.Date(2026, 11, 4, 0, 0, 0, 0, time.UTC)
		first := startOfDay.Add(2 * time.Hour)

		require.NoError(t, s.MarkGenerated(ctx, pt.ID, first, startOfDay))
		err := s.MarkGenerated(ctx, pt.ID, first.Add(time.Minute), startOfDay)
		assert.ErrorIs(t, err, store.ErrConflict)

		got, err := s.GetByID(ctx, pt.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastGeneratedAt)
		assert.True(t, first.Equal(*got.LastGeneratedAt))

		nextWeek := startOfDay.AddDate(0, 0, 7)
		assert.NoError(t, s.MarkGenerated(ctx, pt.ID, nextWeek.Add(time.Hour), nextWeek))
	})
}

func TestTaskStore_ViewsAndPendingDeletion(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		creator := testdb.InsertUser(t, tx, "Sistema", "")
		category := createCategory(t, tx, "Cocina")
		pt := createWeekly(t, tx, category.ID, nil)

		pending := pt.NewInstance(creator, time.Now())
		require.NoError(t, tasks.Create(ctx, pending))

		done := pt.NewInstance(creator, time.Now())
		require.NoError(t, done.SetStatus(domain.TaskStatusCompleted, time.Now()))
		require.NoError(t, tasks.Create(ctx, done))

		view, err := tasks.GetView(ctx, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cocina", view.Category.Name)
		assert.Equal(t, "Sistema", view.CreatedBy.Name)
		assert.Nil(t, view.AssignedTo)
		assert.Equal(t, pt.ID, *view.PeriodicTaskID)

		ids, err := tasks.DeletePendingByTemplate(ctx, pt.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{pending.ID}, ids)

		_, err = tasks.GetByID(ctx, pending.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		completed, err := tasks.ListCompleted(ctx, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, done.ID, completed[0].ID)

		require.NoError(t, postgres.NewPostgresPeriodicTaskStore(tx, nil).Delete(ctx, pt.ID))
		orphan, err := tasks.GetByID(ctx, done.ID)
		require.NoError(t, err)
		assert.Nil(t, orphan.PeriodicTaskID)
	})
}

func TestHistoryStore_SurvivesTaskDeletion(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		user := testdb.InsertUser(t, tx, "Luis", "luis@example.com")
		task, err := domain.NewTask("Sacar la basura", nil, user)
		require.NoError(t, err)

		tasks := postgres.NewPostgresTaskStore(tx, nil)
		history := postgres.NewPostgresHistoryStore(tx, nil)
		require.NoError(t, tasks.Create(ctx, task))
		require.NoError(t, history.Append(ctx,
			domain.NewHistoryEntry(task.ID, user, domain.ActionCreated, "", "")))
		require.NoError(t, tasks.Delete(ctx, task.ID))
		require.NoError(t, history.Append(ctx,
			domain.NewHistoryEntry(task.ID, user, domain.ActionDeleted, task.Title, "")))

		entries, err := history.ListByTask(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Luis", entries[0].User.Name)
		assert.Nil(t, entries[0].TaskTitle)

		page, total, err := history.List(ctx, 1, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, 2)
		assert.Len(t, page, 1)
	})
}

func TestCategoryStore_UniqueNameAndCounts(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		categories := postgres.NewPostgresCategoryStore(tx, nil)
		c := createCategory(t, tx, "Baño")

		dup, err := domain.NewCategory("Baño", "🚿")
		require.NoError(t, err)
		assert.ErrorIs(t, categories.Create(ctx, dup), store.ErrCategoryExists)

		user := testdb.InsertUser(t, tx, "Marta", "")
		task, err := domain.NewTask("Limpiar espejo", nil, user)
		require.NoError(t, err)
		task.CategoryID = &c.ID
		require.NoError(t, postgres.NewPostgresTaskStore(tx, nil).Create(ctx, task))

		n, err := categories.CountTasks(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		views, err := categories.List(ctx)
		require.NoError(t, err)
		for _, v := range views {
			if v.ID == c.ID {
				assert.Equal(t, 1, v.TaskCount)
			}
		}
	})
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()
	stores := postgres.NewStores(db, nil)

	c, err := domain.NewCategory("Temporal "+uuid.NewString(), "⏳")
	require.NoError(t, err)

	err = stores.Transactor.WithinTx(ctx, func(ctx context.Context, s store.TxStores) error {
		if err := s.Categories.Create(ctx, c); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = stores.Categories.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrCategoryNotFound)
}
