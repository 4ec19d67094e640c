package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

const taskColumns = `t.id, t.title, t.description, t.size, t.status, t.category_id,
	t.assigned_to_id, t.periodic_task_id, t.created_by_id, t.completed_at,
	t.created_at, t.updated_at`

var taskViewSelect = `
	SELECT ` + taskColumns + `, ` + categoryJoinColumns + `,
		` + userSummaryColumns("a") + `, ` + userSummaryColumns("cb") + `
	FROM tasks t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN users a ON a.id = t.assigned_to_id
	LEFT JOIN users cb ON cb.id = t.created_by_id
`

// PostgresTaskStore implements store.TaskStore.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a task store on db, which may be a *sql.DB or a *sql.Tx.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

func scanTask(row rowScanner, extra ...any) (*domain.Task, error) {
	var t domain.Task
	var description sql.NullString
	var category, assignedTo, periodicTask uuid.NullUUID
	var completedAt sql.NullTime

	dest := []any{
		&t.ID, &t.Title, &description, &t.Size, &t.Status, &category,
		&assignedTo, &periodicTask, &t.CreatedByID, &completedAt,
		&t.CreatedAt, &t.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	t.Description = stringPtr(description)
	t.CategoryID = uuidPtr(category)
	t.AssignedToID = uuidPtr(assignedTo)
	t.PeriodicTaskID = uuidPtr(periodicTask)
	t.CompletedAt = timePtr(completedAt)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func scanTaskView(row rowScanner) (*domain.TaskView, error) {
	var category nullableCategory
	var assignee, creator nullableUser

	extra := append(category.dest(), assignee.dest()...)
	t, err := scanTask(row, append(extra, creator.dest()...)...)
	if err != nil {
		return nil, err
	}
	return &domain.TaskView{
		Task:       *t,
		Category:   category.category(),
		AssignedTo: assignee.summary(),
		CreatedBy:  creator.summary(),
	}, nil
}

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (
			id, title, description, size, status, category_id, assigned_to_id,
			periodic_task_id, created_by_id, completed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Size, task.Status, task.CategoryID,
		task.AssignedToID, task.PeriodicTaskID, task.CreatedByID, task.CompletedAt,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return t, nil
}

// GetView implements store.TaskStore.GetView.
func (s *PostgresTaskStore) GetView(ctx context.Context, id uuid.UUID) (*domain.TaskView, error) {
	v, err := scanTaskView(s.db.QueryRowContext(ctx, taskViewSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return v, nil
}

// ListViews implements store.TaskStore.ListViews.
func (s *PostgresTaskStore) ListViews(ctx context.Context) ([]*domain.TaskView, error) {
	rows, err := s.db.QueryContext(ctx, taskViewSelect+` ORDER BY t.created_at DESC, t.id`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.TaskView
	for rows.Next() {
		v, err := scanTaskView(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, v)
	}
	return out, MapError(rows.Err())
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, size = $4, status = $5, category_id = $6,
			assigned_to_id = $7, completed_at = $8, updated_at = $9
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Size, task.Status, task.CategoryID,
		task.AssignedToID, task.CompletedAt, task.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrDeleteFailed, MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeletePendingByTemplate implements store.TaskStore.DeletePendingByTemplate.
func (s *PostgresTaskStore) DeletePendingByTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		DELETE FROM tasks
		WHERE periodic_task_id = $1 AND status <> $2
		RETURNING id
	`
	rows, err := s.db.QueryContext(ctx, query, templateID, domain.TaskStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrDeleteFailed, MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	return ids, MapError(rows.Err())
}

// ListCompleted implements store.TaskStore.ListCompleted.
func (s *PostgresTaskStore) ListCompleted(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	conds := []string{"t.status = $1", "t.completed_at IS NOT NULL"}
	args := []any{domain.TaskStatusCompleted}
	if !from.IsZero() {
		args = append(args, from.UTC())
		conds = append(conds, fmt.Sprintf("t.completed_at >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to.UTC())
		conds = append(conds, fmt.Sprintf("t.completed_at < $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY t.completed_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, t)
	}
	return out, MapError(rows.Err())
}
