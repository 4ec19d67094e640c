package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

const periodicTaskColumns = `pt.id, pt.title, pt.description, pt.size, pt.frequency,
	pt.day_of_week, pt.month_of_year, pt.active_from_month, pt.active_to_month,
	pt.category_id, pt.assigned_to_id, pt.last_generated_at, pt.created_at, pt.updated_at`

// PostgresPeriodicTaskStore implements store.PeriodicTaskStore.
type PostgresPeriodicTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPeriodicTaskStore creates a template store on db, which may be a
// *sql.DB or a *sql.Tx.
func NewPostgresPeriodicTaskStore(db store.DBTX, logger *slog.Logger) *PostgresPeriodicTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPeriodicTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "periodic_task_store")),
	}
}

var _ store.PeriodicTaskStore = (*PostgresPeriodicTaskStore)(nil)

func scanPeriodicTask(row rowScanner, extra ...any) (*domain.PeriodicTask, error) {
	var pt domain.PeriodicTask
	var description sql.NullString
	var day, month, activeFrom, activeTo sql.NullInt32
	var assignedTo uuid.NullUUID
	var lastGenerated sql.NullTime

	dest := []any{
		&pt.ID, &pt.Title, &description, &pt.Size, &pt.Frequency,
		&day, &month, &activeFrom, &activeTo,
		&pt.CategoryID, &assignedTo, &lastGenerated, &pt.CreatedAt, &pt.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	pt.Description = stringPtr(description)
	pt.DayOfWeek = intPtr(day)
	pt.MonthOfYear = intPtr(month)
	pt.ActiveFromMonth = intPtr(activeFrom)
	pt.ActiveToMonth = intPtr(activeTo)
	pt.AssignedToID = uuidPtr(assignedTo)
	pt.LastGeneratedAt = timePtr(lastGenerated)
	pt.CreatedAt = pt.CreatedAt.UTC()
	pt.UpdatedAt = pt.UpdatedAt.UTC()
	return &pt, nil
}

// Create implements store.PeriodicTaskStore.Create.
func (s *PostgresPeriodicTaskStore) Create(ctx context.Context, pt *domain.PeriodicTask) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := pt.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO periodic_tasks (
			id, title, description, size, frequency, day_of_week, month_of_year,
			active_from_month, active_to_month, category_id, assigned_to_id,
			last_generated_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		pt.ID, pt.Title, pt.Description, pt.Size, pt.Frequency, pt.DayOfWeek, pt.MonthOfYear,
		pt.ActiveFromMonth, pt.ActiveToMonth, pt.CategoryID, pt.AssignedToID,
		pt.LastGeneratedAt, pt.CreatedAt, pt.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert periodic task",
			slog.String("error", err.Error()),
			slog.String("periodic_task_id", pt.ID.String()))
		return MapError(err)
	}

	log.Debug("periodic task created", slog.String("periodic_task_id", pt.ID.String()))
	return nil
}

// List implements store.PeriodicTaskLister.List.
func (s *PostgresPeriodicTaskStore) List(ctx context.Context) ([]*domain.PeriodicTask, error) {
	query := `SELECT ` + periodicTaskColumns + ` FROM periodic_tasks pt ORDER BY pt.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.PeriodicTask
	for rows.Next() {
		pt, err := scanPeriodicTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, pt)
	}
	return out, MapError(rows.Err())
}

// GetByID implements store.PeriodicTaskStore.GetByID.
func (s *PostgresPeriodicTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PeriodicTask, error) {
	return s.get(ctx, id, "")
}

// GetByIDForUpdate implements store.PeriodicTaskStore.GetByIDForUpdate.
// The row stays locked until the enclosing transaction finishes.
func (s *PostgresPeriodicTaskStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.PeriodicTask, error) {
	return s.get(ctx, id, " FOR UPDATE")
}

func (s *PostgresPeriodicTaskStore) get(ctx context.Context, id uuid.UUID, lock string) (*domain.PeriodicTask, error) {
	query := `SELECT ` + periodicTaskColumns + ` FROM periodic_tasks pt WHERE pt.id = $1` + lock

	pt, err := scanPeriodicTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPeriodicTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get periodic task",
			slog.String("error", err.Error()),
			slog.String("periodic_task_id", id.String()))
		return nil, MapError(err)
	}
	return pt, nil
}

var periodicTaskViewSelect = `
	SELECT ` + periodicTaskColumns + `, ` + categoryJoinColumns + `, ` + userSummaryColumns("a") + `
	FROM periodic_tasks pt
	LEFT JOIN categories c ON c.id = pt.category_id
	LEFT JOIN users a ON a.id = pt.assigned_to_id
`

func scanPeriodicTaskView(row rowScanner) (*domain.PeriodicTaskView, error) {
	var (
		category nullableCategory
		assignee nullableUser
	)
	pt, err := scanPeriodicTask(row, append(category.dest(), assignee.dest()...)...)
	if err != nil {
		return nil, err
	}
	return &domain.PeriodicTaskView{
		PeriodicTask: *pt,
		Category:     category.category(),
		AssignedTo:   assignee.summary(),
	}, nil
}

// ListViews implements store.PeriodicTaskStore.ListViews.
func (s *PostgresPeriodicTaskStore) ListViews(ctx context.Context) ([]*domain.PeriodicTaskView, error) {
	rows, err := s.db.QueryContext(ctx, periodicTaskViewSelect+` ORDER BY pt.created_at DESC, pt.id`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.PeriodicTaskView
	for rows.Next() {
		v, err := scanPeriodicTaskView(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, v)
	}
	return out, MapError(rows.Err())
}

// GetView implements store.PeriodicTaskStore.GetView.
func (s *PostgresPeriodicTaskStore) GetView(ctx context.Context, id uuid.UUID) (*domain.PeriodicTaskView, error) {
	v, err := scanPeriodicTaskView(s.db.QueryRowContext(ctx, periodicTaskViewSelect+` WHERE pt.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPeriodicTaskNotFound
		}
		return nil, MapError(err)
	}
	return v, nil
}

// Update implements store.PeriodicTaskStore.Update.
func (s *PostgresPeriodicTaskStore) Update(ctx context.Context, pt *domain.PeriodicTask) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := pt.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE periodic_tasks
		SET title = $2, description = $3, size = $4, frequency = $5, day_of_week = $6,
			month_of_year = $7, active_from_month = $8, active_to_month = $9,
			category_id = $10, assigned_to_id = $11, updated_at = $12
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		pt.ID, pt.Title, pt.Description, pt.Size, pt.Frequency, pt.DayOfWeek,
		pt.MonthOfYear, pt.ActiveFromMonth, pt.ActiveToMonth,
		pt.CategoryID, pt.AssignedToID, pt.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update periodic task",
			slog.String("error", err.Error()),
			slog.String("periodic_task_id", pt.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrPeriodicTaskNotFound)
}

// MarkGenerated implements store.PeriodicTaskStore.MarkGenerated.
func (s *PostgresPeriodicTaskStore) MarkGenerated(ctx context.Context, id uuid.UUID, at, threshold time.Time) error {
	query := `
		UPDATE periodic_tasks
		SET last_generated_at = $2
		WHERE id = $1 AND (last_generated_at IS NULL OR last_generated_at < $3)
	`
	result, err := s.db.ExecContext(ctx, query, id, at.UTC(), threshold.UTC())
	if err != nil {
		return store.NewStoreError("periodic_task", "mark_generated", "failed to record generation", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrConflict); err != nil {
		return store.NewStoreError("periodic_task", "mark_generated", "generation guard matched no row", err)
	}
	return nil
}

// Delete implements store.PeriodicTaskStore.Delete.
func (s *PostgresPeriodicTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM periodic_tasks WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete periodic task",
			slog.String("error", err.Error()),
			slog.String("periodic_task_id", id.String()))
		return fmt.Errorf("%w: %w", store.ErrDeleteFailed, MapError(err))
	}
	return CheckRowsAffected(result, store.ErrPeriodicTaskNotFound)
}
