package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

var historyViewSelect = `
	SELECT h.id, h.task_id, h.user_id, h.action, h.previous_value, h.new_value, h.changed_at,
		` + userSummaryColumns("u") + `, t.title
	FROM task_history h
	LEFT JOIN users u ON u.id = h.user_id
	LEFT JOIN tasks t ON t.id = h.task_id
`

// PostgresHistoryStore implements store.HistoryStore.
type PostgresHistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresHistoryStore creates a history store on db.
func NewPostgresHistoryStore(db store.DBTX, logger *slog.Logger) *PostgresHistoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresHistoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "history_store")),
	}
}

var _ store.HistoryStore = (*PostgresHistoryStore)(nil)

// Append implements store.HistoryStore.Append.
func (s *PostgresHistoryStore) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	query := `
		INSERT INTO task_history (id, task_id, user_id, action, previous_value, new_value, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.TaskID, entry.UserID, entry.Action,
		entry.PreviousValue, entry.NewValue, entry.Timestamp,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to append task history",
			slog.String("error", err.Error()),
			slog.String("task_id", entry.TaskID.String()),
			slog.String("action", string(entry.Action)))
		return MapError(err)
	}
	return nil
}

func scanHistoryView(row rowScanner) (*domain.HistoryView, error) {
	var v domain.HistoryView
	var previous, next, title sql.NullString
	var user nullableUser

	dest := []any{
		&v.ID, &v.TaskID, &v.UserID, &v.Action, &previous, &next, &v.Timestamp,
	}
	dest = append(dest, user.dest()...)
	if err := row.Scan(append(dest, &title)...); err != nil {
		return nil, err
	}

	v.PreviousValue = stringPtr(previous)
	v.NewValue = stringPtr(next)
	v.Timestamp = v.Timestamp.UTC()
	v.User = user.summary()
	v.TaskTitle = stringPtr(title)
	return &v, nil
}

func (s *PostgresHistoryStore) query(ctx context.Context, query string, args ...any) ([]*domain.HistoryView, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := []*domain.HistoryView{}
	for rows.Next() {
		v, err := scanHistoryView(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, v)
	}
	return out, MapError(rows.Err())
}

// ListByTask implements store.HistoryStore.ListByTask.
func (s *PostgresHistoryStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.HistoryView, error) {
	return s.query(ctx, historyViewSelect+` WHERE h.task_id = $1 ORDER BY h.changed_at DESC, h.id`, taskID)
}

// List implements store.HistoryStore.List.
func (s *PostgresHistoryStore) List(ctx context.Context, limit, offset int) ([]*domain.HistoryView, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_history`).Scan(&total); err != nil {
		return nil, 0, MapError(err)
	}

	entries, err := s.query(ctx,
		historyViewSelect+` ORDER BY h.changed_at DESC, h.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
