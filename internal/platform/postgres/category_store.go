package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// PostgresCategoryStore implements store.CategoryStore.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a category store on db.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// Create implements store.CategoryStore.Create.
func (s *PostgresCategoryStore) Create(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, emoji, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Emoji, c.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrCategoryExists, err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert category",
			slog.String("error", err.Error()),
			slog.String("category_name", c.Name))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.CategoryStore.GetByID.
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, emoji, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Emoji, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, MapError(err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

// List implements store.CategoryStore.List.
func (s *PostgresCategoryStore) List(ctx context.Context) ([]*domain.CategoryView, error) {
	query := `
		SELECT c.id, c.name, c.emoji, c.created_at, COUNT(t.id)
		FROM categories c
		LEFT JOIN tasks t ON t.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := []*domain.CategoryView{}
	for rows.Next() {
		var v domain.CategoryView
		if err := rows.Scan(&v.ID, &v.Name, &v.Emoji, &v.CreatedAt, &v.TaskCount); err != nil {
			return nil, MapError(err)
		}
		v.CreatedAt = v.CreatedAt.UTC()
		out = append(out, &v)
	}
	return out, MapError(rows.Err())
}

// Update implements store.CategoryStore.Update.
func (s *PostgresCategoryStore) Update(ctx context.Context, c *domain.Category) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $2, emoji = $3 WHERE id = $1`, c.ID, c.Name, c.Emoji)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrCategoryExists, err)
		}
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCategoryNotFound)
}

// Delete implements store.CategoryStore.Delete.
// A category still referenced by tasks or templates cannot be deleted.
func (s *PostgresCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrDeleteFailed, MapError(err))
	}
	return CheckRowsAffected(result, store.ErrCategoryNotFound)
}

// CountTasks implements store.CategoryStore.CountTasks.
func (s *PostgresCategoryStore) CountTasks(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE category_id = $1`, id).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}
