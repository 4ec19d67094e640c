package sqlite

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// HistoryStore implements store.HistoryStore.
type HistoryStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHistoryStore creates a history store on db.
func NewHistoryStore(db *gorm.DB, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStore{db: db, logger: logger.With(slog.String("component", "history_store"))}
}

var _ store.HistoryStore = (*HistoryStore)(nil)

func (s *HistoryStore) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	m := &historyModel{
		ID:            entry.ID,
		TaskID:        entry.TaskID,
		UserID:        entry.UserID,
		Action:        string(entry.Action),
		PreviousValue: entry.PreviousValue,
		NewValue:      entry.NewValue,
		ChangedAt:     entry.Timestamp.UTC(),
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(m).Error; err != nil {
		s.logger.Error("failed to append task history",
			slog.String("error", err.Error()),
			slog.String("task_id", entry.TaskID.String()))
		return mapError(err, nil)
	}
	return nil
}

func (s *HistoryStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.HistoryView, error) {
	var rows []historyModel
	err := s.db.WithContext(ctx).Preload("User").
		Where("task_id = ?", taskID).
		Order("changed_at DESC, id").
		Find(&rows).Error
	if err != nil {
		return nil, mapError(err, nil)
	}
	return s.views(ctx, rows)
}

func (s *HistoryStore) List(ctx context.Context, limit, offset int) ([]*domain.HistoryView, int, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&historyModel{}).Count(&total).Error; err != nil {
		return nil, 0, mapError(err, nil)
	}

	var rows []historyModel
	err := s.db.WithContext(ctx).Preload("User").
		Order("changed_at DESC, id").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, mapError(err, nil)
	}

	views, err := s.views(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return views, int(total), nil
}

// views resolves the titles of tasks that still exist.
func (s *HistoryStore) views(ctx context.Context, rows []historyModel) ([]*domain.HistoryView, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].TaskID)
	}

	titles := map[uuid.UUID]string{}
	if len(ids) > 0 {
		var found []struct {
			ID    uuid.UUID
			Title string
		}
		if err := s.db.WithContext(ctx).Model(&taskModel{}).
			Select("id", "title").Where("id IN ?", ids).Scan(&found).Error; err != nil {
			return nil, mapError(err, nil)
		}
		for _, f := range found {
			titles[f.ID] = f.Title
		}
	}

	out := make([]*domain.HistoryView, 0, len(rows))
	for i := range rows {
		var title *string
		if t, ok := titles[rows[i].TaskID]; ok {
			title = &t
		}
		out = append(out, rows[i].toView(title))
	}
	return out, nil
}
