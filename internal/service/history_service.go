package service

import (
	"context"
	"log/slog"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// Pagination defaults for the audit log.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HistoryPage is a page of the audit log, newest first.
type HistoryPage struct {
	History    []*domain.HistoryView `json:"history"`
	Pagination Pagination            `json:"pagination"`
}

// HistoryService reads the audit log across all tasks.
type HistoryService interface {
	// List returns the given 1-based page. Out-of-range arguments fall back
	// to page 1 and DefaultHistoryLimit; limit is capped at MaxHistoryLimit.
	List(ctx context.Context, page, limit int) (*HistoryPage, error)
}

type historyServiceImpl struct {
	history store.HistoryStore
	logger  *slog.Logger
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(history store.HistoryStore, log *slog.Logger) HistoryService {
	if log == nil {
		log = slog.Default()
	}
	return &historyServiceImpl{history: history, logger: log.With("service", "history")}
}

func (s *historyServiceImpl) List(ctx context.Context, page, limit int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries, total, err := s.history.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, NewServiceError("history", "list", "failed to list history", err)
	}
	if entries == nil {
		entries = []*domain.HistoryView{}
	}

	return &HistoryPage{
		History: entries,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}
