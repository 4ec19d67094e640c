package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/generation"
	"github.com/tareaspendientes/tareas-api/internal/mocks"
)

var fixedNow = time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

type fakeSweeper struct {
	calls []time.Time
	err   error
}

func (f *fakeSweeper) Run(_ context.Context, now time.Time) (*generation.Report, error) {
	f.calls = append(f.calls, now)
	if f.err != nil {
		return nil, f.err
	}
	return &generation.Report{RunAt: now}, nil
}

// appended returns the history entries passed to Append, in call order.
func appended(h *mocks.HistoryStore) []*domain.HistoryEntry {
	var out []*domain.HistoryEntry
	for _, call := range h.Calls {
		if call.Method == "Append" {
			out = append(out, call.Arguments.Get(1).(*domain.HistoryEntry))
		}
	}
	return out
}

func actions(entries []*domain.HistoryEntry) []domain.HistoryAction {
	out := make([]domain.HistoryAction, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

func value(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

var anyCtx = mock.Anything
