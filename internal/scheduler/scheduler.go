// Package scheduler runs the recurring-task sweep on a cron schedule so that
// chores appear even on days nobody opens the board.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tareaspendientes/tareas-api/internal/generation"
)

// Sweeper generates the tasks due at now.
type Sweeper interface {
	Run(ctx context.Context, now time.Time) (*generation.Report, error)
}

// Scheduler triggers a Sweeper on a six-field cron spec (seconds first).
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	clock   func() time.Time
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler evaluating spec in loc. A nil clock uses time.Now.
func New(sweeper Sweeper, spec string, loc *time.Location, clock func() time.Time, logger *slog.Logger) (*Scheduler, error) {
	if sweeper == nil {
		return nil, fmt.Errorf("scheduler: sweeper is required")
	}
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "scheduler")

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		sweeper: sweeper,
		clock:   clock,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	cl := cronLogger{logger: logger}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(spec, func() { s.sweep(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "next_run", s.Next())
}

// Next returns the time of the next scheduled sweep, or the zero time when
// the scheduler is not running.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop prevents further sweeps and waits for a running one to finish or for
// ctx to expire, in which case the running sweep is cancelled.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// RunNow performs one sweep immediately.
func (s *Scheduler) RunNow(ctx context.Context) (*generation.Report, error) {
	return s.sweep(ctx)
}

func (s *Scheduler) sweep(ctx context.Context) (*generation.Report, error) {
	started := time.Now()
	report, err := s.sweeper.Run(ctx, s.clock())
	if err != nil {
		s.logger.Error("scheduled sweep failed", "error", err)
		return nil, err
	}
	s.logger.Info("scheduled sweep finished",
		"generated", report.Count(generation.OutcomeGenerated),
		"failed", report.Count(generation.OutcomeFailed),
		"duration_ms", time.Since(started).Milliseconds())
	return report, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
