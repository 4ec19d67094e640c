package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tareaspendientes/tareas-api/internal/config"
	"github.com/tareaspendientes/tareas-api/internal/events"
	"github.com/tareaspendientes/tareas-api/internal/generation"
	"github.com/tareaspendientes/tareas-api/internal/notify"
	"github.com/tareaspendientes/tareas-api/internal/scheduler"
	"github.com/tareaspendientes/tareas-api/internal/service"
	"github.com/tareaspendientes/tareas-api/internal/service/auth"
	"github.com/tareaspendientes/tareas-api/internal/store"
	"github.com/tareaspendientes/tareas-api/internal/worker"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	stores   *stores
	location *time.Location

	jwtService auth.JWTService
	emitter    *events.InMemoryEventEmitter
	hub        *notify.Hub
	pool       *worker.Pool
	generator  *generation.Generator
	scheduler  *scheduler.Scheduler

	taskService         service.TaskService
	periodicTaskService service.PeriodicTaskService
	categoryService     service.CategoryService
	historyService      service.HistoryService
	userService         service.UserService
	scoreboardService   service.ScoreboardService
}

// newApplication wires every component on top of the opened stores. db may
// be nil in tests; it is closed by cleanup otherwise.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, s *stores, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		stores: s,
	}

	var err error
	app.location, err = cfg.Generation.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid generation timezone %q: %w", cfg.Generation.Timezone, err)
	}

	if err := app.checkSystemUser(ctx); err != nil {
		return nil, err
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.pool = worker.NewPool(worker.PoolConfig{
		WorkerCount: cfg.Worker.WorkerCount,
		QueueSize:   cfg.Worker.QueueSize,
	}, logger)
	app.pool.Start()

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.hub = notify.NewHub(cfg.Server.AllowedOrigin, logger)
	app.emitter.RegisterHandler(app.hub)

	announcer, err := notify.NewTelegramAnnouncer(cfg.Telegram, app.pool, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	if announcer != nil {
		app.emitter.RegisterHandler(announcer, events.TaskCreated)
		logger.Info("telegram announcements enabled", "chat_id", cfg.Telegram.ChatID)
	}

	mailer, err := notify.NewMailer(cfg.Mail, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	dispatcher := notify.NewDispatcher(mailer, app.pool, logger)

	app.generator, err = generation.NewGenerator(s.periodicTasks, s.tx, app.emitter, dispatcher, generation.Config{
		SystemUserID:    cfg.Generation.SystemUser(),
		TemplateTimeout: cfg.Generation.TemplateTimeout,
		Concurrency:     cfg.Generation.Concurrency,
		Location:        app.location,
	}, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize task generator: %w", err)
	}

	if err := app.initServices(dispatcher); err != nil {
		app.cleanup()
		return nil, err
	}

	if cfg.Scheduler.Enabled {
		app.scheduler, err = scheduler.New(app.generator, cfg.Scheduler.Spec, app.location, nil, logger)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
		}
	}

	return app, nil
}

func (app *application) initServices(notifier generation.Notifier) error {
	s := app.stores

	var err error
	app.taskService, err = service.NewTaskService(s.tasks, s.history, s.tx, app.generator, app.emitter, notifier, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}
	app.periodicTaskService, err = service.NewPeriodicTaskService(s.periodicTasks, s.tx, app.emitter, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create periodic task service: %w", err)
	}
	app.categoryService, err = service.NewCategoryService(s.categories, s.tx, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create category service: %w", err)
	}
	app.historyService = service.NewHistoryService(s.history, app.logger)
	app.userService = service.NewUserService(s.users, app.logger)
	app.scoreboardService = service.NewScoreboardService(s.tasks, s.users, app.location, nil)
	return nil
}

// checkSystemUser makes sure the account recorded as creator of generated
// tasks exists.
func (app *application) checkSystemUser(ctx context.Context) error {
	id := app.config.Generation.SystemUser()
	if _, err := app.stores.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("system user %s does not exist", id)
		}
		return fmt.Errorf("failed to look up system user: %w", err)
	}
	return nil
}

// cleanup releases resources in reverse order of creation.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if app.scheduler != nil {
		if err := app.scheduler.Stop(ctx); err != nil {
			app.logger.Error("failed to stop scheduler", "error", err)
		}
	}
	if app.hub != nil {
		app.hub.Close()
	}
	if app.pool != nil {
		if err := app.pool.Stop(ctx); err != nil {
			app.logger.Error("failed to stop worker pool", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
