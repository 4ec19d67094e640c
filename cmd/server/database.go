package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/tareaspendientes/tareas-api/internal/config"
	"github.com/tareaspendientes/tareas-api/internal/platform/postgres"
	"github.com/tareaspendientes/tareas-api/internal/platform/sqlite"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// stores holds the backend-independent store interfaces the services use.
type stores struct {
	periodicTasks store.PeriodicTaskStore
	tasks         store.TaskStore
	history       store.HistoryStore
	users         store.UserStore
	categories    store.CategoryStore
	tx            store.Transactor
}

// openStores connects to the configured backend and returns its stores and
// the underlying pool, which the caller must close.
func openStores(cfg config.DatabaseConfig, logger *slog.Logger) (*stores, *sql.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(cfg, logger)
	case "postgres", "":
		return openPostgres(cfg, logger)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(cfg config.DatabaseConfig, logger *slog.Logger) (*stores, *sql.DB, error) {
	db, err := openPostgresDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.AutoMigrate {
		if err := postgres.Migrate(db, "up", logger); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	s := postgres.NewStores(db, logger)
	return &stores{
		periodicTasks: s.PeriodicTasks,
		tasks:         s.Tasks,
		history:       s.History,
		users:         s.Users,
		categories:    s.Categories,
		tx:            s.Transactor,
	}, db, nil
}

// openPostgresDB establishes a connection to the database and configures the pool.
func openPostgresDB(cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(max(cfg.MaxOpenConns/2, 1))
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", "driver", "postgres")
	return db, nil
}

func openSQLite(cfg config.DatabaseConfig, logger *slog.Logger) (*stores, *sql.DB, error) {
	gdb, err := sqlite.Open(cfg.URL, cfg.AutoMigrate, logger)
	if err != nil {
		return nil, nil, err
	}
	db, err := gdb.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sqlite pool: %w", err)
	}

	s := sqlite.NewStores(gdb, logger)
	logger.Info("database connection established", "driver", "sqlite")
	return &stores{
		periodicTasks: s.PeriodicTasks,
		tasks:         s.Tasks,
		history:       s.History,
		users:         s.Users,
		categories:    s.Categories,
		tx:            s.Transactor,
	}, db, nil
}
