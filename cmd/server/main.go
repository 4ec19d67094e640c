// Package main implements the tareas-api server: the household task board
// API, its recurring-task sweep and the maintenance commands around them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tareaspendientes/tareas-api/internal/config"
	"github.com/tareaspendientes/tareas-api/internal/generation"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/platform/postgres"
	"github.com/tareaspendientes/tareas-api/internal/service/auth"
)

// loadConfig is replaced in tests.
var loadConfig = config.Load

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tareas-api",
		Short:        "Household task board API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSweepCmd(), newTokenCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"scheduler_enabled", cfg.Scheduler.Enabled)
	return cfg, log, nil
}

// buildApplication opens the stores and wires the application on top.
func buildApplication(ctx context.Context) (*application, error) {
	cfg, log, err := initializeApp()
	if err != nil {
		return nil, err
	}

	s, db, err := openStores(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	app, err := newApplication(ctx, cfg, log, s, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := buildApplication(ctx)
	if err != nil {
		return err
	}
	return app.startHTTPServer(ctx, app.setupRouter())
}

var migrateCommands = []string{"up", "up-by-one", "down", "redo", "reset", "status", "version"}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status|...> [args]",
		Short:     "Run database migrations",
		ValidArgs: migrateCommands,
		Args:      cobra.MatchAll(cobra.MinimumNArgs(1), validMigrateCommand),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}
			return runMigrate(cfg.Database, log, args[0], args[1:]...)
		},
	}
}

func validMigrateCommand(_ *cobra.Command, args []string) error {
	for _, c := range migrateCommands {
		if args[0] == c {
			return nil
		}
	}
	return fmt.Errorf("unknown migrate command %q", args[0])
}

// runMigrate runs a goose command on PostgreSQL. SQLite schemas are managed
// by AutoMigrate, so only "up" is accepted there.
func runMigrate(cfg config.DatabaseConfig, log *slog.Logger, command string, args ...string) error {
	if cfg.Driver == "sqlite" {
		if command != "up" {
			return fmt.Errorf("migrate %s is not supported for sqlite", command)
		}
		cfg.AutoMigrate = true
		_, db, err := openSQLite(cfg, log)
		if err != nil {
			return err
		}
		return db.Close()
	}

	db, err := openPostgresDB(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return postgres.Migrate(db, command, log, args...)
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Generate the tasks owed by due periodic tasks and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			app, err := buildApplication(ctx)
			if err != nil {
				return err
			}
			defer app.cleanup()

			report, err := app.generator.Run(ctx, time.Now())
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}
}

func printReport(cmd *cobra.Command, report *generation.Report) {
	out := cmd.OutOrStdout()
	for _, r := range report.Results {
		line := fmt.Sprintf("%-9s %s", r.Outcome, r.Title)
		if r.Err != nil {
			line += ": " + r.Err.Error()
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "generated=%d skipped=%d failed=%d\n",
		report.Count(generation.OutcomeGenerated),
		report.Count(generation.OutcomeSkipped),
		report.Count(generation.OutcomeFailed))
}

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user ID %q: %w", args[0], err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			token, err := jwtService.GenerateToken(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
