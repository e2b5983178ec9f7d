// Package main implements the entry point for the banki SRS server, which
// schedules flashcard reviews with the SM-2 algorithm and tracks learning
// progress and review statistics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/banki/banki-srs/internal/config"
	"github.com/banki/banki-srs/internal/platform/logger"
	"github.com/banki/banki-srs/internal/platform/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root command without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "banki-srs",
		Short:         "Spaced repetition scheduling service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	var migrateFirst bool
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := initializeApp(configFile)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, log, migrateFirst)
		},
	}
	serve.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")

	migrate := &cobra.Command{
		Use:       "migrate <up|down|reset|status|version>",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateReset, postgres.MigrateStatus, postgres.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initializeApp(configFile)
			if err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg, log, args[0])
		},
	}

	root.AddCommand(serve, migrate)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

// initializeApp loads configuration and sets up the process logger.
func initializeApp(configFile string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("database_driver", cfg.Database.Driver))

	return cfg, log, nil
}

// runServer wires the application and serves until ctx is canceled.
func runServer(ctx context.Context, cfg *config.Config, log *slog.Logger, migrateFirst bool) error {
	if migrateFirst {
		if err := runMigrations(ctx, cfg, log, postgres.MigrateUp); err != nil {
			return err
		}
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// runMigrations opens its own connection so migrations can run without the
// rest of the application.
func runMigrations(ctx context.Context, cfg *config.Config, log *slog.Logger, command string) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %s driver, configured driver is %s",
			config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}()

	return postgres.Migrate(ctx, db.DB, command, log)
}
