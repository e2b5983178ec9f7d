package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/banki/banki-srs/internal/config"
	"github.com/banki/banki-srs/internal/domain/srs"
	"github.com/banki/banki-srs/internal/events"
	"github.com/banki/banki-srs/internal/platform/memory"
	"github.com/banki/banki-srs/internal/platform/postgres"
	"github.com/banki/banki-srs/internal/service/review"
	"github.com/banki/banki-srs/internal/store"
)

// application holds the shared dependencies and owns their cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db    *sqlx.DB
	memDB *memory.DB

	stores store.Stores
	uow    store.UnitOfWork

	emitter       *events.AsyncEmitter
	reviewService review.Service
}

// newApplication connects the configured storage driver and builds the
// review service on top of it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.stores = postgres.NewStores(db, logger)
		app.uow = postgres.NewUnitOfWork(db, logger)

	case config.DriverMemory:
		app.memDB = memory.NewDB(logger)
		if cfg.Database.SeedFile != "" {
			n, err := app.memDB.LoadSeedFile(cfg.Database.SeedFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load seed file: %w", err)
			}
			logger.Info("memory store seeded",
				slog.String("file", cfg.Database.SeedFile),
				slog.Int("cards", n))
		}
		app.stores = app.memDB.Stores()
		app.uow = app.memDB

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	scheduler, err := newScheduler(cfg.Scheduler)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	dispatcher := events.NewInMemoryEmitter(logger)
	dispatcher.Register(events.LogHandler(logger))
	app.emitter = events.NewAsyncEmitter(dispatcher, events.AsyncConfig{
		Workers:        cfg.Events.Workers,
		QueueSize:      cfg.Events.QueueSize,
		HandlerTimeout: cfg.Events.HandlerTimeout,
	}, logger)

	app.reviewService = review.NewService(
		app.stores,
		app.uow,
		scheduler,
		cfg.Review,
		logger,
		review.WithEmitter(app.emitter),
	)

	logger.Info("application initialized", slog.String("database_driver", cfg.Database.Driver))
	return app, nil
}

// newScheduler builds the SM-2 scheduler, applying any configured overrides.
func newScheduler(cfg config.SchedulerConfig) (srs.Scheduler, error) {
	params, err := srs.NewParams(srs.ParamsConfig{
		FirstInterval:  cfg.FirstInterval,
		SecondInterval: cfg.SecondInterval,
		MinEaseFactor:  cfg.MinEaseFactor,
		MaxEaseFactor:  cfg.MaxEaseFactor,
		EaseQualityCap: cfg.EaseQualityCap,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler configuration: %w", err)
	}
	return srs.NewSchedulerWithParams(params), nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// ping reports whether the storage backend is reachable.
func (app *application) ping(ctx context.Context) error {
	if app.db == nil {
		return nil
	}
	return app.db.PingContext(ctx)
}

// cleanup flushes pending events and releases the database connection.
func (app *application) cleanup() {
	if app.emitter != nil {
		app.emitter.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
