// Package app wires the toolbox together: logging, telemetry, the database,
// the persisted stores and the AI backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"AIToolbox/internal/analytics"
	"AIToolbox/internal/backend"
	"AIToolbox/internal/config"
	"AIToolbox/internal/i18n"
	"AIToolbox/internal/service"
	"AIToolbox/internal/session"
	"AIToolbox/internal/shell"
	"AIToolbox/internal/storage"
	"AIToolbox/internal/telemetry"
)

// App holds the long-lived components shared by every client
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	DB        *sqlx.DB
	Store     storage.Store
	Localizer *i18n.Localizer
	Tracker   *analytics.Tracker
	History   *session.History

	// Set by New only
	Tracer  trace.Tracer
	Meter   metric.Meter
	Backend backend.Backend
	Service *service.Service

	telemetry *telemetry.Telemetry
}

// NewLocal opens the logger, database and stores without contacting any
// AI backend. It is enough for the stats and translate commands.
func NewLocal(cfg config.Config) (*App, error) {
	logger, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := telemetry.InitDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}

	store := storage.NewSQLiteStore(db)
	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Store:     store,
		Localizer: i18n.NewLocalizer(store, logger),
		Tracker:   analytics.NewTracker(store, logger),
		History:   session.NewHistory(db, logger),
	}, nil
}

// New validates cfg and builds the full application including telemetry,
// the configured backend and the service facade. Missing credentials stop
// startup here.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a, err := NewLocal(cfg)
	if err != nil {
		return nil, err
	}

	tel, err := telemetry.Start(ctx, cfg.LogDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.Tracer, a.Meter, a.telemetry = tel.Tracer, tel.Meter, tel

	b, err := newBackend(ctx, cfg, a.Logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize backend: %w", err)
	}
	a.Backend = b

	svc, err := service.New(b, service.Options{
		Models: cfg.ServiceModels(),
		Logger: a.Logger,
		Tracer: a.Tracer,
		Meter:  a.Meter,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize service: %w", err)
	}
	a.Service = svc

	a.Logger.Info("toolbox initialized", "backend", b.Name(), "db", cfg.DBPath)
	return a, nil
}

func newBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (backend.Backend, error) {
	switch cfg.Backend {
	case config.BackendGemini:
		return backend.NewGemini(ctx, cfg.APIKey, logger)
	case config.BackendOllama:
		return backend.NewOllama(cfg.OllamaURL, cfg.OllamaModel, logger)
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// NewShell builds the per-client tool shell
func (a *App) NewShell() (*shell.Shell, error) {
	if a.Service == nil {
		return nil, errors.New("app was opened without a backend")
	}
	return shell.New(shell.Deps{
		Facade:      a.Service,
		Translator:  a.Localizer,
		Stats:       a.Tracker,
		Transcripts: a.History,
		Logger:      a.Logger,
		Meter:       a.Meter,
	})
}

// Close releases the backend, telemetry exporters and database
func (a *App) Close() error {
	var errs []error
	if a.Backend != nil {
		if err := a.Backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close backend: %w", err))
		}
	}
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
