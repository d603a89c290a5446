package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/book-review/internal/common/config"
	"github.com/AlibekovAA/book-review/internal/common/constants"
	"github.com/AlibekovAA/book-review/internal/common/db"
	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/migrations"
)

type App struct {
	Log  *logger.Logger
	Pool *pgxpool.Pool
}

type WebApp struct {
	App
	Config config.WebConfig
}

type ImportApp struct {
	App
	Config config.ImportConfig
}

func NewWebApp(ctx context.Context) (*WebApp, error) {
	log, err := initializeLogger(constants.LoggerServiceWeb)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadWebConfig()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return nil, err
	}

	app, err := initializeApp(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return &WebApp{
		App:    *app,
		Config: cfg,
	}, nil
}

func NewImportApp(ctx context.Context) (*ImportApp, error) {
	log, err := initializeLogger(constants.LoggerServiceLoad)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadImportConfig()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return nil, err
	}

	app, err := initializeApp(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return &ImportApp{
		App:    *app,
		Config: cfg,
	}, nil
}

// Close releases the pool. Safe on a partially built App.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func initializeApp(ctx context.Context, log *logger.Logger, databaseURL string) (*App, error) {
	if err := migrations.Up(ctx, log, databaseURL); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	pool, err := db.NewPool(ctx, log, databaseURL)
	if err != nil {
		return nil, err
	}

	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	return &App{
		Log:  log,
		Pool: pool,
	}, nil
}

func initializeLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}
