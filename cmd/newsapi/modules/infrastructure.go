package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	migrations "github.com/newsdesk/newsapi/db"
	"github.com/newsdesk/newsapi/internal/boot"
	"github.com/newsdesk/newsapi/internal/config"
	"github.com/newsdesk/newsapi/internal/db"
	dbsqlc "github.com/newsdesk/newsapi/internal/db/sqlc"
	"github.com/newsdesk/newsapi/internal/logger"
	"github.com/newsdesk/newsapi/internal/storage"
)

// ConfigPath is the TOML file the application is started with.
type ConfigPath string

var InfraModule = fx.Module(
	"infra",
	fx.Provide(
		provideConfig,
		provideLogger,
		boot.ProvideRuntimeConfig,
		provideDBConn,
		provideDBQueries,
		provideStorageLayout,
		fx.Annotate(provideLocalStorage, fx.As(new(storage.Provider))),
	),
)

// MigrationsModule applies pending migrations when the application starts.
var MigrationsModule = fx.Module(
	"migrations",
	fx.Invoke(migrateOnStart),
)

// ---------------------------------------------------------------------------
// infrastructure providers
// ---------------------------------------------------------------------------

func provideConfig(path ConfigPath) (config.Config, error) {
	cfg, err := config.Load(string(path))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) *dbsqlc.Queries {
	return dbsqlc.New(conn)
}

func provideStorageLayout(rc *boot.RuntimeConfig) (storage.Layout, error) {
	layout, err := storage.EnsureLayout(rc.MediaRoot)
	if err != nil {
		return storage.Layout{}, fmt.Errorf("media root: %w", err)
	}
	return layout, nil
}

func provideLocalStorage(layout storage.Layout) *storage.Local {
	return storage.NewLocal(layout.Root)
}

func migrateOnStart(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return db.RunMigrate(log, cfg.Postgres, migrations.Migrations(), "up", nil)
		},
	})
}
