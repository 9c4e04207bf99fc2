package db

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/newsdesk/newsapi/internal/config"
)

// RunMigrate applies or rolls back the schema migrations in migrationsFS
// (.sql files at its root). "steps N" moves N migrations up or down (negative N);
// "force N" marks version N as clean after a failed run.
func RunMigrate(logger *slog.Logger, cfg config.PostgresConfig, migrationsFS fs.FS, command string, args []string) error {
	return RunMigrateDSN(logger, DSN(cfg), migrationsFS, command, args)
}

// RunMigrateDSN is RunMigrate for an explicit connection string.
func RunMigrateDSN(logger *slog.Logger, dsn string, migrationsFS fs.FS, command string, args []string) error {
	n, err := migrateArg(command, args)
	if err != nil {
		return err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "migrate"))

	sourceDriver, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()
	m.Log = &migrateLogger{logger: logger}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(n)
	case "force":
		err = m.Force(n)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", command, err)
	}

	ver, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("schema has no migrations applied", slog.String("command", command))
	case err != nil:
		return fmt.Errorf("migrate version: %w", err)
	default:
		logger.Info("schema version", slog.String("command", command), slog.Uint64("version", uint64(ver)), slog.Bool("dirty", dirty))
	}
	return nil
}

// migrateArg validates command and returns its numeric argument, if any.
func migrateArg(command string, args []string) (int, error) {
	switch command {
	case "up", "down", "version":
		return 0, nil
	case "steps", "force":
		if len(args) == 0 {
			return 0, fmt.Errorf("%s requires a number argument", command)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid %s argument %q: %w", command, args[0], err)
		}
		if command == "steps" && n == 0 {
			return 0, fmt.Errorf("steps must be non-zero")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unknown migrate command: %s (use: up, down, steps N, version, force N)", command)
	}
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
