package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/newsdesk/newsapi/cmd/newsapi/modules"
	migrations "github.com/newsdesk/newsapi/db"
	"github.com/newsdesk/newsapi/internal/config"
	"github.com/newsdesk/newsapi/internal/db"
	"github.com/newsdesk/newsapi/internal/logger"
	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/seed"
	"github.com/newsdesk/newsapi/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	configPath := os.Getenv("CONFIG_PATH")
	if strings.TrimSpace(configPath) == "" {
		configPath = config.DefaultConfigPath
	}

	root := &cobra.Command{
		Use:          "newsapi",
		Short:        "News content API with local media ingestion",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "Path to config.toml (or set CONFIG_PATH)")

	root.AddCommand(
		newServeCommand(&configPath),
		newSeedCommand(&configPath),
		newMigrateCommand(&configPath),
		newReapCommand(&configPath),
		newVersionCommand(),
	)
	return root
}

func fxLogger() fx.Option {
	return fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
		l := &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		l.UseLogLevel(slog.LevelDebug)
		return l
	})
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := fx.New(
				fx.Supply(modules.ConfigPath(*configPath)),
				modules.InfraModule,
				modules.MigrationsModule,
				modules.DomainModule,
				modules.ServerModule,
				fxLogger(),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func newSeedCommand(configPath *string) *cobra.Command {
	var (
		file  string
		reset bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the seed dataset and ingest its featured images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				cfg    config.Config
				seeder *seed.Seeder
			)
			app := fx.New(
				fx.Supply(modules.ConfigPath(*configPath)),
				modules.InfraModule,
				modules.MigrationsModule,
				modules.DomainModule,
				fx.Populate(&cfg, &seeder),
				fxLogger(),
			)
			if err := app.Err(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := app.Start(ctx); err != nil {
				return err
			}
			defer func() {
				if err := app.Stop(context.Background()); err != nil {
					logger.L.Warn("stop seed app", slog.Any("error", err))
				}
			}()

			if file == "" {
				file = cfg.Seed.File
			}
			if !cmd.Flags().Changed("reset") {
				reset = cfg.Seed.Reset
			}
			ds, err := seed.Load(file)
			if err != nil {
				return err
			}
			report, err := seeder.Run(ctx, ds, seed.Options{Reset: reset})
			printReport(cmd, report)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed dataset (YAML or JSON); defaults to seed.file")
	cmd.Flags().BoolVar(&reset, "reset", false, "Remove existing content, categories and media first")
	return cmd
}

func printReport(cmd *cobra.Command, report seed.Report) {
	out := cmd.OutOrStdout()
	line := strings.Repeat("=", 40)
	fmt.Fprintln(out, line)
	fmt.Fprintf(out, "Categories: %d\n", report.Categories)
	fmt.Fprintf(out, "News items: %d\n", report.Items)
	fmt.Fprintf(out, "Media: %d created, %d failed, %d skipped\n", report.MediaCreated, report.MediaFailed, report.MediaSkipped)
	fmt.Fprintln(out, line)
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|version|steps N|force N]",
		Short: "Apply or roll back database migrations",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Init(cfg.Log.Level, cfg.Log.Format)
			return db.RunMigrate(logger.L, cfg.Postgres, migrations.Migrations(), args[0], args[1:])
		},
	}
}

func newReapCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reap",
		Short: "Remove stale files from the media temp area once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var reaper *media.Reaper
			app := fx.New(
				fx.Supply(modules.ConfigPath(*configPath)),
				modules.InfraModule,
				modules.DomainModule,
				fx.Populate(&reaper),
				fxLogger(),
			)
			if err := app.Err(); err != nil {
				return err
			}
			removed, err := reaper.Reap(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d stale temp files\n", removed)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsapi %s\n", version.GetInfo())
		},
	}
}
