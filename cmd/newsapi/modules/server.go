package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/newsdesk/newsapi/internal/boot"
	"github.com/newsdesk/newsapi/internal/categories"
	"github.com/newsdesk/newsapi/internal/config"
	"github.com/newsdesk/newsapi/internal/handlers"
	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/news"
	"github.com/newsdesk/newsapi/internal/server"
	"github.com/newsdesk/newsapi/internal/storage"
	"github.com/newsdesk/newsapi/internal/version"
)

var ServerModule = fx.Module(
	"server",
	fx.Provide(
		provideServerHandler(provideSystemHandler),
		provideServerHandler(provideMediaHandler),
		provideServerHandler(provideNewsHandler),
		provideServerHandler(provideCategoriesHandler),
		provideServer,
	),
	fx.Invoke(startReaper, startServer),
)

// ---------------------------------------------------------------------------
// handlers
// ---------------------------------------------------------------------------

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideSystemHandler(log *slog.Logger, pool *pgxpool.Pool) *handlers.SystemHandler {
	return handlers.NewSystemHandler(log, pool)
}

func provideMediaHandler(log *slog.Logger, svc *media.Service, layout storage.Layout, cfg config.Config) *handlers.MediaHandler {
	return handlers.NewMediaHandler(log, svc, layout, cfg)
}

func provideNewsHandler(log *slog.Logger, svc *news.Service, mediaSvc *media.Service) *handlers.NewsHandler {
	return handlers.NewNewsHandler(log, svc, mediaSvc)
}

func provideCategoriesHandler(log *slog.Logger, svc *categories.Service) *handlers.CategoriesHandler {
	return handlers.NewCategoriesHandler(log, svc)
}

// ---------------------------------------------------------------------------
// server
// ---------------------------------------------------------------------------

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	RuntimeConfig  *boot.RuntimeConfig
	Config         config.Config
	Layout         storage.Layout
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, server.Options{
		Addr:       params.RuntimeConfig.ServerAddr,
		CORSOrigin: params.Config.Server.CORSOrigin,
		Layout:     params.Layout,
	}, params.ServerHandlers...)
}

func startReaper(lc fx.Lifecycle, reaper *media.Reaper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return reaper.Start()
		},
		OnStop: func(ctx context.Context) error {
			return reaper.Stop(ctx)
		},
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner, rc *boot.RuntimeConfig) {
	fmt.Printf("Starting News API %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("listening", slog.String("addr", rc.ServerAddr), slog.String("media_base_url", rc.MediaBaseURL))
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
