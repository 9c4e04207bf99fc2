package modules

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/newsdesk/newsapi/internal/boot"
	"github.com/newsdesk/newsapi/internal/categories"
	"github.com/newsdesk/newsapi/internal/config"
	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/news"
	"github.com/newsdesk/newsapi/internal/seed"
	"github.com/newsdesk/newsapi/internal/storage"
)

var DomainModule = fx.Module(
	"domain",
	fx.Provide(
		news.NewService,
		categories.NewService,
		fx.Annotate(media.NewPostgresStore, fx.As(new(media.Store))),
		fx.Annotate(func(s *news.Service) *news.Service { return s }, fx.As(new(media.ContentLinker))),
		fx.Annotate(provideFetcher, fx.As(new(media.ImageFetcher))),
		fx.Annotate(media.NewTranscoder, fx.As(new(media.ImageTranscoder))),
		provideMediaService,
		provideReaper,
		provideSeeder,
	),
)

// ---------------------------------------------------------------------------
// domain service providers (interface adapters)
// ---------------------------------------------------------------------------

func provideFetcher(log *slog.Logger, cfg config.Config, layout storage.Layout) *media.Fetcher {
	return media.NewFetcher(log, media.FetcherConfig{
		TempDir:            layout.Temp(),
		Timeout:            cfg.Media.FetchTimeoutDuration(),
		UserAgent:          cfg.Media.UserAgent,
		InsecureSkipVerify: cfg.Media.InsecureSkipVerify,
		MaxBytes:           cfg.Media.MaxFetchBytes,
		Rate:               cfg.Media.FetchRate,
	})
}

func provideMediaService(
	log *slog.Logger,
	cfg config.Config,
	rc *boot.RuntimeConfig,
	store media.Store,
	linker media.ContentLinker,
	fetcher media.ImageFetcher,
	transcoder media.ImageTranscoder,
	files storage.Provider,
) *media.Service {
	return media.NewService(log, store, linker, fetcher, transcoder, files, media.ServiceConfig{
		Options:      media.OptionsFromConfig(cfg.Media),
		BaseURL:      rc.MediaBaseURL,
		FailureDelay: cfg.Seed.FailureDelayDuration(),
	})
}

func provideReaper(log *slog.Logger, cfg config.Config, layout storage.Layout) *media.Reaper {
	return media.NewReaper(log, layout.Temp(), cfg.Media.TempRetentionDuration(), cfg.Media.ReapSchedule)
}

func provideSeeder(log *slog.Logger, content *news.Service, cats *categories.Service, ingester *media.Service) *seed.Seeder {
	return seed.NewSeeder(log, content, cats, ingester)
}
