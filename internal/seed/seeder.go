package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newsdesk/newsapi/internal/categories"
	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/news"
)

// ContentStore is the part of news.Service used by seeding.
type ContentStore interface {
	Upsert(ctx context.Context, item news.Item) (news.Item, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// CategoryStore is the part of categories.Service used by seeding.
type CategoryStore interface {
	Upsert(ctx context.Context, c categories.Category) (categories.Category, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// MediaIngester is the part of media.Service used by seeding.
type MediaIngester interface {
	IngestBatch(ctx context.Context, items []media.SourceItem) (media.BatchResult, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Options controls a seeding run.
type Options struct {
	// Reset removes existing content, categories and media (files included) first.
	Reset bool
}

// Report summarizes a seeding run.
type Report struct {
	Categories   int
	Items        int
	MediaCreated int
	MediaFailed  int
	MediaSkipped int
}

type Seeder struct {
	content    ContentStore
	categories CategoryStore
	media      MediaIngester
	logger     *slog.Logger
}

func NewSeeder(log *slog.Logger, content ContentStore, cats CategoryStore, ingester MediaIngester) *Seeder {
	return &Seeder{
		content:    content,
		categories: cats,
		media:      ingester,
		logger:     log.With(slog.String("service", "seed")),
	}
}

// Run stores the dataset and ingests every featured image. Per-item image
// failures only show up in the report; any other error stops the run.
func (s *Seeder) Run(ctx context.Context, ds Dataset, opts Options) (Report, error) {
	var report Report
	if opts.Reset {
		if err := s.reset(ctx); err != nil {
			return report, err
		}
	}

	for _, c := range ds.Categories {
		if _, err := s.categories.Upsert(ctx, c); err != nil {
			return report, fmt.Errorf("insert category %d: %w", c.ID, err)
		}
		report.Categories++
	}
	s.logger.Info("categories inserted", slog.Int("count", report.Categories))

	sources := make([]media.SourceItem, 0, len(ds.Videos)+len(ds.Posts))
	insert := func(items []SourceItem, defaultType string) error {
		for _, src := range items {
			item, err := src.ToItem(defaultType)
			if err != nil {
				return err
			}
			if _, err := s.content.Upsert(ctx, item); err != nil {
				return fmt.Errorf("insert news item %d: %w", item.ID, err)
			}
			report.Items++
			source := media.SourceItem{ContentID: item.ID}
			if img, ok := src.FeaturedImage(); ok {
				source.ImageURL = img.SourceURL
				source.AltText = img.AltText
				source.Caption = img.Caption
			}
			sources = append(sources, source)
		}
		return nil
	}
	if err := insert(ds.Videos, news.TypeVideo); err != nil {
		return report, err
	}
	if err := insert(ds.Posts, news.TypePost); err != nil {
		return report, err
	}
	s.logger.Info("news items inserted", slog.Int("count", report.Items))

	result, err := s.media.IngestBatch(ctx, sources)
	report.MediaCreated = result.Succeeded
	report.MediaFailed = result.Failed
	report.MediaSkipped = result.Skipped
	if err != nil {
		return report, fmt.Errorf("ingest featured images: %w", err)
	}

	s.logger.Info("dataset seeded",
		slog.Int("categories", report.Categories),
		slog.Int("items", report.Items),
		slog.Int("media", report.MediaCreated),
		slog.Int("media_failed", report.MediaFailed),
	)
	return report, nil
}

func (s *Seeder) reset(ctx context.Context) error {
	items, err := s.content.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear news items: %w", err)
	}
	cats, err := s.categories.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	assets, err := s.media.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear media: %w", err)
	}
	s.logger.Info("existing data cleared",
		slog.Int64("items", items),
		slog.Int64("categories", cats),
		slog.Int64("media", assets),
	)
	return nil
}
