package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/newsdesk/newsapi/internal/config"
	"github.com/newsdesk/newsapi/internal/storage"
)

// ImageFetcher brings a source image into the temp area.
type ImageFetcher interface {
	Fetch(ctx context.Context, url, name string) (string, error)
	Accept(path string) (string, error)
}

// ImageTranscoder turns a local image into a primary asset and thumbnail.
type ImageTranscoder interface {
	Transcode(ctx context.Context, inputPath string, opts Options) (Transcoded, error)
	Discard(ctx context.Context, out Transcoded)
}

// ServiceConfig holds the settings shared by every ingestion path.
type ServiceConfig struct {
	Options      Options
	BaseURL      string
	FailureDelay time.Duration
}

// Service runs the ingestion pipeline and manages stored assets.
type Service struct {
	store        Store
	linker       ContentLinker
	fetcher      ImageFetcher
	transcoder   ImageTranscoder
	files        storage.Provider
	allocator    *Allocator
	opts         Options
	baseURL      string
	failureDelay time.Duration
	logger       *slog.Logger
}

// NewService wires the pipeline. linker may be nil when no content items exist.
func NewService(log *slog.Logger, store Store, linker ContentLinker, fetcher ImageFetcher, transcoder ImageTranscoder, files storage.Provider, cfg ServiceConfig) *Service {
	return &Service{
		store:        store,
		linker:       linker,
		fetcher:      fetcher,
		transcoder:   transcoder,
		files:        files,
		allocator:    NewAllocator(store),
		opts:         cfg.Options.WithDefaults(),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		failureDelay: cfg.FailureDelay,
		logger:       log.With(slog.String("service", "media")),
	}
}

// OptionsFromConfig builds the transcode options used by both the upload
// and the bulk path.
func OptionsFromConfig(cfg config.MediaConfig) Options {
	return Options{
		TargetWidth:          cfg.TargetWidth,
		TargetHeight:         cfg.TargetHeight,
		Quality:              cfg.Quality,
		Format:               cfg.Format,
		ThumbnailSize:        cfg.ThumbnailSize,
		ThumbnailQualityDrop: cfg.ThumbnailQualityDrop,
		MaxPixels:            cfg.MaxPixels,
	}.WithDefaults()
}

// Options returns the effective transcode options.
func (s *Service) Options() Options {
	return s.opts
}

// BaseURL returns the prefix used for public media URLs.
func (s *Service) BaseURL() string {
	return s.baseURL
}

type ingestDetails struct {
	originalName string
	originalSize int64
	altText      string
	caption      string
	ownerID      *int64
	uploadedBy   string
}

// IngestUpload runs the pipeline for a file already written to the temp area.
func (s *Service) IngestUpload(ctx context.Context, in UploadInput) (Summary, error) {
	path, err := s.fetcher.Accept(in.Path)
	if err != nil {
		return Summary{}, err
	}
	asset, err := s.ingest(ctx, path, ingestDetails{
		originalName: in.OriginalName,
		originalSize: in.OriginalSize,
		altText:      in.AltText,
		caption:      in.Caption,
		ownerID:      in.OwnerID,
		uploadedBy:   defaultString(in.UploadedBy, "user"),
	})
	if err != nil {
		return Summary{}, err
	}
	s.linkOwner(ctx, asset)
	return s.Summarize(asset), nil
}

// IngestURL fetches a remote image and runs the pipeline on it.
func (s *Service) IngestURL(ctx context.Context, in URLInput) (Summary, error) {
	name := fmt.Sprintf("url-%d-%s", time.Now().UnixMilli(), uuid.NewString())
	path, err := s.fetcher.Fetch(ctx, in.URL, name)
	if err != nil {
		return Summary{}, err
	}
	asset, err := s.ingest(ctx, path, ingestDetails{
		originalName: defaultString(in.OriginalName, in.URL),
		altText:      in.AltText,
		caption:      in.Caption,
		ownerID:      in.OwnerID,
		uploadedBy:   defaultString(in.UploadedBy, "user"),
	})
	if err != nil {
		return Summary{}, err
	}
	s.linkOwner(ctx, asset)
	return s.Summarize(asset), nil
}

// IngestBatch ingests the featured image of every item in order. A failing
// item is logged, its reference is cleared and the batch continues; only an
// id collision or cancellation ends the batch early.
func (s *Service) IngestBatch(ctx context.Context, items []SourceItem) (BatchResult, error) {
	result := BatchResult{MediaIDs: make(map[int64]*int64, len(items))}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			s.logBatch(result, len(items))
			return result, err
		}
		logger := s.logger.With(slog.Int64("content_id", item.ContentID))

		if strings.TrimSpace(item.ImageURL) == "" {
			result.Skipped++
			result.MediaIDs[item.ContentID] = nil
			s.clearLink(ctx, logger, item.ContentID)
			continue
		}

		asset, err := s.ingestItem(ctx, item)
		if err == nil {
			err = s.link(ctx, item.ContentID, &asset.ID)
			if err != nil {
				err = fmt.Errorf("link media %d: %w", asset.ID, err)
			}
		}
		if err != nil {
			if errors.Is(err, ErrIDCollision) {
				logger.Error("media id collision, aborting batch", slog.Any("error", err))
				result.Failed++
				result.MediaIDs[item.ContentID] = nil
				s.logBatch(result, len(items))
				return result, err
			}
			result.Failed++
			result.MediaIDs[item.ContentID] = nil
			logger.Warn("featured image ingestion failed",
				slog.String("url", item.ImageURL),
				slog.String("stage", Stage(err)),
				slog.Any("error", err),
			)
			s.clearLink(ctx, logger, item.ContentID)
			s.backOff(ctx)
			continue
		}

		id := asset.ID
		result.Succeeded++
		result.MediaIDs[item.ContentID] = &id
		logger.Info("featured image ingested", slog.Int64("media_id", id), slog.String("file", asset.Filename))
	}
	s.logBatch(result, len(items))
	return result, nil
}

func (s *Service) ingestItem(ctx context.Context, item SourceItem) (Asset, error) {
	name := fmt.Sprintf("featured-%d-%d-%s", item.ContentID, time.Now().UnixMilli(), uuid.NewString()[:8])
	path, err := s.fetcher.Fetch(ctx, item.ImageURL, name)
	if err != nil {
		return Asset{}, err
	}
	owner := item.ContentID
	return s.ingest(ctx, path, ingestDetails{
		originalName: name,
		altText:      item.AltText,
		caption:      item.Caption,
		ownerID:      &owner,
		uploadedBy:   "system",
	})
}

// ingest transcodes a local file, allocates an id and persists the record.
// Transcoded files are removed again when the record cannot be stored.
func (s *Service) ingest(ctx context.Context, path string, d ingestDetails) (Asset, error) {
	originalSize := d.originalSize
	if originalSize <= 0 {
		if info, err := os.Stat(path); err == nil {
			originalSize = info.Size()
		}
	}

	out, err := s.transcoder.Transcode(ctx, path, s.opts)
	if err != nil {
		return Asset{}, err
	}

	id, err := s.allocator.Next(ctx)
	if err != nil {
		s.transcoder.Discard(context.WithoutCancel(ctx), out)
		return Asset{}, &PersistError{Err: err}
	}

	asset := Asset{
		ID:                id,
		Filename:          out.Filename,
		OriginalName:      defaultString(d.originalName, out.Filename),
		PrimaryPath:       out.PrimaryKey,
		ThumbnailPath:     out.ThumbnailKey,
		MimeType:          out.MimeType,
		ByteSize:          out.ByteSize,
		Width:             out.Width,
		Height:            out.Height,
		OriginalWidth:     out.OriginalWidth,
		OriginalHeight:    out.OriginalHeight,
		ThumbnailFilename: out.ThumbnailFilename,
		ThumbnailByteSize: out.ThumbnailByteSize,
		ThumbnailSize:     out.ThumbnailSize,
		AltText:           d.altText,
		Caption:           d.caption,
		OwnerContentID:    d.ownerID,
		UploadedBy:        d.uploadedBy,
		Metadata:          compressionMetadata(originalSize, out.ByteSize),
	}
	asset.Renditions = DescribeAsset(asset, s.baseURL)

	stored, err := s.store.Insert(ctx, asset)
	if err != nil {
		s.transcoder.Discard(context.WithoutCancel(ctx), out)
		var persistErr *PersistError
		if !errors.As(err, &persistErr) {
			err = &PersistError{ID: id, Err: err}
		}
		return Asset{}, err
	}
	return stored, nil
}

// Get returns the asset with id or a *NotFoundError.
func (s *Service) Get(ctx context.Context, id int64) (Asset, error) {
	return s.store.Get(ctx, id)
}

// List returns a page of assets, newest first, and the total match count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Asset, int64, error) {
	return s.store.List(ctx, filter.Normalize())
}

// Lookup returns the assets with the given ids keyed by id. Unknown ids are omitted.
func (s *Service) Lookup(ctx context.Context, ids []int64) (map[int64]Asset, error) {
	out := make(map[int64]Asset, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	assets, err := s.store.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, asset := range assets {
		out[asset.ID] = asset
	}
	return out, nil
}

// UpdateMetadata edits alt text, caption or description.
func (s *Service) UpdateMetadata(ctx context.Context, id int64, update MetadataUpdate) (Asset, error) {
	return s.store.UpdateMetadata(ctx, id, update)
}

// Delete removes both files of the asset and then its record. Files that
// are already gone are ignored.
func (s *Service) Delete(ctx context.Context, id int64) error {
	asset, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.removeFiles(ctx, asset); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("media deleted", slog.Int64("media_id", id), slog.String("file", asset.Filename))
	return nil
}

// DeleteAll removes every asset with its files. Used when resetting a dataset.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	assets, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, asset := range assets {
		if err := s.removeFiles(ctx, asset); err != nil {
			s.logger.Warn("remove media files failed", slog.Int64("media_id", asset.ID), slog.Any("error", err))
		}
	}
	return s.store.DeleteAll(ctx)
}

// Renditions regenerates the rendition set of asset for baseURL; an empty
// baseURL uses the configured one.
func (s *Service) Renditions(asset Asset, baseURL string) RenditionSet {
	if baseURL == "" {
		baseURL = s.baseURL
	}
	return DescribeAsset(asset, baseURL)
}

// URL is the public route of the primary file.
func (s *Service) URL(asset Asset) string {
	return s.baseURL + "/" + storage.ImagesPrefix + "/" + asset.Filename
}

// ThumbnailURL is the public route of the thumbnail file.
func (s *Service) ThumbnailURL(asset Asset) string {
	return s.baseURL + "/" + storage.ThumbnailsPrefix + "/" + asset.ThumbnailFilename
}

// Summarize builds the public view of an ingested asset.
func (s *Service) Summarize(asset Asset) Summary {
	return Summary{
		ID:           asset.ID,
		Filename:     asset.Filename,
		URL:          s.URL(asset),
		ThumbnailURL: s.ThumbnailURL(asset),
		Width:        asset.Width,
		Height:       asset.Height,
		Size:         asset.ByteSize,
		AltText:      asset.AltText,
		Caption:      asset.Caption,
	}
}

func (s *Service) removeFiles(ctx context.Context, asset Asset) error {
	for _, key := range []string{asset.PrimaryPath, asset.ThumbnailPath} {
		if key == "" {
			continue
		}
		if err := s.files.Delete(ctx, key); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	return nil
}

func (s *Service) link(ctx context.Context, contentID int64, mediaID *int64) error {
	if s.linker == nil {
		return nil
	}
	return s.linker.SetFeaturedMedia(ctx, contentID, mediaID)
}

func (s *Service) linkOwner(ctx context.Context, asset Asset) {
	if asset.OwnerContentID == nil {
		return
	}
	id := asset.ID
	if err := s.link(ctx, *asset.OwnerContentID, &id); err != nil {
		s.logger.Warn("link uploaded media to content failed",
			slog.Int64("media_id", asset.ID),
			slog.Int64("content_id", *asset.OwnerContentID),
			slog.Any("error", err),
		)
	}
}

func (s *Service) clearLink(ctx context.Context, logger *slog.Logger, contentID int64) {
	if err := s.link(context.WithoutCancel(ctx), contentID, nil); err != nil {
		logger.Warn("clear featured media failed", slog.Any("error", err))
	}
}

func (s *Service) backOff(ctx context.Context) {
	if s.failureDelay <= 0 {
		return
	}
	timer := time.NewTimer(s.failureDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (s *Service) logBatch(result BatchResult, total int) {
	s.logger.Info("featured image ingestion finished",
		slog.Int("total", total),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
	)
}

// compressionMetadata records how much the primary file shrank relative to the source.
func compressionMetadata(originalSize, processedSize int64) map[string]any {
	meta := map[string]any{
		"processedSize": processedSize,
	}
	if originalSize > 0 {
		meta["originalSize"] = originalSize
		ratio := float64(originalSize-processedSize) / float64(originalSize) * 100
		meta["compression"] = strconv.FormatFloat(ratio, 'f', 2, 64)
	}
	return meta
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
