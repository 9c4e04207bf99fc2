package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsdesk/newsapi/internal/db"
	"github.com/newsdesk/newsapi/internal/db/sqlc"
)

// Store persists asset records.
type Store interface {
	MaxIDSource
	// Insert stores a new asset. A duplicate id is a *PersistError with Collision set.
	Insert(ctx context.Context, asset Asset) (Asset, error)
	Get(ctx context.Context, id int64) (Asset, error)
	List(ctx context.Context, filter ListFilter) ([]Asset, int64, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Asset, error)
	ListAll(ctx context.Context) ([]Asset, error)
	UpdateMetadata(ctx context.Context, id int64, update MetadataUpdate) (Asset, error)
	// Delete removes the record. Its id is never handed out again.
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// ContentLinker points a content item's featured media at an asset, or
// clears it when mediaID is nil.
type ContentLinker interface {
	SetFeaturedMedia(ctx context.Context, contentID int64, mediaID *int64) error
}

// PostgresStore implements Store over sqlc queries.
type PostgresStore struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewPostgresStore creates a Store backed by Postgres.
func NewPostgresStore(pool *pgxpool.Pool, queries *sqlc.Queries) *PostgresStore {
	return &PostgresStore{pool: pool, queries: queries}
}

func (s *PostgresStore) MaxID(ctx context.Context) (int64, error) {
	return s.queries.GetMediaMaxID(ctx)
}

func (s *PostgresStore) Insert(ctx context.Context, asset Asset) (Asset, error) {
	renditions, err := json.Marshal(asset.Renditions)
	if err != nil {
		return Asset{}, &PersistError{ID: asset.ID, Err: fmt.Errorf("encode renditions: %w", err)}
	}
	metadata, err := marshalMetadata(asset.Metadata)
	if err != nil {
		return Asset{}, &PersistError{ID: asset.ID, Err: err}
	}
	row, err := s.queries.InsertMedia(ctx, sqlc.InsertMediaParams{
		ID:                 asset.ID,
		Filename:           asset.Filename,
		OriginalName:       asset.OriginalName,
		PrimaryPath:        asset.PrimaryPath,
		ThumbnailPath:      asset.ThumbnailPath,
		MimeType:           asset.MimeType,
		ByteSize:           asset.ByteSize,
		Width:              int32(asset.Width),
		Height:             int32(asset.Height),
		OriginalWidth:      int32(asset.OriginalWidth),
		OriginalHeight:     int32(asset.OriginalHeight),
		ThumbnailFilename:  asset.ThumbnailFilename,
		ThumbnailByteSize:  asset.ThumbnailByteSize,
		ThumbnailDimension: int32(asset.ThumbnailSize),
		AltText:            asset.AltText,
		Caption:            asset.Caption,
		Description:        asset.Description,
		OwnerContentID:     db.Int8(asset.OwnerContentID),
		UploadedBy:         asset.UploadedBy,
		Renditions:         renditions,
		Metadata:           metadata,
	})
	if err != nil {
		return Asset{}, &PersistError{ID: asset.ID, Collision: db.IsUniqueViolation(err), Err: err}
	}
	return toAsset(row)
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Asset, error) {
	row, err := s.queries.GetMediaByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, &NotFoundError{Kind: "media", ID: id}
		}
		return Asset{}, err
	}
	return toAsset(row)
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]Asset, int64, error) {
	filter = filter.Normalize()
	rows, err := s.queries.ListMedia(ctx, sqlc.ListMediaParams{
		OwnerContentID: db.Int8(filter.OwnerID),
		LimitCount:     int32(filter.Limit),
		OffsetCount:    int32(filter.Offset()),
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountMedia(ctx, db.Int8(filter.OwnerID))
	if err != nil {
		return nil, 0, err
	}
	assets, err := toAssets(rows)
	return assets, total, err
}

func (s *PostgresStore) ListByIDs(ctx context.Context, ids []int64) ([]Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.queries.ListMediaByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toAssets(rows)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Asset, error) {
	rows, err := s.queries.ListAllMedia(ctx)
	if err != nil {
		return nil, err
	}
	return toAssets(rows)
}

func (s *PostgresStore) UpdateMetadata(ctx context.Context, id int64, update MetadataUpdate) (Asset, error) {
	row, err := s.queries.UpdateMediaMetadata(ctx, sqlc.UpdateMediaMetadataParams{
		AltText:     db.Text(update.AltText),
		Caption:     db.Text(update.Caption),
		Description: db.Text(update.Description),
		ID:          id,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, &NotFoundError{Kind: "media", ID: id}
		}
		return Asset{}, err
	}
	return toAsset(row)
}

// Delete removes the row and raises the id watermark in one transaction.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin media delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.queries.WithTx(tx)

	affected, err := qtx.DeleteMediaByID(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Kind: "media", ID: id}
	}
	if err := qtx.BumpMediaWatermark(ctx, id); err != nil {
		return fmt.Errorf("bump media watermark: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit media delete: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) (int64, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin media reset tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.queries.WithTx(tx)

	maxID, err := qtx.GetMediaMaxID(ctx)
	if err != nil {
		return 0, err
	}
	if err := qtx.BumpMediaWatermark(ctx, maxID); err != nil {
		return 0, fmt.Errorf("bump media watermark: %w", err)
	}
	deleted, err := qtx.DeleteAllMedia(ctx)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit media reset: %w", err)
	}
	return deleted, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return data, nil
}

func toAssets(rows []sqlc.Medium) ([]Asset, error) {
	assets := make([]Asset, 0, len(rows))
	for _, row := range rows {
		asset, err := toAsset(row)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func toAsset(row sqlc.Medium) (Asset, error) {
	asset := Asset{
		ID:                row.ID,
		Filename:          row.Filename,
		OriginalName:      row.OriginalName,
		PrimaryPath:       row.PrimaryPath,
		ThumbnailPath:     row.ThumbnailPath,
		MimeType:          row.MimeType,
		ByteSize:          row.ByteSize,
		Width:             int(row.Width),
		Height:            int(row.Height),
		OriginalWidth:     int(row.OriginalWidth),
		OriginalHeight:    int(row.OriginalHeight),
		ThumbnailFilename: row.ThumbnailFilename,
		ThumbnailByteSize: row.ThumbnailByteSize,
		ThumbnailSize:     int(row.ThumbnailDimension),
		AltText:           row.AltText,
		Caption:           row.Caption,
		Description:       row.Description,
		OwnerContentID:    db.Int8Ptr(row.OwnerContentID),
		UploadedBy:        row.UploadedBy,
		CreatedAt:         db.TimeFromPg(row.CreatedAt),
		UpdatedAt:         db.TimeFromPg(row.UpdatedAt),
	}
	if len(row.Renditions) > 0 {
		if err := json.Unmarshal(row.Renditions, &asset.Renditions); err != nil {
			return Asset{}, fmt.Errorf("decode renditions of media %d: %w", row.ID, err)
		}
	}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &asset.Metadata); err != nil {
			return Asset{}, fmt.Errorf("decode metadata of media %d: %w", row.ID, err)
		}
	}
	return asset, nil
}
