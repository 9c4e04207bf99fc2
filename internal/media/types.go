package media

import (
	"time"
)

// Asset is the persisted media record. The two physical files it points at
// are owned exclusively by the record.
type Asset struct {
	ID                int64          `json:"id"`
	Filename          string         `json:"filename"`
	OriginalName      string         `json:"originalName"`
	PrimaryPath       string         `json:"filepath"`
	ThumbnailPath     string         `json:"thumbnailPath"`
	MimeType          string         `json:"mimetype"`
	ByteSize          int64          `json:"size"`
	Width             int            `json:"width"`
	Height            int            `json:"height"`
	OriginalWidth     int            `json:"original_width"`
	OriginalHeight    int            `json:"original_height"`
	ThumbnailFilename string         `json:"thumbnail_filename"`
	ThumbnailByteSize int64          `json:"thumbnail_size"`
	ThumbnailSize     int            `json:"thumbnail_dimension"`
	AltText           string         `json:"alt_text"`
	Caption           string         `json:"caption"`
	Description       string         `json:"description"`
	OwnerContentID    *int64         `json:"post"`
	UploadedBy        string         `json:"uploadedBy"`
	Renditions        RenditionSet   `json:"media_details"`
	Metadata          map[string]any `json:"metadata"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// Summary is the public view returned after a single-item ingestion.
type Summary struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int64  `json:"size"`
	AltText      string `json:"alt_text"`
	Caption      string `json:"caption"`
}

// Options control transcoding. The zero value of a field means "use the default".
type Options struct {
	TargetWidth          int
	TargetHeight         int // 0 constrains by width only
	Quality              int
	Format               string
	ThumbnailSize        int
	ThumbnailQualityDrop int
	MaxPixels            int64 // upper bound on width*height of a source image
}

// Default transcoding parameters.
const (
	DefaultTargetWidth          = 1200
	DefaultQuality              = 85
	DefaultFormat               = "webp"
	DefaultThumbnailSize        = 300
	DefaultThumbnailQualityDrop = 15
	DefaultMaxPixels            = 268402689 // 16383 x 16383
)

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.TargetWidth <= 0 {
		o.TargetWidth = DefaultTargetWidth
	}
	if o.TargetHeight < 0 {
		o.TargetHeight = 0
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.ThumbnailSize <= 0 {
		o.ThumbnailSize = DefaultThumbnailSize
	}
	if o.ThumbnailQualityDrop <= 0 {
		o.ThumbnailQualityDrop = DefaultThumbnailQualityDrop
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	return o
}

// ThumbnailQuality is Quality minus the configured drop, floored at 1.
func (o Options) ThumbnailQuality() int {
	q := o.Quality - o.ThumbnailQualityDrop
	if q < 1 {
		return 1
	}
	return q
}

// UploadInput describes a file already written to the temp area by an upload handler.
type UploadInput struct {
	Path         string
	OriginalName string
	OriginalSize int64
	AltText      string
	Caption      string
	OwnerID      *int64
	UploadedBy   string
}

// URLInput describes a remote image to ingest.
// The temp and stored file names are always generated; OriginalName is
// only recorded on the asset.
type URLInput struct {
	URL          string
	OriginalName string
	AltText      string
	Caption      string
	OwnerID      *int64
	UploadedBy   string
}

// SourceItem is one content item handed to bulk ingestion.
type SourceItem struct {
	ContentID int64
	ImageURL  string
	AltText   string
	Caption   string
}

// BatchResult tallies a bulk ingestion run. MediaIDs maps content id to the
// linked media id, or nil when the item was skipped or failed.
type BatchResult struct {
	Succeeded int
	Failed    int
	Skipped   int
	MediaIDs  map[int64]*int64
}

// ListFilter selects a page of assets, newest first.
type ListFilter struct {
	Page    int
	Limit   int
	OwnerID *int64
}

// Normalize clamps paging values.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	return f
}

// Offset is the row offset for the page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// MetadataUpdate edits the descriptive fields of an asset. Nil fields are left alone.
type MetadataUpdate struct {
	AltText     *string `json:"alt_text,omitempty"`
	Caption     *string `json:"caption,omitempty"`
	Description *string `json:"description,omitempty"`
}
