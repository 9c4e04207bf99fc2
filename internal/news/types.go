package news

import (
	"errors"
	"time"
)

// Content types.
const (
	TypePost  = "post"
	TypeVideo = "igh-yt-videos"
)

var (
	// ErrNotFound is returned when a content item does not exist.
	ErrNotFound = errors.New("news item not found")
	// ErrInvalid wraps validation failures.
	ErrInvalid = errors.New("invalid news item")
)

// Rendered is the WordPress {"rendered": ...} wrapper.
type Rendered struct {
	Rendered  string `json:"rendered"`
	Protected *bool  `json:"protected,omitempty"`
}

// Item is a post or video.
type Item struct {
	ID                 int64          `json:"id"`
	Date               time.Time      `json:"date"`
	DateGMT            time.Time      `json:"date_gmt"`
	GUID               Rendered       `json:"guid"`
	Modified           *time.Time     `json:"modified,omitempty"`
	ModifiedGMT        *time.Time     `json:"modified_gmt,omitempty"`
	Slug               string         `json:"slug"`
	Status             string         `json:"status"`
	Type               string         `json:"type"`
	Link               string         `json:"link"`
	Title              Rendered       `json:"title"`
	Content            Rendered       `json:"content"`
	Excerpt            Rendered       `json:"excerpt"`
	Author             int64          `json:"author"`
	FeaturedMedia      int64          `json:"featured_media"`
	LocalFeaturedMedia *int64         `json:"local_featured_media"`
	Sticky             bool           `json:"sticky"`
	Format             string         `json:"format"`
	Categories         []int64        `json:"categories"`
	Tags               []int64        `json:"tags"`
	VideoURL           string         `json:"video_url,omitempty"`
	SourceImageURL     string         `json:"source_image_url,omitempty"`
	ACF                map[string]any `json:"acf"`
	// Extra keeps source fields that are not modelled; stored as-is.
	Extra     map[string]any `json:"extra,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ListQuery filters and pages content items.
type ListQuery struct {
	Type       string
	Categories []int64
	Search     string
	Sticky     *bool
	Author     *int64
	Ascending  bool
	Page       int
	Limit      int
}

// Normalize clamps paging values. Limit defaults to 10 and is capped at 100.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return q
}

// Offset is the row offset for the page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// TotalPages is ceil(total / limit).
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
