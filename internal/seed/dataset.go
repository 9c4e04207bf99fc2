// Package seed loads a WordPress-shaped dataset and runs it through the
// content services and the media ingestion pipeline.
package seed

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/newsdesk/newsapi/internal/categories"
	"github.com/newsdesk/newsapi/internal/news"
)

// Dataset is the seed file. JSON is accepted as well since it is valid YAML.
type Dataset struct {
	Categories []categories.Category `yaml:"categories"`
	Posts      []SourceItem          `yaml:"posts"`
	Videos     []SourceItem          `yaml:"videos"`
}

// Rendered is the {"rendered": ...} wrapper used by the source export.
type Rendered struct {
	Rendered string `yaml:"rendered"`
}

// SourceItem is one exported post or video.
type SourceItem struct {
	ID            int64          `yaml:"id"`
	Date          string         `yaml:"date"`
	DateGMT       string         `yaml:"date_gmt"`
	Modified      string         `yaml:"modified"`
	ModifiedGMT   string         `yaml:"modified_gmt"`
	GUID          Rendered       `yaml:"guid"`
	Slug          string         `yaml:"slug"`
	Status        string         `yaml:"status"`
	Type          string         `yaml:"type"`
	Link          string         `yaml:"link"`
	Title         Rendered       `yaml:"title"`
	Content       Rendered       `yaml:"content"`
	Excerpt       Rendered       `yaml:"excerpt"`
	Author        int64          `yaml:"author"`
	FeaturedMedia int64          `yaml:"featured_media"`
	Sticky        bool           `yaml:"sticky"`
	Format        string         `yaml:"format"`
	Categories    []int64        `yaml:"categories"`
	Tags          []int64        `yaml:"tags"`
	ACF           any            `yaml:"acf"`
	Embedded      map[string]any `yaml:"_embedded"`
	Rest          map[string]any `yaml:",inline"`
}

// FeaturedImage is the first embedded wp:featuredmedia entry.
type FeaturedImage struct {
	SourceURL string
	AltText   string
	Caption   string
}

// Load reads and parses the dataset at path.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a dataset from YAML or JSON.
func Parse(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse seed file: %w", err)
	}
	return ds, nil
}

// FeaturedImage returns the embedded featured image. ok is false when the
// item has no featured media id or no embedded source url.
func (s SourceItem) FeaturedImage() (FeaturedImage, bool) {
	if s.FeaturedMedia == 0 {
		return FeaturedImage{}, false
	}
	entries, _ := s.Embedded["wp:featuredmedia"].([]any)
	if len(entries) == 0 {
		return FeaturedImage{}, false
	}
	first, _ := entries[0].(map[string]any)
	url := strings.TrimSpace(stringField(first, "source_url"))
	if url == "" {
		return FeaturedImage{}, false
	}
	img := FeaturedImage{SourceURL: url, AltText: stringField(first, "alt_text")}
	if caption, ok := first["caption"].(map[string]any); ok {
		img.Caption = stringField(caption, "rendered")
	}
	return img, true
}

// ToItem converts the export into a content item. defaultType is used when
// the export does not carry one.
func (s SourceItem) ToItem(defaultType string) (news.Item, error) {
	date, err := parseTime(s.Date)
	if err != nil {
		return news.Item{}, fmt.Errorf("item %d: date: %w", s.ID, err)
	}
	item := news.Item{
		ID:            s.ID,
		Date:          date,
		GUID:          news.Rendered{Rendered: s.GUID.Rendered},
		Slug:          s.Slug,
		Status:        s.Status,
		Type:          s.Type,
		Link:          s.Link,
		Title:         news.Rendered{Rendered: s.Title.Rendered},
		Content:       news.Rendered{Rendered: s.Content.Rendered},
		Excerpt:       news.Rendered{Rendered: s.Excerpt.Rendered},
		Author:        s.Author,
		FeaturedMedia: s.FeaturedMedia,
		Sticky:        s.Sticky,
		Format:        s.Format,
		Categories:    s.Categories,
		Tags:          s.Tags,
		Extra:         s.Rest,
	}
	if item.Type == "" {
		item.Type = defaultType
	}
	if s.DateGMT != "" {
		if item.DateGMT, err = parseTime(s.DateGMT); err != nil {
			return news.Item{}, fmt.Errorf("item %d: date_gmt: %w", s.ID, err)
		}
	}
	if item.Modified, err = parseOptionalTime(s.Modified); err != nil {
		return news.Item{}, fmt.Errorf("item %d: modified: %w", s.ID, err)
	}
	if item.ModifiedGMT, err = parseOptionalTime(s.ModifiedGMT); err != nil {
		return news.Item{}, fmt.Errorf("item %d: modified_gmt: %w", s.ID, err)
	}
	// Some exports send an empty list instead of an empty object.
	if acf, ok := s.ACF.(map[string]any); ok {
		item.ACF = acf
		item.VideoURL = strings.TrimSpace(stringField(acf, "igh_yt_video_url"))
	}
	if img, ok := s.FeaturedImage(); ok {
		item.SourceImageURL = img.SourceURL
	}
	if len(s.Embedded) > 0 {
		if item.Extra == nil {
			item.Extra = map[string]any{}
		}
		item.Extra["embedded_data"] = s.Embedded
	}
	return item, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts RFC 3339 and the zone-less export layouts, read as UTC.
func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time %q", raw)
}

func parseOptionalTime(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func stringField(m map[string]any, key string) string {
	value, _ := m[key].(string)
	return value
}
