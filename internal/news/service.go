package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/newsdesk/newsapi/internal/db"
	"github.com/newsdesk/newsapi/internal/db/sqlc"
)

type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "news")),
	}
}

// Get returns the item with id.
func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	row, err := s.queries.GetNewsItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return toItem(row)
}

// GetTyped returns the item with id only if it has the given type.
func (s *Service) GetTyped(ctx context.Context, id int64, itemType string) (Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if item.Type != itemType {
		return Item{}, ErrNotFound
	}
	return item, nil
}

// List returns a page of items and the total number of matches.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Item, int64, error) {
	q = q.Normalize()
	filter := sqlc.CountNewsItemsParams{
		Type:       optionalText(q.Type),
		Categories: nonNilIDs(q.Categories),
		Sticky:     optionalBool(q.Sticky),
		Author:     db.Int8(q.Author),
		Search:     optionalText(q.Search),
	}
	rows, err := s.queries.ListNewsItems(ctx, sqlc.ListNewsItemsParams{
		Type:        filter.Type,
		Categories:  filter.Categories,
		Sticky:      filter.Sticky,
		Author:      filter.Author,
		Search:      filter.Search,
		Ascending:   q.Ascending,
		LimitCount:  int32(q.Limit),
		OffsetCount: int32(q.Offset()),
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountNewsItems(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item, err := toItem(row)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

// Create stores a new item, assigning the next free id when item.ID is zero.
func (s *Service) Create(ctx context.Context, item Item) (Item, error) {
	if item.ID == 0 {
		next, err := s.queries.GetNextNewsItemID(ctx)
		if err != nil {
			return Item{}, fmt.Errorf("next news item id: %w", err)
		}
		item.ID = next
	}
	return s.Upsert(ctx, item)
}

// Upsert inserts or replaces an item. The featured-media link is left unchanged.
func (s *Service) Upsert(ctx context.Context, item Item) (Item, error) {
	if err := validate(item); err != nil {
		return Item{}, err
	}
	item = withDefaults(item)
	acf, err := marshalObject(item.ACF)
	if err != nil {
		return Item{}, fmt.Errorf("encode acf: %w", err)
	}
	extra, err := marshalObject(item.Extra)
	if err != nil {
		return Item{}, fmt.Errorf("encode extra: %w", err)
	}
	row, err := s.queries.UpsertNewsItem(ctx, sqlc.UpsertNewsItemParams{
		ID:             item.ID,
		Type:           item.Type,
		Slug:           item.Slug,
		Status:         item.Status,
		Date:           db.Timestamptz(item.Date),
		DateGmt:        db.Timestamptz(item.DateGMT),
		Modified:       timestamptzPtr(item.Modified),
		ModifiedGmt:    timestamptzPtr(item.ModifiedGMT),
		Guid:           item.GUID.Rendered,
		Link:           item.Link,
		Title:          item.Title.Rendered,
		Content:        item.Content.Rendered,
		Excerpt:        item.Excerpt.Rendered,
		Author:         item.Author,
		FeaturedMedia:  item.FeaturedMedia,
		Sticky:         item.Sticky,
		Format:         item.Format,
		Categories:     nonNilIDs(item.Categories),
		Tags:           nonNilIDs(item.Tags),
		VideoUrl:       item.VideoURL,
		SourceImageUrl: item.SourceImageURL,
		Acf:            acf,
		Extra:          extra,
	})
	if err != nil {
		return Item{}, err
	}
	return toItem(row)
}

// SetFeaturedMedia points the item's local featured media at mediaID, or
// clears it when mediaID is nil.
func (s *Service) SetFeaturedMedia(ctx context.Context, contentID int64, mediaID *int64) error {
	affected, err := s.queries.SetNewsItemFeaturedMedia(ctx, sqlc.SetNewsItemFeaturedMediaParams{
		MediaID: db.Int8(mediaID),
		ID:      contentID,
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) && mediaID != nil {
			return fmt.Errorf("media %d does not exist: %w", *mediaID, err)
		}
		return err
	}
	if affected == 0 {
		return fmt.Errorf("news item %d: %w", contentID, ErrNotFound)
	}
	return nil
}

// Delete removes the item with id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	affected, err := s.queries.DeleteNewsItemByID(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every item.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	return s.queries.DeleteAllNewsItems(ctx)
}

func validate(item Item) error {
	if item.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalid)
	}
	if strings.TrimSpace(item.Type) == "" {
		return fmt.Errorf("%w: item %d: type is required", ErrInvalid, item.ID)
	}
	if strings.TrimSpace(item.Slug) == "" {
		return fmt.Errorf("%w: item %d: slug is required", ErrInvalid, item.ID)
	}
	if strings.TrimSpace(item.Title.Rendered) == "" {
		return fmt.Errorf("%w: item %d: title is required", ErrInvalid, item.ID)
	}
	if item.Date.IsZero() {
		return fmt.Errorf("%w: item %d: date is required", ErrInvalid, item.ID)
	}
	return nil
}

func withDefaults(item Item) Item {
	if item.Status == "" {
		item.Status = "publish"
	}
	if item.Format == "" {
		item.Format = "standard"
	}
	if item.DateGMT.IsZero() {
		item.DateGMT = item.Date.UTC()
	}
	return item
}

func toItem(row sqlc.NewsItem) (Item, error) {
	item := Item{
		ID:                 row.ID,
		Date:               db.TimeFromPg(row.Date),
		DateGMT:            db.TimeFromPg(row.DateGmt),
		GUID:               Rendered{Rendered: row.Guid},
		Modified:           db.TimePtrFromPg(row.Modified),
		ModifiedGMT:        db.TimePtrFromPg(row.ModifiedGmt),
		Slug:               row.Slug,
		Status:             row.Status,
		Type:               row.Type,
		Link:               row.Link,
		Title:              Rendered{Rendered: row.Title},
		Content:            Rendered{Rendered: row.Content, Protected: new(bool)},
		Excerpt:            Rendered{Rendered: row.Excerpt, Protected: new(bool)},
		Author:             row.Author,
		FeaturedMedia:      row.FeaturedMedia,
		LocalFeaturedMedia: db.Int8Ptr(row.LocalFeaturedMedia),
		Sticky:             row.Sticky,
		Format:             row.Format,
		Categories:         nonNilIDs(row.Categories),
		Tags:               nonNilIDs(row.Tags),
		VideoURL:           row.VideoUrl,
		SourceImageURL:     row.SourceImageUrl,
		CreatedAt:          db.TimeFromPg(row.CreatedAt),
		UpdatedAt:          db.TimeFromPg(row.UpdatedAt),
	}
	var err error
	if item.ACF, err = unmarshalObject(row.Acf); err != nil {
		return Item{}, fmt.Errorf("decode acf of news item %d: %w", row.ID, err)
	}
	if item.Extra, err = unmarshalObject(row.Extra); err != nil {
		return Item{}, fmt.Errorf("decode extra of news item %d: %w", row.ID, err)
	}
	if len(item.Extra) == 0 {
		item.Extra = nil
	}
	return item, nil
}

func marshalObject(value map[string]any) ([]byte, error) {
	if len(value) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(value)
}

func unmarshalObject(data []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func optionalText(value string) pgtype.Text {
	value = strings.TrimSpace(value)
	if value == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: value, Valid: true}
}

func optionalBool(value *bool) pgtype.Bool {
	if value == nil {
		return pgtype.Bool{}
	}
	return pgtype.Bool{Bool: *value, Valid: true}
}

func timestamptzPtr(value *time.Time) pgtype.Timestamptz {
	if value == nil {
		return pgtype.Timestamptz{}
	}
	return db.Timestamptz(*value)
}
