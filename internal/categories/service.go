package categories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

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
		logger:  log.With(slog.String("service", "categories")),
	}
}

// List returns every category ordered by name.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Category, 0, len(rows))
	for _, row := range rows {
		items = append(items, toCategory(row))
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	row, err := s.queries.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return toCategory(row), nil
}

// Create stores a new category, assigning the next free id when c.ID is zero.
func (s *Service) Create(ctx context.Context, c Category) (Category, error) {
	if c.ID == 0 {
		next, err := s.queries.GetNextCategoryID(ctx)
		if err != nil {
			return Category{}, fmt.Errorf("next category id: %w", err)
		}
		c.ID = next
	}
	return s.Upsert(ctx, c)
}

// Upsert inserts or replaces a category.
func (s *Service) Upsert(ctx context.Context, c Category) (Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.ID <= 0 {
		return Category{}, fmt.Errorf("%w: id must be positive", ErrInvalid)
	}
	if c.Name == "" {
		return Category{}, fmt.Errorf("%w: category %d: name is required", ErrInvalid, c.ID)
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if c.Taxonomy == "" {
		c.Taxonomy = "category"
	}
	row, err := s.queries.UpsertCategory(ctx, sqlc.UpsertCategoryParams{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Link:        c.Link,
		Taxonomy:    c.Taxonomy,
		Parent:      c.Parent,
		Count:       c.Count,
		Image:       c.Image,
	})
	if err != nil {
		return Category{}, err
	}
	return toCategory(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	affected, err := s.queries.DeleteCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	return s.queries.DeleteAllCategories(ctx)
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func toCategory(row sqlc.Category) Category {
	return Category{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		Link:        row.Link,
		Taxonomy:    row.Taxonomy,
		Parent:      row.Parent,
		Count:       row.Count,
		Image:       row.Image,
		CreatedAt:   db.TimeFromPg(row.CreatedAt),
		UpdatedAt:   db.TimeFromPg(row.UpdatedAt),
	}
}
