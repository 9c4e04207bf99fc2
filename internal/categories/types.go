package categories

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a category does not exist.
	ErrNotFound = errors.New("category not found")
	// ErrInvalid wraps validation failures.
	ErrInvalid = errors.New("invalid category")
)

// Category is a WordPress-style taxonomy term.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Taxonomy    string    `json:"taxonomy"`
	Parent      int64     `json:"parent"`
	Count       int32     `json:"count"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
