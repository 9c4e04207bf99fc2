// Package storage defines the Provider interface for media file backends
// and the on-disk layout of the media root.
package storage

import (
	"context"
	"errors"
	"io"
)

// Key prefixes under the media root.
const (
	ImagesPrefix     = "images"
	ThumbnailsPrefix = "thumbnails"
	TempPrefix       = "temp"
)

var (
	// ErrNotFound is returned by Open when no object exists under the key.
	ErrNotFound = errors.New("storage: object not found")
	// ErrExists is returned by Put when the key is already taken.
	ErrExists = errors.New("storage: object already exists")
)

// Provider abstracts file storage operations.
type Provider interface {
	// Put writes data to storage under the given key and returns the bytes written.
	// It never replaces an existing object; a taken key yields ErrExists.
	Put(ctx context.Context, key string, reader io.Reader) (int64, error)
	// Open returns a reader for the given storage key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// AccessPath returns the public route for a storage key (e.g. /images/a.webp).
	AccessPath(key string) string
}
