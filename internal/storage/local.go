package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Layout resolves the fixed directories under a media root.
type Layout struct {
	Root string
}

// Images is the directory holding primary assets.
func (l Layout) Images() string { return filepath.Join(l.Root, ImagesPrefix) }

// Thumbnails is the directory holding thumbnails.
func (l Layout) Thumbnails() string { return filepath.Join(l.Root, ThumbnailsPrefix) }

// Temp is the transient area for downloads and uploads.
func (l Layout) Temp() string { return filepath.Join(l.Root, TempPrefix) }

// EnsureLayout creates images/, thumbnails/ and temp/ under root.
// It runs at process setup; pipeline stages assume the directories exist.
func EnsureLayout(root string) (Layout, error) {
	layout := Layout{Root: root}
	for _, dir := range []string{layout.Images(), layout.Thumbnails(), layout.Temp()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Layout{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return layout, nil
}

// Local stores objects as files below a root directory.
type Local struct {
	root string
}

// NewLocal creates a filesystem provider rooted at root.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Put writes the object through a temporary sibling file and links it into place,
// so readers never observe a partially written object and an existing object
// is never replaced, even by a concurrent writer.
func (p *Local) Put(ctx context.Context, key string, reader io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	target, err := p.resolve(key)
	if err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".put-*")
	if err != nil {
		return 0, fmt.Errorf("create temp object: %w", err)
	}
	tmpPath := tmp.Name()
	written, copyErr := io.Copy(tmp, reader)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("write object %s: %w", key, errors.Join(copyErr, closeErr))
	}
	linkErr := os.Link(tmpPath, target)
	_ = os.Remove(tmpPath)
	if linkErr != nil {
		if errors.Is(linkErr, fs.ErrExist) {
			return 0, fmt.Errorf("%w: %s", ErrExists, key)
		}
		return 0, fmt.Errorf("commit object %s: %w", key, linkErr)
	}
	return written, nil
}

// Open returns the object's file. A missing object yields ErrNotFound.
func (p *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := p.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes the object's file.
func (p *Local) Delete(_ context.Context, key string) error {
	target, err := p.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// AccessPath maps a key to its static route.
func (p *Local) AccessPath(key string) string {
	return "/" + strings.TrimPrefix(path.Clean("/"+key), "/")
}

func (p *Local) resolve(key string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))
	if clean == "/" {
		return "", fmt.Errorf("storage key is required")
	}
	return filepath.Join(p.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
