package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsapi/internal/logger"
	"github.com/newsdesk/newsapi/internal/storage"
)

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(width, height)))
	return buf.Bytes()
}

// pngHeader returns a PNG holding only an IHDR chunk that declares a
// width x height grayscale image, followed by IEND.
func pngHeader(width, height uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(kind string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(kind), data...)
		buf.Write(body)
		_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth; colour type, compression, filter and interlace stay 0
	chunk("IHDR", ihdr)
	chunk("IEND", nil)
	return buf.Bytes()
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(width, height), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func decodeDims(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

type pipeline struct {
	layout     storage.Layout
	files      *storage.Local
	store      *memoryStore
	linker     *recordingLinker
	fetcher    *Fetcher
	transcoder *Transcoder
	service    *Service
}

func newPipeline(t *testing.T, opts Options) *pipeline {
	t.Helper()
	layout, err := storage.EnsureLayout(t.TempDir())
	require.NoError(t, err)
	log := logger.Discard()
	p := &pipeline{
		layout: layout,
		files:  storage.NewLocal(layout.Root),
		store:  newMemoryStore(),
		linker: newRecordingLinker(),
	}
	p.fetcher = NewFetcher(log, FetcherConfig{TempDir: layout.Temp(), InsecureSkipVerify: true})
	p.transcoder = NewTranscoder(log, p.files)
	p.service = NewService(log, p.store, p.linker, p.fetcher, p.transcoder, p.files, ServiceConfig{
		Options: opts,
		BaseURL: "http://media.test",
	})
	return p
}

// memoryStore is an in-process Store with the same id and watermark rules as Postgres.
var errDuplicateKey = errors.New("duplicate key value violates unique constraint")

type memoryStore struct {
	mu        sync.Mutex
	assets    map[int64]Asset
	watermark int64
	insertErr error
	collide   map[int64]bool
	inserts   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{assets: map[int64]Asset{}, collide: map[int64]bool{}}
}

func (s *memoryStore) MaxID(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := s.watermark
	for id := range s.assets {
		maxID = max(maxID, id)
	}
	return maxID, nil
}

func (s *memoryStore) Insert(_ context.Context, asset Asset) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return Asset{}, &PersistError{ID: asset.ID, Err: s.insertErr}
	}
	if _, exists := s.assets[asset.ID]; exists || s.collide[asset.ID] {
		return Asset{}, &PersistError{ID: asset.ID, Collision: true, Err: errDuplicateKey}
	}
	s.assets[asset.ID] = asset
	return asset, nil
}

func (s *memoryStore) Get(_ context.Context, id int64) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	asset, ok := s.assets[id]
	if !ok {
		return Asset{}, &NotFoundError{Kind: "media", ID: id}
	}
	return asset, nil
}

func (s *memoryStore) List(_ context.Context, filter ListFilter) ([]Asset, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []Asset
	for _, a := range s.assets {
		if filter.OwnerID != nil && (a.OwnerContentID == nil || *a.OwnerContentID != *filter.OwnerID) {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}

func (s *memoryStore) ListByIDs(_ context.Context, ids []int64) ([]Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Asset
	for _, id := range ids {
		if a, ok := s.assets[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memoryStore) ListAll(_ context.Context) ([]Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Asset, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, a)
	}
	return out, nil
}

func (s *memoryStore) UpdateMetadata(_ context.Context, id int64, update MetadataUpdate) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok {
		return Asset{}, &NotFoundError{Kind: "media", ID: id}
	}
	if update.AltText != nil {
		a.AltText = *update.AltText
	}
	if update.Caption != nil {
		a.Caption = *update.Caption
	}
	if update.Description != nil {
		a.Description = *update.Description
	}
	s.assets[id] = a
	return a, nil
}

func (s *memoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[id]; !ok {
		return &NotFoundError{Kind: "media", ID: id}
	}
	delete(s.assets, id)
	s.watermark = max(s.watermark, id)
	return nil
}

func (s *memoryStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.assets))
	for id := range s.assets {
		s.watermark = max(s.watermark, id)
	}
	s.assets = map[int64]Asset{}
	return n, nil
}

type linkCall struct {
	ContentID int64
	MediaID   *int64
}

type recordingLinker struct {
	mu    sync.Mutex
	calls []linkCall
	fail  map[int64]error
}

func newRecordingLinker() *recordingLinker {
	return &recordingLinker{fail: map[int64]error{}}
}

func (l *recordingLinker) SetFeaturedMedia(_ context.Context, contentID int64, mediaID *int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, linkCall{ContentID: contentID, MediaID: mediaID})
	return l.fail[contentID]
}

func (l *recordingLinker) last(contentID int64) (linkCall, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.calls) - 1; i >= 0; i-- {
		if l.calls[i].ContentID == contentID {
			return l.calls[i], true
		}
	}
	return linkCall{}, false
}
