package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register gif decoder
	_ "image/jpeg" // register jpeg decoder
	_ "image/png"  // register png decoder
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	_ "golang.org/x/image/bmp"  // register bmp decoder
	_ "golang.org/x/image/webp" // register webp decoder
	"golang.org/x/sync/errgroup"

	"github.com/newsdesk/newsapi/internal/storage"
)

// Supported output formats.
const (
	FormatWebP = "webp"
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

// ThumbnailSuffix is appended to the base name of thumbnail files.
const ThumbnailSuffix = "_thumb"

// Transcoded describes the two files written for one input.
type Transcoded struct {
	Filename          string
	ThumbnailFilename string
	PrimaryKey        string
	ThumbnailKey      string
	Format            string
	MimeType          string
	SourceFormat      string
	Width             int
	Height            int
	OriginalWidth     int
	OriginalHeight    int
	ByteSize          int64
	ThumbnailByteSize int64
	ThumbnailSize     int
}

// Transcoder decodes a local image and writes the primary asset and its
// thumbnail through a storage provider.
type Transcoder struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewTranscoder creates a Transcoder writing to store.
func NewTranscoder(log *slog.Logger, store storage.Provider) *Transcoder {
	return &Transcoder{
		store:  store,
		logger: log.With(slog.String("service", "media_transcoder")),
	}
}

// NormalizeFormat maps format aliases to a supported output format.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatWebP:
		return FormatWebP, nil
	case FormatJPEG, "jpg":
		return FormatJPEG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

// FitDimensions returns the size of an image scaled to fit inside
// maxWidth x maxHeight, preserving aspect ratio and never enlarging.
// A non-positive bound leaves that axis unconstrained.
func FitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	widthBound := maxWidth > 0 && width > maxWidth
	heightBound := maxHeight > 0 && height > maxHeight
	if !widthBound && !heightBound {
		return width, height
	}
	byWidth := widthBound
	if widthBound && heightBound {
		// The axis with the smaller scale factor wins.
		byWidth = float64(maxWidth)/float64(width) <= float64(maxHeight)/float64(height)
	}
	if byWidth {
		return maxWidth, max(1, ScaledHeight(maxWidth, width, height))
	}
	return max(1, ScaledWidth(maxHeight, width, height)), maxHeight
}

// Transcode decodes inputPath, writes images/<base>.<ext> and
// thumbnails/<base>_thumb.<ext>, and removes inputPath whether or not it
// succeeds. Failures are reported as *TranscodeError and leave no output behind.
func (t *Transcoder) Transcode(ctx context.Context, inputPath string, opts Options) (Transcoded, error) {
	defer func() {
		if err := os.Remove(inputPath); err != nil && !os.IsNotExist(err) {
			t.logger.Warn("remove transcode input failed", slog.String("path", inputPath), slog.Any("error", err))
		}
	}()

	opts = opts.WithDefaults()
	format, err := NormalizeFormat(opts.Format)
	if err != nil {
		return Transcoded{}, &TranscodeError{Path: inputPath, Err: err}
	}

	img, sourceFormat, err := decodeFile(inputPath, opts.MaxPixels)
	if err != nil {
		return Transcoded{}, &TranscodeError{Path: inputPath, Err: err}
	}
	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()
	width, height := FitDimensions(origW, origH, opts.TargetWidth, opts.TargetHeight)

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out := Transcoded{
		Filename:          base + "." + format,
		ThumbnailFilename: base + ThumbnailSuffix + "." + format,
		Format:            format,
		MimeType:          "image/" + format,
		SourceFormat:      sourceFormat,
		Width:             width,
		Height:            height,
		OriginalWidth:     origW,
		OriginalHeight:    origH,
		ThumbnailSize:     opts.ThumbnailSize,
	}
	out.PrimaryKey = path.Join(storage.ImagesPrefix, out.Filename)
	out.ThumbnailKey = path.Join(storage.ThumbnailsPrefix, out.ThumbnailFilename)

	for _, key := range []string{out.PrimaryKey, out.ThumbnailKey} {
		if err := t.ensureAbsent(ctx, key); err != nil {
			return Transcoded{}, &TranscodeError{Path: inputPath, Err: err}
		}
	}

	var primaryWritten, thumbWritten bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		primary := img
		if width != origW || height != origH {
			primary = imaging.Resize(img, width, height, imaging.Lanczos)
		}
		n, err := t.write(gctx, out.PrimaryKey, primary, format, opts.Quality)
		out.ByteSize = n
		primaryWritten = err == nil
		return err
	})
	g.Go(func() error {
		thumb := imaging.Fill(img, opts.ThumbnailSize, opts.ThumbnailSize, imaging.Center, imaging.Lanczos)
		n, err := t.write(gctx, out.ThumbnailKey, thumb, format, opts.ThumbnailQuality())
		out.ThumbnailByteSize = n
		thumbWritten = err == nil
		return err
	})
	if err := g.Wait(); err != nil {
		// Only remove what this call wrote; a taken key belongs to another asset.
		written := Transcoded{}
		if primaryWritten {
			written.PrimaryKey = out.PrimaryKey
		}
		if thumbWritten {
			written.ThumbnailKey = out.ThumbnailKey
		}
		t.Discard(context.WithoutCancel(ctx), written)
		return Transcoded{}, &TranscodeError{Path: inputPath, Err: err}
	}

	t.logger.Debug("transcoded",
		slog.String("file", out.Filename),
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("original_width", origW),
		slog.Int("original_height", origH),
		slog.Int64("bytes", out.ByteSize),
	)
	return out, nil
}

// Discard removes the files written for out. Missing files are ignored.
func (t *Transcoder) Discard(ctx context.Context, out Transcoded) {
	for _, key := range []string{out.PrimaryKey, out.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err := t.store.Delete(ctx, key); err != nil {
			t.logger.Warn("remove transcoded file failed", slog.String("key", key), slog.Any("error", err))
		}
	}
}

// ensureAbsent refuses to replace a file that belongs to another asset.
func (t *Transcoder) ensureAbsent(ctx context.Context, key string) error {
	rc, err := t.store.Open(ctx, key)
	if err == nil {
		_ = rc.Close()
		return fmt.Errorf("%s already exists", key)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("check %s: %w", key, err)
}

func (t *Transcoder) write(ctx context.Context, key string, img image.Image, format string, quality int) (int64, error) {
	var buf bytes.Buffer
	if err := encode(&buf, img, format, quality); err != nil {
		return 0, fmt.Errorf("encode %s: %w", key, err)
	}
	n, err := t.store.Put(ctx, key, &buf)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", key, err)
	}
	return n, nil
}

// decodeFile reads the header first so that an image declaring more than
// maxPixels is rejected before any pixel buffer is allocated.
func decodeFile(p string, maxPixels int64) (image.Image, string, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode header: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); maxPixels > 0 && pixels > maxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d is more than %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, "", errors.New("decode: empty image")
	}
	return img, format, nil
}

func encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case FormatWebP:
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
		if err != nil {
			return fmt.Errorf("webp encoder options: %w", err)
		}
		return webp.Encode(w, img, options)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
