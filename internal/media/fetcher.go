package media

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Default fetch parameters.
const (
	DefaultFetchTimeout  = 30 * time.Second
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultMaxFetchBytes = 50 * 1024 * 1024
)

var errTooLarge = errors.New("response body exceeds size limit")

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	TempDir            string
	Timeout            time.Duration
	UserAgent          string
	InsecureSkipVerify bool
	MaxBytes           int64
	// Rate limits requests per second; 0 disables pacing.
	Rate float64
}

// Fetcher downloads remote images into the temp area.
type Fetcher struct {
	client    *http.Client
	tempDir   string
	userAgent string
	maxBytes  int64
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher. TLS verification is skipped when
// cfg.InsecureSkipVerify is set; that is only acceptable for development feeds.
func NewFetcher(log *slog.Logger, cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFetchTimeout
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxFetchBytes
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		tempDir:   cfg.TempDir,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		limiter:   limiter,
		logger:    log.With(slog.String("service", "media_fetcher")),
	}
}

// Fetch downloads rawURL into the temp area under name (or a generated
// download-<uuid> name) and returns the local path. On any failure no file is
// left behind and the error is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, name string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", &FetchError{URL: rawURL, Err: errors.New("url is required")}
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", &FetchError{URL: rawURL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	path := filepath.Join(f.tempDir, tempName(name))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	written, err := io.Copy(file, io.LimitReader(resp.Body, f.maxBytes+1))
	if err == nil && written > f.maxBytes {
		err = errTooLarge
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			f.logger.Warn("remove partial download failed", slog.String("path", path), slog.Any("error", rmErr))
		}
		return "", &FetchError{URL: rawURL, Err: err}
	}
	f.logger.Debug("fetched", slog.String("url", rawURL), slog.String("path", path), slog.Int64("bytes", written))
	return path, nil
}

// Accept treats an already-local file as fetched.
func (f *Fetcher) Accept(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &FetchError{URL: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return "", &FetchError{URL: path, Err: errors.New("not a regular file")}
	}
	return path, nil
}

// tempName strips any directory part from name so downloads stay in the temp area.
func tempName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "download-" + uuid.NewString()
	}
	return name
}
