package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultTargetWidth, cfg.Media.TargetWidth)
	assert.Equal(t, 0, cfg.Media.TargetHeight)
	assert.Equal(t, DefaultQuality, cfg.Media.Quality)
	assert.Equal(t, "webp", cfg.Media.Format)
	assert.Equal(t, DefaultThumbnailSize, cfg.Media.ThumbnailSize)
	assert.True(t, cfg.Media.InsecureSkipVerify)
	assert.Equal(t, int64(DefaultMaxPixels), cfg.Media.MaxPixels)
	assert.Equal(t, 30*time.Second, cfg.Media.FetchTimeoutDuration())
	assert.Equal(t, 24*time.Hour, cfg.Media.TempRetentionDuration())
	assert.Equal(t, 100*time.Millisecond, cfg.Seed.FailureDelayDuration())
}

func TestLoadOverridesKeepUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[server]
addr = ":9090"

[media]
target_width = 800
quality = 70
format = "jpeg"
temp_retention = "2h"

[postgres]
password = "secret"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 800, cfg.Media.TargetWidth)
	assert.Equal(t, 70, cfg.Media.Quality)
	assert.Equal(t, "jpeg", cfg.Media.Format)
	assert.Equal(t, 2*time.Hour, cfg.Media.TempRetentionDuration())
	assert.Equal(t, "secret", cfg.Postgres.Password)
	assert.Equal(t, DefaultPGHost, cfg.Postgres.Host)
	assert.Equal(t, DefaultThumbnailSize, cfg.Media.ThumbnailSize)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[media\nroot="), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDurationFallbacks(t *testing.T) {
	m := MediaConfig{FetchTimeout: "soon", TempRetention: "-1h"}
	assert.Equal(t, 30*time.Second, m.FetchTimeoutDuration())
	assert.Equal(t, 24*time.Hour, m.TempRetentionDuration())

	s := SeedConfig{FailureDelay: "nope"}
	assert.Equal(t, time.Duration(0), s.FailureDelayDuration())
}
