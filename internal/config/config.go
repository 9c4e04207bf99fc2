// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath     = "config.toml"
	DefaultHTTPAddr       = ":5001"
	DefaultCORSOrigin     = "*"
	DefaultMaxUploadBytes = 10 * 1024 * 1024
	DefaultPGHost         = "127.0.0.1"
	DefaultPGPort         = 5432
	DefaultPGUser         = "postgres"
	DefaultPGDatabase     = "newsapi"
	DefaultPGSSLMode      = "disable"

	DefaultMediaRoot            = "uploads"
	DefaultTargetWidth          = 1200
	DefaultQuality              = 85
	DefaultFormat               = "webp"
	DefaultThumbnailSize        = 300
	DefaultThumbnailQualityDrop = 15
	DefaultFetchTimeout         = "30s"
	DefaultUserAgent            = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultMaxFetchBytes        = 50 * 1024 * 1024
	DefaultMaxPixels            = 268402689
	DefaultTempRetention        = "24h"
	DefaultReapSchedule         = "@hourly"
	DefaultSeedFile             = "data/seed.yaml"
	DefaultSeedFailureDelay     = "100ms"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	Media    MediaConfig    `toml:"media"`
	Seed     SeedConfig     `toml:"seed"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP listen address, CORS origin and upload size limit.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	CORSOrigin     string `toml:"cors_origin"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// MediaConfig drives the ingestion pipeline. Both the upload path and the
// seeding path read their transcode options from here.
type MediaConfig struct {
	Root                 string  `toml:"root"`
	BaseURL              string  `toml:"base_url"`
	TargetWidth          int     `toml:"target_width"`
	TargetHeight         int     `toml:"target_height"`
	Quality              int     `toml:"quality"`
	Format               string  `toml:"format"`
	ThumbnailSize        int     `toml:"thumbnail_size"`
	ThumbnailQualityDrop int     `toml:"thumbnail_quality_drop"`
	FetchTimeout         string  `toml:"fetch_timeout"`
	UserAgent            string  `toml:"user_agent"`
	InsecureSkipVerify   bool    `toml:"insecure_skip_verify"`
	MaxFetchBytes        int64   `toml:"max_fetch_bytes"`
	MaxPixels            int64   `toml:"max_pixels"`
	FetchRate            float64 `toml:"fetch_rate"`
	TempRetention        string  `toml:"temp_retention"`
	ReapSchedule         string  `toml:"reap_schedule"`
}

// SeedConfig holds dataset seeding parameters.
type SeedConfig struct {
	File         string `toml:"file"`
	FailureDelay string `toml:"failure_delay"`
	Reset        bool   `toml:"reset"`
}

// FetchTimeoutDuration parses fetch_timeout, falling back to the default on error.
func (c MediaConfig) FetchTimeoutDuration() time.Duration {
	return parseDuration(c.FetchTimeout, 30*time.Second)
}

// TempRetentionDuration parses temp_retention, falling back to 24h on error.
func (c MediaConfig) TempRetentionDuration() time.Duration {
	return parseDuration(c.TempRetention, 24*time.Hour)
}

// FailureDelayDuration parses failure_delay; a negative or invalid value disables the delay.
func (c SeedConfig) FailureDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.FailureDelay)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Default returns a Config populated with every default value.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:           DefaultHTTPAddr,
			CORSOrigin:     DefaultCORSOrigin,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Media: MediaConfig{
			Root:                 DefaultMediaRoot,
			TargetWidth:          DefaultTargetWidth,
			Quality:              DefaultQuality,
			Format:               DefaultFormat,
			ThumbnailSize:        DefaultThumbnailSize,
			ThumbnailQualityDrop: DefaultThumbnailQualityDrop,
			FetchTimeout:         DefaultFetchTimeout,
			UserAgent:            DefaultUserAgent,
			InsecureSkipVerify:   true,
			MaxFetchBytes:        DefaultMaxFetchBytes,
			MaxPixels:            DefaultMaxPixels,
			TempRetention:        DefaultTempRetention,
			ReapSchedule:         DefaultReapSchedule,
		},
		Seed: SeedConfig{
			File:         DefaultSeedFile,
			FailureDelay: DefaultSeedFailureDelay,
		},
	}
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
