// Package boot derives runtime settings from config and the environment.
package boot

import (
	"fmt"
	"os"
	"strings"

	"github.com/newsdesk/newsapi/internal/config"
)

// RuntimeConfig holds settings resolved at process start.
// Values may be overridden by environment variables (HTTP_ADDR, MEDIA_BASE_URL, MEDIA_ROOT).
type RuntimeConfig struct {
	ServerAddr   string
	MediaRoot    string
	MediaBaseURL string
}

// ProvideRuntimeConfig builds RuntimeConfig from the given config and applies env overrides.
func ProvideRuntimeConfig(cfg config.Config) (*RuntimeConfig, error) {
	ret := &RuntimeConfig{
		ServerAddr:   cfg.Server.Addr,
		MediaRoot:    cfg.Media.Root,
		MediaBaseURL: cfg.Media.BaseURL,
	}

	if value := os.Getenv("HTTP_ADDR"); value != "" {
		ret.ServerAddr = value
	}
	if value := os.Getenv("MEDIA_ROOT"); value != "" {
		ret.MediaRoot = value
	}
	if value := os.Getenv("MEDIA_BASE_URL"); value != "" {
		ret.MediaBaseURL = value
	}

	if strings.TrimSpace(ret.MediaRoot) == "" {
		return nil, fmt.Errorf("media root is required")
	}
	ret.MediaBaseURL = strings.TrimRight(strings.TrimSpace(ret.MediaBaseURL), "/")
	return ret, nil
}
