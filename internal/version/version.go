// Package version exposes build information set through ldflags, falling
// back to the VCS stamp embedded by the Go toolchain.
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Overridable at build time, e.g.
// -ldflags "-X github.com/newsdesk/newsapi/internal/version.Version=v1.2.0".
var (
	Version    = "dev"
	CommitHash = ""
	BuildTime  = ""
)

var readBuildInfo sync.Once

func fillFromBuildInfo() {
	readBuildInfo.Do(func() {
		if CommitHash != "" {
			return
		}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				CommitHash = setting.Value
			case "vcs.time":
				if BuildTime == "" {
					BuildTime = setting.Value
				}
			}
		}
	})
}

// GetInfo returns the version with the short commit hash, e.g. "v1.2.0 (3f2c1ab)".
func GetInfo() string {
	fillFromBuildInfo()
	if CommitHash == "" {
		return Version
	}
	short := CommitHash
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, short)
}
