package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Default temp-file reaping parameters.
const (
	DefaultTempRetention = 24 * time.Hour
	DefaultReapSchedule  = "@hourly"
)

// Reaper deletes abandoned files from the temp area.
type Reaper struct {
	dir       string
	retention time.Duration
	schedule  string
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewReaper creates a Reaper for dir. Files whose modification time is older
// than retention are removed.
func NewReaper(log *slog.Logger, dir string, retention time.Duration, schedule string) *Reaper {
	if retention <= 0 {
		retention = DefaultTempRetention
	}
	if schedule == "" {
		schedule = DefaultReapSchedule
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Reaper{
		dir:       dir,
		retention: retention,
		schedule:  schedule,
		now:       time.Now,
		cron:      cron.New(cron.WithParser(parser)),
		logger:    log.With(slog.String("service", "media_reaper")),
	}
}

// Reap removes expired regular files and returns how many were deleted.
// A file that cannot be removed is logged and skipped.
func (r *Reaper) Reap(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read temp dir: %w", err)
	}
	cutoff := r.now().Add(-r.retention)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if !os.IsNotExist(err) {
				r.logger.Warn("stat temp file failed", slog.String("name", entry.Name()), slog.Any("error", err))
			}
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				r.logger.Warn("remove temp file failed", slog.String("path", path), slog.Any("error", err))
			}
			continue
		}
		removed++
	}
	if removed > 0 {
		r.logger.Info("reaped temp files", slog.Int("removed", removed))
	}
	return removed, nil
}

// Start schedules Reap on the configured cron expression.
func (r *Reaper) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		if _, err := r.Reap(context.Background()); err != nil {
			r.logger.Error("reap temp files failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule temp reaper %q: %w", r.schedule, err)
	}
	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running reap to finish or ctx to expire.
func (r *Reaper) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
