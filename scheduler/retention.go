package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/giygas/empirical-rx/logging"
)

// Prune deletes snapshots older than the retention period and returns how many were
// removed. Files that don't look like snapshots are left alone. A retention of zero
// or less keeps everything.
func (s *Scheduler) Prune() (int, error) {
	if s.opts.RetentionDays <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(s.opts.Dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list export directory: %w", err)
	}

	cutoff := s.now().AddDate(0, 0, -s.opts.RetentionDays)
	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}

		taken, ok := snapshotTime(name)
		if !ok {
			continue
		}
		if !taken.Before(cutoff) {
			continue
		}

		path := filepath.Join(s.opts.Dir, name)
		if err := os.Remove(path); err != nil {
			logging.Warn("Failed to remove old export snapshot", "path", path, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		logging.Info("Old export snapshots pruned", "deleted", deleted, "retention_days", s.opts.RetentionDays)
	}
	return deleted, nil
}

// snapshotTime reads the timestamp encoded in a snapshot file name
func snapshotTime(name string) (time.Time, bool) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotSuffix)
	t, err := time.ParseInLocation(snapshotLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
