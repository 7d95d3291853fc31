package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const logFilePrefix = "empirical-rx-"

// RotatingLogger is an io.Writer that starts a new file every ISO week and whenever
// the current file reaches maxFileSize. Files older than the retention window are pruned.
type RotatingLogger struct {
	dir         string
	retention   time.Duration
	maxFileSize int64

	mu      sync.Mutex
	file    *os.File
	week    string
	part    int
	size    int64
	now     func() time.Time
	stopped chan struct{}
	once    sync.Once
}

// NewRotatingLogger opens (or creates) the current week's log file in dir
func NewRotatingLogger(dir string, retentionWeeks int, maxFileSize int64) (*RotatingLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rl := &RotatingLogger{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		now:         time.Now,
		stopped:     make(chan struct{}),
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if err := rl.openLocked(weekKey(rl.now())); err != nil {
		return nil, err
	}
	return rl, nil
}

// weekKey returns the ISO week in YYYY-Www form
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rl *RotatingLogger) fileName(week string, part int) string {
	if part == 0 {
		return filepath.Join(rl.dir, fmt.Sprintf("%s%s.log", logFilePrefix, week))
	}
	return filepath.Join(rl.dir, fmt.Sprintf("%s%s_%02d.log", logFilePrefix, week, part))
}

// openLocked opens the newest file for week that still has room. Caller holds mu.
func (rl *RotatingLogger) openLocked(week string) error {
	if rl.file != nil {
		_ = rl.file.Close()
		rl.file = nil
	}
	if week != rl.week {
		rl.part = 0
	}

	for {
		path := rl.fileName(week, rl.part)
		info, err := os.Stat(path)
		if err == nil && rl.maxFileSize > 0 && info.Size() >= rl.maxFileSize {
			rl.part++
			continue
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		rl.file = f
		rl.week = week
		rl.size = 0
		if info != nil {
			rl.size = info.Size()
		}
		return nil
	}
}

// Write appends p to the current file, rotating first when the week changed
// or the write would push the file past its size limit
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(rl.now())
	switch {
	case week != rl.week || rl.file == nil:
		if err := rl.openLocked(week); err != nil {
			return 0, err
		}
	case rl.maxFileSize > 0 && rl.size > 0 && rl.size+int64(len(p)) > rl.maxFileSize:
		rl.part++
		if err := rl.openLocked(week); err != nil {
			return 0, err
		}
	}

	n, err := rl.file.Write(p)
	rl.size += int64(n)
	return n, err
}

// CurrentFile returns the path of the file being written
func (rl *RotatingLogger) CurrentFile() string {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file == nil {
		return ""
	}
	return rl.file.Name()
}

// Cleanup removes log files whose modification time is older than the retention window
// and returns how many were deleted
func (rl *RotatingLogger) Cleanup() (int, error) {
	entries, err := os.ReadDir(rl.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := rl.now().Add(-rl.retention)
	current := rl.CurrentFile()

	var stale []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(rl.dir, name)
		if path != current && info.ModTime().Before(cutoff) {
			stale = append(stale, path)
		}
	}
	sort.Strings(stale)

	deleted := 0
	for _, path := range stale {
		if err := os.Remove(path); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

// startCleanup prunes old files once a day until Close
func (rl *RotatingLogger) startCleanup() {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-rl.stopped:
				return
			case <-ticker.C:
				if n, err := rl.Cleanup(); err != nil {
					fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
				} else if n > 0 {
					fmt.Printf("Cleaned up %d old log files\n", n)
				}
			}
		}
	}()
}

// Close stops the cleanup goroutine and closes the current file
func (rl *RotatingLogger) Close() error {
	rl.once.Do(func() { close(rl.stopped) })

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file == nil {
		return nil
	}
	err := rl.file.Close()
	rl.file = nil
	return err
}
