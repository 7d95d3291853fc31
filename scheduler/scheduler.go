// Package scheduler writes periodic CSV snapshots of the catalog to disk and prunes
// old ones. Snapshots give the admin a dated paper trail of what the reference said.
package scheduler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/giygas/empirical-rx/catalog/entities"
	"github.com/giygas/empirical-rx/export"
	"github.com/giygas/empirical-rx/interfaces"
	"github.com/giygas/empirical-rx/logging"
	"github.com/giygas/empirical-rx/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	snapshotPrefix = "catalog-"
	snapshotSuffix = ".csv"
	snapshotLayout = "20060102-150405"

	// warn when no snapshot has been written for this long
	staleAfter = 25 * time.Hour
)

// Options configures the export scheduler
type Options struct {
	Dir           string
	At            string // gocron At() times, e.g. "06:00;18:00"
	RetentionDays int
}

// Scheduler takes export snapshots on a daily schedule
type Scheduler struct {
	store     interfaces.CatalogStore
	opts      Options
	scheduler *gocron.Scheduler
	job       *gocron.Job
	done      chan struct{}
	stopOnce  sync.Once

	mu           sync.Mutex
	lastRevision string
	lastSnapshot time.Time

	now func() time.Time
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(store interfaces.CatalogStore, opts Options) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	s.SingletonModeAll()

	return &Scheduler{
		store:     store,
		opts:      opts,
		scheduler: s,
		done:      make(chan struct{}),
		now:       time.Now,
	}
}

// Start takes an initial snapshot, then schedules the daily ones
func (s *Scheduler) Start() error {
	if s.opts.Dir == "" {
		return errors.New("export directory is not set")
	}
	if err := os.MkdirAll(s.opts.Dir, 0750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if _, err := s.Snapshot(); err != nil {
		logging.Error("Failed to write initial export snapshot", "error", err)
		return fmt.Errorf("initial export snapshot failed: %w", err)
	}

	job, err := s.scheduler.Every(1).Days().At(s.opts.At).Do(s.run)
	if err != nil {
		logging.Error("Failed to schedule exports", "at", s.opts.At, "error", err)
		return fmt.Errorf("failed to schedule exports: %w", err)
	}
	s.job = job

	s.scheduler.StartAsync()
	logging.Info("Export scheduler started", "dir", s.opts.Dir, "at", s.opts.At, "next_run", job.NextRun())

	s.startStaleMonitoring()

	return nil
}

// Stop stops the scheduler and the stale-snapshot monitor
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.scheduler.Stop()
		close(s.done)
	})
}

// NextRun returns when the next scheduled snapshot is due, zero before Start
func (s *Scheduler) NextRun() time.Time {
	if s.job == nil {
		return time.Time{}
	}
	return s.job.NextRun()
}

func (s *Scheduler) run() {
	if _, err := s.Snapshot(); err != nil {
		logging.Error("Failed to write export snapshot", "error", err)
	}
	if _, err := s.Prune(); err != nil {
		logging.Error("Failed to prune export snapshots", "error", err)
	}
}

// Snapshot writes the catalog as a timestamped CSV file and returns its path.
// Nothing is written when the catalog hasn't changed since the last snapshot;
// the returned path is then empty.
func (s *Scheduler) Snapshot() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revision := s.store.Revision()
	if revision != "" && revision == s.lastRevision {
		metrics.ExportSnapshots.WithLabelValues("skipped").Inc()
		logging.Debug("Catalog unchanged since last snapshot, skipping", "revision", revision)
		s.lastSnapshot = s.now()
		return "", nil
	}

	start := s.now()
	path := filepath.Join(s.opts.Dir, snapshotPrefix+start.Format(snapshotLayout)+snapshotSuffix)

	entries := s.store.Entries()
	if err := writeSnapshot(path, entries); err != nil {
		metrics.ExportSnapshots.WithLabelValues("error").Inc()
		return "", err
	}

	s.lastRevision = revision
	s.lastSnapshot = start
	metrics.ExportSnapshots.WithLabelValues("ok").Inc()
	logging.Info("Export snapshot written", "path", path, "conditions", len(entries), "duration", time.Since(start).String())

	return path, nil
}

func writeSnapshot(path string, entries []entities.Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := export.WriteCSV(tmp, entries); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}

// LastSnapshot returns when a snapshot was last taken or skipped as unchanged
func (s *Scheduler) LastSnapshot() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSnapshot
}

// startStaleMonitoring warns when snapshots stop happening
func (s *Scheduler) startStaleMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				if last := s.LastSnapshot(); s.now().Sub(last) > staleAfter {
					logging.Warn("No export snapshot in over 25 hours", "last_snapshot", last)
				}
			}
		}
	}()
}
