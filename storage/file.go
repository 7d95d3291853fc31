package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/giygas/empirical-rx/interfaces"
	"github.com/giygas/empirical-rx/logging"
)

// Compile-time check to ensure FileSlot implements Slot
var _ interfaces.Slot = (*FileSlot)(nil)

// FileSlot stores the payload as <dir>/<name>.json, replaced atomically on every write
type FileSlot struct {
	dir  string
	path string
}

// NewFileSlot creates a file slot; the directory is created on first write
func NewFileSlot(dir, name string) *FileSlot {
	return &FileSlot{
		dir:  dir,
		path: filepath.Join(dir, name+".json"),
	}
}

func (f *FileSlot) Name() string {
	return "file:" + f.path
}

// Path returns the file backing the slot
func (f *FileSlot) Path() string {
	return f.path
}

func (f *FileSlot) Read(ctx context.Context) ([]byte, error) {
	payload, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return payload, nil
}

// Write writes to a temp file in the same directory then renames it over the slot,
// so readers never observe a partial catalog
func (f *FileSlot) Write(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(f.dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, ".catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		if err := os.Remove(tmpName); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.Warn("Failed to remove temp catalog file", "path", tmpName, "error", err)
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

// Ping checks the data directory can be created or already exists
func (f *FileSlot) Ping(ctx context.Context) error {
	info, err := os.Stat(f.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", f.dir)
	}
	return nil
}

func (f *FileSlot) Close() error {
	return nil
}
