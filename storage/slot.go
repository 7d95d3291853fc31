// Package storage provides the persistence slots the catalog is written through to.
// Every backend stores the whole serialized catalog under a single name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/giygas/empirical-rx/config"
	"github.com/giygas/empirical-rx/interfaces"
	"github.com/giygas/empirical-rx/logging"
)

// ErrSlotEmpty is returned by Read when nothing has been stored yet
var ErrSlotEmpty = errors.New("storage slot is empty")

// Open returns the slot selected by cfg.StorageBackend
func Open(ctx context.Context, cfg *config.Config) (interfaces.Slot, error) {
	backend := strings.ToLower(cfg.StorageBackend)

	var (
		slot interfaces.Slot
		err  error
	)
	switch backend {
	case config.BackendFile:
		slot = NewFileSlot(cfg.DataDir, cfg.StorageKey)
	case config.BackendRedis:
		slot, err = NewRedisSlot(ctx, cfg.RedisURL, cfg.StorageKey)
	case config.BackendPostgres:
		slot, err = NewPostgresSlot(ctx, cfg.DatabaseURL, cfg.StorageKey)
	case config.BackendMemory:
		slot = NewMemorySlot(cfg.StorageKey)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", backend, err)
	}

	logging.Info("Storage slot opened", "backend", backend, "slot", slot.Name())
	return slot, nil
}
