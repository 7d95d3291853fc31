package storage

import (
	"context"
	"sync"

	"github.com/giygas/empirical-rx/interfaces"
)

// Compile-time check to ensure MemorySlot implements Slot
var _ interfaces.Slot = (*MemorySlot)(nil)

// MemorySlot keeps the payload in process memory. Used by tests and ephemeral CLI runs.
type MemorySlot struct {
	name    string
	mu      sync.RWMutex
	payload []byte
	written bool
}

// NewMemorySlot creates an empty in-memory slot
func NewMemorySlot(name string) *MemorySlot {
	return &MemorySlot{name: name}
}

func (m *MemorySlot) Name() string {
	return "memory:" + m.name
}

func (m *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.written {
		return nil, ErrSlotEmpty
	}
	out := make([]byte, len(m.payload))
	copy(out, m.payload)
	return out, nil
}

func (m *MemorySlot) Write(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.payload = make([]byte, len(payload))
	copy(m.payload, payload)
	m.written = true
	return nil
}

func (m *MemorySlot) Ping(ctx context.Context) error {
	return nil
}

func (m *MemorySlot) Close() error {
	return nil
}
