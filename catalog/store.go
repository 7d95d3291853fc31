package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/giygas/empirical-rx/catalog/entities"
	"github.com/giygas/empirical-rx/interfaces"
	"github.com/giygas/empirical-rx/logging"
	"github.com/giygas/empirical-rx/metrics"
	"github.com/giygas/empirical-rx/storage"
	"github.com/google/uuid"
)

// Compile-time check to ensure Store implements CatalogStore
var _ interfaces.CatalogStore = (*Store)(nil)

// Store owns the live catalog and the slot it is persisted to.
// Construct one at startup with NewStore, call Load, and pass it to whoever needs it.
type Store struct {
	slot interfaces.Slot

	mu           sync.RWMutex
	catalog      *Catalog
	revision     string
	lastModified time.Time
	lastSaveErr  error
}

// NewStore creates a store backed by slot, holding the built-in catalog until Load is called
func NewStore(slot interfaces.Slot) *Store {
	s := &Store{
		slot:     slot,
		catalog:  Defaults(),
		revision: uuid.NewString(),
	}
	metrics.CatalogEntries.Set(float64(s.catalog.Len()))
	return s
}

// Load reads the persisted catalog and installs it. A missing, unreadable or
// unparseable slot falls back to the built-in defaults; it is never an error.
func (s *Store) Load(ctx context.Context) *Catalog {
	loaded, source := s.read(ctx)

	s.mu.Lock()
	s.catalog = loaded
	s.revision = uuid.NewString()
	s.lastModified = time.Now()
	s.mu.Unlock()

	metrics.CatalogEntries.Set(float64(loaded.Len()))
	logging.Info("Catalog loaded", "source", source, "slot", s.slot.Name(), "entries", loaded.Len())

	return loaded.Clone()
}

func (s *Store) read(ctx context.Context) (*Catalog, string) {
	payload, err := s.slot.Read(ctx)
	if errors.Is(err, storage.ErrSlotEmpty) {
		return Defaults(), "defaults"
	}
	if err != nil {
		logging.Warn("Failed to read persisted catalog, using defaults", "slot", s.slot.Name(), "error", err)
		return Defaults(), "defaults"
	}

	loaded := New()
	if err := json.Unmarshal(payload, loaded); err != nil {
		logging.Warn("Persisted catalog is corrupt, using defaults", "slot", s.slot.Name(), "error", err)
		return Defaults(), "defaults"
	}
	return loaded, "storage"
}

// Save serializes the full catalog and overwrites the slot
func (s *Store) Save(ctx context.Context, c *Catalog) error {
	err := s.write(ctx, c)

	s.mu.Lock()
	s.lastSaveErr = err
	s.mu.Unlock()

	return err
}

func (s *Store) write(ctx context.Context, c *Catalog) error {
	payload, err := json.Marshal(c)
	if err != nil {
		metrics.CatalogSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := s.slot.Write(ctx, payload); err != nil {
		metrics.CatalogSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to write catalog to %s: %w", s.slot.Name(), err)
	}
	metrics.CatalogSaves.WithLabelValues("ok").Inc()
	return nil
}

// Insert adds a new condition and writes the whole catalog through to storage before
// returning. Existing keys are never overwritten. When the write fails the insert is
// rolled back so memory and storage stay in step.
func (s *Store) Insert(ctx context.Context, name string, input entities.RecordInput) error {
	key := Normalize(name)
	if key == "" {
		metrics.CatalogInserts.WithLabelValues("invalid").Inc()
		return &ValidationError{Field: "name", Message: "disease name is required"}
	}
	firstLine := strings.TrimSpace(input.FirstLine)
	if firstLine == "" {
		metrics.CatalogInserts.WithLabelValues("invalid").Inc()
		return &ValidationError{Field: "firstLine", Message: "first-line treatment is required"}
	}

	record := entities.ClinicalRecord{
		FirstLine:  firstLine,
		Management: cleanLines(input.Management),
		Symptoms:   cleanLines(input.Symptoms),
		Labs:       cleanLines(input.Labs),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.catalog.records[key]; exists {
		metrics.CatalogInserts.WithLabelValues("conflict").Inc()
		return &ConflictError{Name: key}
	}

	next := s.catalog.Clone()
	next.add(key, record)

	if err := s.write(ctx, next); err != nil {
		s.lastSaveErr = err
		metrics.CatalogInserts.WithLabelValues("storage_error").Inc()
		logging.Error("Catalog insert rolled back", "name", key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.catalog = next
	s.revision = uuid.NewString()
	s.lastModified = time.Now()
	s.lastSaveErr = nil

	metrics.CatalogInserts.WithLabelValues("created").Inc()
	metrics.CatalogEntries.Set(float64(next.Len()))
	logging.Info("Condition added", "name", key, "entries", next.Len())

	return nil
}

// LookupByPrefix returns entries whose key starts with the normalized query, in
// insertion order. A blank query returns every entry.
func (s *Store) LookupByPrefix(query string) []entities.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.WithPrefix(query)
}

// Get returns the record stored under the normalized form of name
func (s *Store) Get(name string) (entities.ClinicalRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Get(name)
}

// Entries returns every entry in insertion order
func (s *Store) Entries() []entities.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Entries()
}

// Snapshot returns a deep copy of the current catalog
func (s *Store) Snapshot() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Clone()
}

// Len returns the number of conditions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Len()
}

// Revision identifies the current catalog contents; it changes on every load and insert
func (s *Store) Revision() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// LastModified returns when the catalog was last loaded or changed
func (s *Store) LastModified() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastModified
}

// LastSaveError returns the outcome of the most recent write, nil on success
func (s *Store) LastSaveError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaveErr
}
