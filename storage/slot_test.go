package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giygas/empirical-rx/config"
	"github.com/giygas/empirical-rx/interfaces"
	"github.com/giygas/empirical-rx/logging"
)

func TestMain(m *testing.M) {
	logging.InitLogger("")
	os.Exit(m.Run())
}

// exerciseSlot runs the behaviour every backend must share
func exerciseSlot(t *testing.T, slot interfaces.Slot) {
	t.Helper()
	ctx := context.Background()

	if err := slot.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	if _, err := slot.Read(ctx); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty before the first write, got %v", err)
	}

	first := []byte(`{"flu":{"firstLine":"Oseltamivir","management":[],"symptoms":[],"labs":[]}}`)
	if err := slot.Write(ctx, first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := slot.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, first) {
		t.Errorf("Read = %s, want %s", got, first)
	}

	second := []byte(`{}`)
	if err := slot.Write(ctx, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = slot.Read(ctx)
	if err != nil {
		t.Fatalf("Read after overwrite: %v", err)
	}
	if !bytes.Equal(got, second) {
		t.Errorf("overwrite not visible: got %s", got)
	}
}

func TestMemorySlot(t *testing.T) {
	slot := NewMemorySlot("test")
	exerciseSlot(t, slot)

	if slot.Name() != "memory:test" {
		t.Errorf("unexpected name %q", slot.Name())
	}
}

func TestMemorySlotCopiesPayload(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot("copy")

	payload := []byte("abc")
	if err := slot.Write(ctx, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	payload[0] = 'x'

	got, _ := slot.Read(ctx)
	got[1] = 'y'

	again, _ := slot.Read(ctx)
	if string(again) != "abc" {
		t.Errorf("slot content changed through caller slices: %q", again)
	}
}

func TestMemorySlotCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewMemorySlot("x").Write(ctx, []byte("{}")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFileSlot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	slot := NewFileSlot(dir, "clinical_prescriptions")
	exerciseSlot(t, slot)

	if slot.Path() != filepath.Join(dir, "clinical_prescriptions.json") {
		t.Errorf("unexpected path %s", slot.Path())
	}
	if !strings.HasPrefix(slot.Name(), "file:") {
		t.Errorf("unexpected name %q", slot.Name())
	}
}

func TestFileSlotLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	slot := NewFileSlot(dir, "catalog")

	for i := 0; i < 3; i++ {
		if err := slot.Write(context.Background(), []byte("{}")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "catalog.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only catalog.json, found %v", names)
	}
}

func TestFileSlotPingRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	slot := NewFileSlot(path, "catalog")
	if err := slot.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail when the data dir is a regular file")
	}
	if err := slot.Write(context.Background(), []byte("{}")); err == nil {
		t.Error("expected Write to fail when the data dir is a regular file")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.Config
		wantPrefix string
		wantErr    bool
	}{
		{"memory", config.Config{StorageBackend: config.BackendMemory, StorageKey: "k"}, "memory:", false},
		{"file", config.Config{StorageBackend: config.BackendFile, DataDir: t.TempDir(), StorageKey: "k"}, "file:", false},
		{"case insensitive", config.Config{StorageBackend: "MEMORY", StorageKey: "k"}, "memory:", false},
		{"unknown", config.Config{StorageBackend: "s3"}, "", true},
		{"redis without url", config.Config{StorageBackend: config.BackendRedis}, "", true},
		{"postgres without url", config.Config{StorageBackend: config.BackendPostgres}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := Open(context.Background(), &tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer slot.Close()
			if !strings.HasPrefix(slot.Name(), tt.wantPrefix) {
				t.Errorf("expected %s slot, got %s", tt.wantPrefix, slot.Name())
			}
		})
	}
}

func TestRedisSlot(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	key := "empirical_rx_test_" + strings.ReplaceAll(t.Name(), "/", "_")
	slot, err := NewRedisSlot(ctx, url, key)
	if err != nil {
		t.Fatalf("NewRedisSlot: %v", err)
	}
	defer slot.Close()
	_ = slot.client.Del(ctx, key).Err()
	t.Cleanup(func() { _ = slot.client.Del(context.Background(), key).Err() })

	exerciseSlot(t, slot)
}

func TestPostgresSlot(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	name := "empirical_rx_test"
	slot, err := NewPostgresSlot(ctx, dsn, name)
	if err != nil {
		t.Fatalf("NewPostgresSlot: %v", err)
	}
	defer slot.Close()

	reset := func() {
		_, _ = slot.pool.Exec(context.Background(), "DELETE FROM storage_slots WHERE name = $1", name)
	}
	reset()
	t.Cleanup(reset)

	exerciseSlot(t, slot)
}
