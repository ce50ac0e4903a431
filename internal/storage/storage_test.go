package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/pinlog/internal/config"
	"github.com/claude/pinlog/internal/models"
)

func openBackends(t *testing.T) map[string]KV {
	t.Helper()
	lite, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "pinlog.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { lite.Close() })
	return map[string]KV{
		"sqlite": lite,
		"memory": NewMemory(),
	}
}

// TestKVContract verifies get/set/delete semantics shared by every backend.
func TestKVContract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok %v, err %v; want absent", ok, err)
			}
			if err := kv.Set(ctx, "k", []byte("one")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := kv.Set(ctx, "k", []byte("two")); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			v, ok, err := kv.Get(ctx, "k")
			if err != nil || !ok || string(v) != "two" {
				t.Fatalf("Get(k) = %q, %v, %v; want two", v, ok, err)
			}
			if err := kv.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, ok, _ := kv.Get(ctx, "k"); ok {
				t.Error("key still present after Delete")
			}
			if err := kv.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete of absent key: %v", err)
			}
		})
	}
}

// TestSQLitePersistsAcrossOpen verifies data written by one handle is read by the next.
func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pinlog.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Set(ctx, DefaultKey, []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.Get(ctx, DefaultKey)
	if err != nil || !ok || string(v) != "[]" {
		t.Errorf("Get after reopen = %q, %v, %v", v, ok, err)
	}
}

// TestWorkoutStoreRoundTrip verifies that a saved list loads back and Clear
// removes the key.
func TestWorkoutStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	s := NewWorkoutStore(kv, "")

	ws, err := s.Load(ctx)
	if err != nil || len(ws) != 0 {
		t.Fatalf("Load on empty store = %v, %v", ws, err)
	}

	at := time.Date(2026, time.October, 15, 8, 0, 0, 0, time.UTC)
	in := []models.Workout{
		models.NewRunning(101, 5, 25, models.Coords{Lat: 10, Lng: 20}, 178, at),
		models.NewCycling(102, 20, 60, models.Coords{Lat: 10, Lng: 20}, 300, at),
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 || out[1].Base().ActivityID != 102 {
		t.Fatalf("Load = %v", out)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, DefaultKey); ok {
		t.Error("key present after Clear")
	}
}

// TestWorkoutStoreMalformed verifies that a corrupt blob is reported as an error.
func TestWorkoutStoreMalformed(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	kv.Set(ctx, DefaultKey, []byte(`not json`))
	if _, err := NewWorkoutStore(kv, "").Load(ctx); err == nil {
		t.Fatal("expected error for malformed blob")
	}
}

// TestOpenUnknownDriver verifies that an unsupported driver is rejected.
func TestOpenUnknownDriver(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := Open(context.Background(), config.StorageConfig{Driver: "redis"}, log)
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("err = %v, want ErrUnknownDriver", err)
	}
}

// TestOpenSQLiteDriver verifies that Open selects the sqlite backend.
func TestOpenSQLiteDriver(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv, err := Open(context.Background(), config.StorageConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "pinlog.db"),
	}, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer kv.Close()
	if _, ok := kv.(*SQLite); !ok {
		t.Errorf("Open returned %T, want *SQLite", kv)
	}
}
