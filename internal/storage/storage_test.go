package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exercise(t *testing.T, kv KV) {
	t.Helper()
	if _, err := kv.Get("theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := kv.Set("theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("theme", "light"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get("theme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "light" {
		t.Fatalf("got %q, want %q", got, "light")
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	exercise(t, fs)

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, err := reopened.Get("theme"); err != nil || got != "light" {
		t.Fatalf("value not persisted: %q, %v", got, err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	exercise(t, s)
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("cloud", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestOpenFailureReturnsNilStore(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, kind := range []string{"file", "sqlite"} {
		kv, err := Open(kind, filepath.Join(blocker, "data"))
		if err == nil {
			t.Fatalf("Open(%q) succeeded under a regular file", kind)
		}
		if kv != nil {
			t.Fatalf("Open(%q) returned non-nil store %#v with error", kind, kv)
		}
	}
}
