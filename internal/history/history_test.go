package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/example/memeforge/internal/storage"
)

func fixedClock() func() time.Time {
	base := time.Date(2026, time.October, 19, 14, 5, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func TestAddKeepsNewestFirstAndBounded(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := New(kv, WithClock(fixedClock()))
	s.Load()
	for i := 0; i < 30; i++ {
		if _, err := s.Add(fmt.Sprintf("data:image/png;base64,%d", i)); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}
	if s.Len() != MaxEntries {
		t.Fatalf("Len = %d, want %d", s.Len(), MaxEntries)
	}
	for i, e := range s.Entries() {
		want := fmt.Sprintf("data:image/png;base64,%d", 29-i)
		if e.Data != want {
			t.Fatalf("entry %d = %q, want %q", i, e.Data, want)
		}
	}
	reloaded := New(kv)
	got := reloaded.Load()
	if len(got) != MaxEntries || got[0].Data != "data:image/png;base64,29" {
		t.Fatalf("reload = %d entries, first %+v", len(got), got[0])
	}
}

func TestRoundTrip(t *testing.T) {
	for n := 0; n <= MaxEntries; n++ {
		kv := storage.NewMemoryStore()
		s := New(kv, WithClock(fixedClock()))
		for i := 0; i < n; i++ {
			if _, err := s.Add(fmt.Sprint(i)); err != nil {
				t.Fatal(err)
			}
		}
		want := s.Entries()
		got := New(kv).Load()
		if len(got) != len(want) {
			t.Fatalf("n=%d: len %d want %d", n, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("n=%d entry %d: %+v want %+v", n, i, got[i], want[i])
			}
		}
	}
}

func TestLoadIgnoresGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"data":"x"}`, "null"} {
		kv := storage.NewMemoryStore()
		if err := kv.Set(StorageKey, raw); err != nil {
			t.Fatal(err)
		}
		if got := New(kv).Load(); len(got) != 0 {
			t.Fatalf("Load(%q) = %v", raw, got)
		}
	}
}

func TestLoadTruncatesOversizedList(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := New(kv)
	for i := 0; i < MaxEntries; i++ {
		s.Add(fmt.Sprint(i))
	}
	// Simulate a list written by an older build without the bound.
	raw, _ := kv.Get(StorageKey)
	raw = raw[:len(raw)-1] + `,{"data":"extra","date":"x"}]`
	kv.Set(StorageKey, raw)
	if got := New(kv).Load(); len(got) != MaxEntries {
		t.Fatalf("len = %d", len(got))
	}
}

func TestClearPersistsEmptyList(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := New(kv)
	s.Add("a")
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	raw, err := kv.Get(StorageKey)
	if err != nil || raw != "[]" {
		t.Fatalf("stored %q, %v", raw, err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestAt(t *testing.T) {
	s := New(storage.NewMemoryStore())
	s.Add("a")
	s.Add("b")
	if e, ok := s.At(0); !ok || e.Data != "b" {
		t.Fatalf("At(0) = %+v %v", e, ok)
	}
	if _, ok := s.At(2); ok {
		t.Fatalf("At(2) ok")
	}
	if _, ok := s.At(-1); ok {
		t.Fatalf("At(-1) ok")
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, time.October, 19, 14, 5, 0, 0, time.UTC), "19 oct. 2026, 14:05"},
		{time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC), "01 févr. 2025, 09:00"},
		{time.Date(2024, time.August, 31, 23, 59, 0, 0, time.UTC), "31 août 2024, 23:59"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Fatalf("FormatDate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
