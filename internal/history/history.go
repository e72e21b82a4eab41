// Package history keeps the most recent composed memes, newest first.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/memeforge/internal/storage"
)

// StorageKey is the key the serialized list lives under.
const StorageKey = "memeHistory"

// MaxEntries bounds the list; older entries are dropped on insert.
const MaxEntries = 24

// ComposedMeme is one export: the PNG as a data URL plus a display date.
type ComposedMeme struct {
	Data string `json:"data"`
	Date string `json:"date"`
}

// Store is the persisted history list. The zero value is not usable; use New.
type Store struct {
	mu      sync.RWMutex
	kv      storage.KV
	entries []ComposedMeme
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to date new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty Store backed by kv. Call Load to read persisted entries.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{kv: kv, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory list with what is persisted. Absent or
// malformed data yields an empty list.
func (s *Store) Load() []ComposedMeme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	raw, err := s.kv.Get(StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("history: %v", err)
		}
		return nil
	}
	var list []ComposedMeme
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("history: discarding unreadable list: %v", err)
		return nil
	}
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	s.entries = list
	return s.copyLocked()
}

// Entries returns a copy of the list, newest first.
func (s *Store) Entries() []ComposedMeme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Len reports the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// At returns entry i, newest first.
func (s *Store) At(i int) (ComposedMeme, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.entries) {
		return ComposedMeme{}, false
	}
	return s.entries[i], true
}

// Add prepends a new entry dated now, truncates to MaxEntries and persists
// the whole list.
func (s *Store) Add(dataURL string) (ComposedMeme, error) {
	m := ComposedMeme{Data: dataURL, Date: FormatDate(s.now())}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]ComposedMeme, 0, len(s.entries)+1)
	list = append(list, m)
	list = append(list, s.entries...)
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	s.entries = list
	return m, s.saveLocked()
}

// Clear empties the list and persists the empty list.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	list := s.entries
	if list == nil {
		list = []ComposedMeme{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(StorageKey, string(b)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *Store) copyLocked() []ComposedMeme {
	out := make([]ComposedMeme, len(s.entries))
	copy(out, s.entries)
	return out
}
