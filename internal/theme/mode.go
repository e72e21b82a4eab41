package theme

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/example/memeforge/internal/storage"
)

// StorageKey is the key the selected mode is persisted under.
const StorageKey = "theme"

// Mode is the two-valued UI preference.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ParseMode maps a stored string to a Mode. Anything unrecognised is light.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeDark)) {
		return ModeDark
	}
	return ModeLight
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

func (m Mode) String() string { return string(m) }

// Applier makes a mode visible: the document root attribute in a browser, the
// palette in the desktop editor.
type Applier interface {
	ApplyTheme(Mode)
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(Mode)

func (f ApplierFunc) ApplyTheme(m Mode) { f(m) }

// Preference persists the mode and re-applies it on load and toggle.
type Preference struct {
	kv      storage.KV
	applier Applier
	current Mode
	// Fallback is used when nothing has been stored yet.
	Fallback Mode
}

// NewPreference creates a Preference backed by kv. applier may be nil.
func NewPreference(kv storage.KV, applier Applier) *Preference {
	return &Preference{kv: kv, applier: applier, current: ModeLight, Fallback: ModeLight}
}

// SetApplier replaces the applier, for UIs created after the preference.
func (p *Preference) SetApplier(a Applier) { p.applier = a }

// Load reads the stored mode, applies it and returns it. Missing or
// unreadable values fall back without error.
func (p *Preference) Load() Mode {
	mode := p.Fallback
	if mode == "" {
		mode = ModeLight
	}
	v, err := p.kv.Get(StorageKey)
	switch {
	case err == nil:
		mode = ParseMode(v)
	case !errors.Is(err, storage.ErrNotFound):
		log.Printf("theme: %v", err)
	}
	p.current = mode
	p.apply()
	return mode
}

// Current reports the mode last loaded or toggled.
func (p *Preference) Current() Mode { return p.current }

// Toggle flips the mode, persists it immediately and applies it.
func (p *Preference) Toggle() (Mode, error) {
	p.current = p.current.Toggle()
	p.apply()
	if err := p.kv.Set(StorageKey, string(p.current)); err != nil {
		return p.current, fmt.Errorf("save theme: %w", err)
	}
	return p.current, nil
}

func (p *Preference) apply() {
	if p.applier != nil {
		p.applier.ApplyTheme(p.current)
	}
}
