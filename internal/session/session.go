// Package session holds the editor state shared by the desktop window, the
// command line and the browser client: the uploaded bitmap, the caption
// settings and the surface they are composed on.
package session

import (
	"image"
	"sync"

	"github.com/example/memeforge/internal/compose"
	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/imageload"
	"github.com/example/memeforge/internal/scale"
	"github.com/example/memeforge/internal/theme"
)

// ConfirmClear is the question asked before Clear discards the work.
const ConfirmClear = "Voulez-vous vraiment tout effacer ?"

// Initial surface size before any upload.
const (
	InitialWidth  = 800
	InitialHeight = 600
)

// Session is safe for concurrent use; callers typically drive it from a
// single UI loop while a paint goroutine reads snapshots.
type Session struct {
	mu       sync.Mutex
	bitmap   image.Image
	settings compose.Settings
	surface  *compose.Surface
	comp     *compose.Compositor
	renders  int

	History *history.Store
	Theme   *theme.Preference

	// OnRender runs after every render, outside the lock.
	OnRender func()
}

// Option configures a Session.
type Option func(*Session)

// WithHistory attaches the history store.
func WithHistory(h *history.Store) Option { return func(s *Session) { s.History = h } }

// WithTheme attaches the theme preference.
func WithTheme(p *theme.Preference) Option { return func(s *Session) { s.Theme = p } }

// WithSettings sets the initial caption settings.
func WithSettings(cs compose.Settings) Option { return func(s *Session) { s.settings = cs } }

// New returns an empty session rendering with comp.
func New(comp *compose.Compositor, opts ...Option) *Session {
	if comp == nil {
		comp = compose.New(nil)
	}
	s := &Session{
		settings: compose.DefaultSettings(),
		surface:  compose.NewSurface(InitialWidth, InitialHeight),
		comp:     comp,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the bitmap, sizes the surface to fit it and renders.
// It has the signature of an imageload OnReady callback.
func (s *Session) Load(b imageload.Bitmap) {
	if b.Image == nil {
		return
	}
	s.mu.Lock()
	s.bitmap = b.Image
	w, h := scale.Default(b.Width(), b.Height())
	s.surface.Resize(w, h)
	s.renderLocked()
	s.mu.Unlock()
	s.rendered()
}

// Settings returns the current caption settings.
func (s *Session) Settings() compose.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings stores cs and re-renders when it differs from the current
// value. It reports whether anything changed.
func (s *Session) SetSettings(cs compose.Settings) bool {
	s.mu.Lock()
	if cs == s.settings {
		s.mu.Unlock()
		return false
	}
	s.settings = cs
	drew := s.renderLocked()
	s.mu.Unlock()
	if drew {
		s.rendered()
	}
	return true
}

// Update applies fn to a copy of the settings and stores the result.
func (s *Session) Update(fn func(*compose.Settings)) bool {
	cs := s.Settings()
	fn(&cs)
	return s.SetSettings(cs)
}

// Render redraws the surface from the current state.
func (s *Session) Render() {
	s.mu.Lock()
	drew := s.renderLocked()
	s.mu.Unlock()
	if drew {
		s.rendered()
	}
}

func (s *Session) renderLocked() bool {
	if s.bitmap == nil {
		return false
	}
	s.comp.Render(s.surface, s.bitmap, s.settings)
	s.renders++
	return true
}

func (s *Session) rendered() {
	if s.OnRender != nil {
		s.OnRender()
	}
}

// Renders counts completed renders.
func (s *Session) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Clear asks confirm and, on yes, drops the bitmap, empties both captions
// and blanks the surface. It reports whether the session was cleared.
func (s *Session) Clear(confirm func(question string) bool) bool {
	if confirm != nil && !confirm(ConfirmClear) {
		return false
	}
	s.mu.Lock()
	s.bitmap = nil
	s.settings.Top = ""
	s.settings.Bottom = ""
	s.surface.Clear()
	s.mu.Unlock()
	s.rendered()
	return true
}

// HasImage reports whether a bitmap is loaded.
func (s *Session) HasImage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bitmap != nil
}

// Snapshot copies the composed surface.
func (s *Session) Snapshot() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bitmap == nil {
		return nil
	}
	return s.surface.Snapshot()
}

// PNG encodes the composed surface.
func (s *Session) PNG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.PNG()
}

// Size reports the surface dimensions.
func (s *Session) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Width(), s.surface.Height()
}

// Fonts exposes the registry the compositor draws with.
func (s *Session) Fonts() *compose.Registry { return s.comp.Fonts }
