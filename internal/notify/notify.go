// Package notify raises desktop notifications after exports.
package notify

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/memeforge/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventDownload fires after a meme has been written to disk.
	EventDownload Event = "download"
	// EventCopy fires when a meme has been copied to the clipboard.
	EventCopy Event = "copy"
	// EventShare fires when a share target accepted the meme.
	EventShare Event = "share"
)

// Events lists every event in a stable order.
var Events = []Event{EventDownload, EventCopy, EventShare}

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "memeforge",
		Events: map[Event]EventPreference{
			EventDownload: {Template: "Téléchargé : %s"},
			EventCopy:     {Template: "Copié dans le presse-papiers : %s"},
			EventShare:    {Template: "Partagé : %s"},
		},
	}
}

// LoadPreferences reads overrides from MEMEFORGE_NOTIFY_* environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("MEMEFORGE_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, event := range Events {
		key := "MEMEFORGE_NOTIFY_" + strings.ToUpper(string(event)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

// SendFunc delivers a formatted notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the platform backend.
func WithSender(fn SendFunc) Option {
	return func(n *Notifier) { n.send = fn }
}

// New creates a new Notifier using the provided preferences. Every event
// starts disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	n := &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Download announces a file written to path, using it as the icon.
func (n *Notifier) Download(path string) {
	if !n.enabledFor(EventDownload) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventDownload, detail, opts)
}

// Copy announces a clipboard copy with an optional preview of img.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "meme.png"
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

// Share announces a completed share.
func (n *Notifier) Share(detail string) {
	n.dispatch(EventShare, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := template
	if strings.Contains(template, "%") {
		body = fmt.Sprintf(template, strings.TrimSpace(detail))
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
		if errors.Is(err, platform.ErrUnsupported) {
			clear(n.enabled)
		}
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "memeforge-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
