// Package editor is the desktop meme editor window: caption fields and
// controls in a sidebar, the live preview in the middle and the history
// gallery on the right.
package editor

import (
	"context"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"

	"github.com/example/memeforge/internal/export"
	"github.com/example/memeforge/internal/imageload"
	"github.com/example/memeforge/internal/session"
	"github.com/example/memeforge/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a frame is forced to finish.
const frameDropThreshold = 10

// Editor wires a session and its export controller to a window.
type Editor struct {
	Session  *session.Session
	Export   *export.Controller
	Loader   *imageload.Loader
	Theme    *theme.Preference
	Palettes map[theme.Mode]*theme.Theme
	Title    string

	// Initial is loaded once the window is up. Empty means no image.
	Initial string
}

// Option configures an Editor.
type Option func(*Editor)

// WithPalettes sets the palette used for each mode.
func WithPalettes(p map[theme.Mode]*theme.Theme) Option {
	return func(e *Editor) { e.Palettes = p }
}

// WithPreference attaches the persisted theme preference.
func WithPreference(p *theme.Preference) Option {
	return func(e *Editor) { e.Theme = p }
}

// WithLoader replaces the image loader.
func WithLoader(l *imageload.Loader) Option {
	return func(e *Editor) { e.Loader = l }
}

// WithInitialImage opens path when the window starts.
func WithInitialImage(path string) Option {
	return func(e *Editor) { e.Initial = path }
}

// New returns an Editor for sess and exp.
func New(sess *session.Session, exp *export.Controller, opts ...Option) *Editor {
	e := &Editor{Session: sess, Export: exp, Title: "memeforge"}
	for _, o := range opts {
		o(e)
	}
	if e.Loader == nil {
		e.Loader = imageload.New(nil)
	}
	return e
}

// Run opens the window and blocks until it is closed.
func (e *Editor) Run() {
	driver.Main(e.Main)
}

// Main runs the editor event loop on s.
func (e *Editor) Main(s screen.Screen) {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: defaultWidth, Height: defaultHeight, Title: e.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	u := newUI(e.Session, e.Export, e.Loader, e.Theme, e.Palettes)
	u.post = func(ev any) { w.Send(ev) }
	if e.Theme != nil {
		e.Theme.Load()
	}
	if e.Initial != "" {
		path := e.Initial
		u.run(func() {
			if _, err := e.Loader.LoadFile(context.Background(), path); err != nil {
				log.Printf("open %s: %v", path, err)
				u.post(messageEvent{unreadableImage})
			}
		})
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	p := &painter{}
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			p.drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	for {
		ev := w.NextEvent()
		switch ev := ev.(type) {
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := u.snapshot()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		default:
			if u.handle(ev) {
				w.Send(paint.Event{})
			}
			if u.quit {
				return
			}
		}
	}
}
