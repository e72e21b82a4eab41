package export

import (
	"sync"
	"time"
)

// Controls that receive transient labels.
const (
	ControlDownload = "download"
	ControlShare    = "share"
)

const (
	LabelDownloaded = "Téléchargé"
	LabelCopied     = "Copié"
)

// FeedbackDuration is how long a confirmation label stays up.
const FeedbackDuration = 2 * time.Second

// Label is a temporary replacement for a control's caption.
type Label struct {
	Text    string
	Success bool // draw with the success colour
}

// Labels holds the transient captions of the export controls. A nil *Labels
// ignores every call.
type Labels struct {
	mu     sync.Mutex
	active map[string]label
	seq    int
	after  func(time.Duration, func())

	// OnChange runs whenever a label is set or reverted.
	OnChange func()
}

type label struct {
	Label
	id int
}

// NewLabels returns an empty label set driven by real timers.
func NewLabels() *Labels {
	return &Labels{
		active: map[string]label{},
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// Flash shows l on control and restores the control's own caption after d.
// A later Flash on the same control supersedes the pending revert.
func (ls *Labels) Flash(control string, l Label, d time.Duration) {
	if ls == nil {
		return
	}
	ls.mu.Lock()
	ls.seq++
	id := ls.seq
	ls.active[control] = label{Label: l, id: id}
	ls.mu.Unlock()
	ls.changed()

	ls.after(d, func() {
		ls.mu.Lock()
		cur, ok := ls.active[control]
		if ok && cur.id == id {
			delete(ls.active, control)
		}
		ls.mu.Unlock()
		if ok && cur.id == id {
			ls.changed()
		}
	})
}

// Get returns the label currently shown on control, if any.
func (ls *Labels) Get(control string) (Label, bool) {
	if ls == nil {
		return Label{}, false
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	l, ok := ls.active[control]
	return l.Label, ok
}

// Text returns the active label text or def.
func (ls *Labels) Text(control, def string) string {
	if l, ok := ls.Get(control); ok {
		return l.Text
	}
	return def
}

func (ls *Labels) changed() {
	if ls.OnChange != nil {
		ls.OnChange()
	}
}
