package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/memeforge/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func capture(out *[]sent) Option {
	return WithSender(func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		*out = append(*out, s)
		return nil
	})
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), capture(&got))
	n.Download("meme.png")
	n.Copy("", nil)
	n.Share("x")
	if len(got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(got))
	}
}

func TestDownloadUsesAbsolutePathAndIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meme_1.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got []sent
	n := New(DefaultPreferences(), capture(&got))
	n.Enable(EventDownload, true)
	n.Download(path)
	if len(got) != 1 {
		t.Fatalf("sent %d", len(got))
	}
	if got[0].title != "memeforge" || got[0].body != "Téléchargé : "+path || got[0].opts.IconPath != path {
		t.Fatalf("unexpected notification %+v", got[0])
	}
}

func TestCopyPreviewIsCleanedUp(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), capture(&got))
	n.Enable(EventCopy, true)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if len(got) != 1 || !got[0].iconExisted {
		t.Fatalf("preview missing during dispatch: %+v", got)
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("preview not removed: %v", err)
	}
	if got[0].body != "Copié dans le presse-papiers : meme.png" {
		t.Fatalf("body = %q", got[0].body)
	}
}

func TestTemplateWithoutVerb(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Events[EventShare] = EventPreference{Template: "Mème partagé"}
	var got []sent
	n := New(prefs, capture(&got))
	n.Enable(EventShare, true)
	n.Share("meme.png")
	if len(got) != 1 || got[0].body != "Mème partagé" {
		t.Fatalf("got %+v", got)
	}
}

func TestSendErrorsAreLogged(t *testing.T) {
	n := New(DefaultPreferences(), WithSender(func(string, string, platform.Options) error {
		return errors.New("no bus")
	}))
	n.Enable(EventShare, true)
	n.Share("x")
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("MEMEFORGE_NOTIFY_TITLE", "Memes")
	t.Setenv("MEMEFORGE_NOTIFY_DOWNLOAD_TEXT", "Saved %s")
	prefs := LoadPreferences()
	if prefs.Title != "Memes" || prefs.Events[EventDownload].Template != "Saved %s" {
		t.Fatalf("prefs = %+v", prefs)
	}
	if prefs.Events[EventCopy].Template == "" {
		t.Fatalf("copy template lost")
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.Enable(EventCopy, true)
	n.Copy("x", nil)
	n.Download("x")
	n.Share("x")
}

func TestUnsupportedHostStopsSending(t *testing.T) {
	calls := 0
	n := New(DefaultPreferences(), WithSender(func(string, string, platform.Options) error {
		calls++
		return platform.ErrUnsupported
	}))
	n.Enable(EventShare, true)
	n.Enable(EventDownload, true)
	n.Share("x")
	n.Share("y")
	n.Download("meme.png")
	if calls != 1 {
		t.Fatalf("sender called %d times, want 1", calls)
	}
}
