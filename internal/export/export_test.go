package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/storage"
)

type fakeSource struct{ img image.Image }

func (f fakeSource) HasImage() bool        { return f.img != nil }
func (f fakeSource) Snapshot() image.Image { return f.img }

type memDownloader struct {
	name string
	data []byte
	err  error
}

func (m *memDownloader) Save(_ context.Context, name string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.name, m.data = name, data
	return "/tmp/" + name, nil
}

type fakeShare struct {
	can  bool
	err  error
	reqs []ShareRequest
}

func (f *fakeShare) CanShare(File) bool { return f.can }
func (f *fakeShare) Share(_ context.Context, req ShareRequest) error {
	f.reqs = append(f.reqs, req)
	return f.err
}

type fakeClipboard struct {
	err    error
	writes int
}

func (f *fakeClipboard) WriteImage(image.Image) error {
	f.writes++
	return f.err
}

type alerts []string

func (a *alerts) Alert(msg string) { *a = append(*a, msg) }

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})
	return img
}

func instantLabels() *Labels {
	l := NewLabels()
	l.after = func(time.Duration, func()) {}
	return l
}

func TestPreconditionLeavesHistoryUntouched(t *testing.T) {
	kv := storage.NewMemoryStore()
	h := history.New(kv)
	h.Add("existing")
	var a alerts
	dl := &memDownloader{}
	clip := &fakeClipboard{}
	c := New(fakeSource{}, h, WithAlerter(&a), WithDownloader(dl), WithClipboard(clip))

	if _, err := c.Download(context.Background()); !errors.Is(err, ErrNoImage) {
		t.Fatalf("Download err = %v", err)
	}
	if _, err := c.Share(context.Background()); !errors.Is(err, ErrNoImage) {
		t.Fatalf("Share err = %v", err)
	}
	if h.Len() != 1 || dl.name != "" || clip.writes != 0 {
		t.Fatalf("state mutated: len=%d name=%q writes=%d", h.Len(), dl.name, clip.writes)
	}
	if len(a) != 2 || a[0] != MsgNoImage || a[1] != MsgNoImage {
		t.Fatalf("alerts = %q", a)
	}
}

func TestDownloadRecordsHistoryAndSaves(t *testing.T) {
	h := history.New(storage.NewMemoryStore())
	dl := &memDownloader{}
	labels := instantLabels()
	changed := 0
	at := time.UnixMilli(1760882700123)
	c := New(fakeSource{img: sample()}, h,
		WithDownloader(dl), WithFeedback(labels),
		WithClock(func() time.Time { return at }),
		WithHistoryHook(func() { changed++ }))

	path, err := c.Download(context.Background())
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if dl.name != "meme_1760882700123.png" || path != "/tmp/meme_1760882700123.png" {
		t.Fatalf("saved as %q at %q", dl.name, path)
	}
	if _, err := png.Decode(bytes.NewReader(dl.data)); err != nil {
		t.Fatalf("saved data is not png: %v", err)
	}
	if h.Len() != 1 || changed != 1 {
		t.Fatalf("history len=%d hook=%d", h.Len(), changed)
	}
	e, _ := h.At(0)
	if !strings.HasPrefix(e.Data, "data:image/png;base64,") {
		t.Fatalf("entry data = %.40q", e.Data)
	}
	if l, ok := labels.Get(ControlDownload); !ok || l.Text != LabelDownloaded || !l.Success {
		t.Fatalf("label = %+v %v", l, ok)
	}
}

func TestDownloadError(t *testing.T) {
	h := history.New(storage.NewMemoryStore())
	c := New(fakeSource{img: sample()}, h, WithDownloader(&memDownloader{err: errors.New("disk full")}))
	if _, err := c.Download(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestShareNative(t *testing.T) {
	share := &fakeShare{can: true}
	clip := &fakeClipboard{}
	c := New(fakeSource{img: sample()}, nil, WithShareSink(share), WithClipboard(clip))
	out, err := c.Share(context.Background())
	if err != nil || out != OutcomeShared {
		t.Fatalf("Share = %v, %v", out, err)
	}
	if len(share.reqs) != 1 || clip.writes != 0 {
		t.Fatalf("reqs=%d writes=%d", len(share.reqs), clip.writes)
	}
	req := share.reqs[0]
	if req.Title != ShareTitle || req.Text != ShareText || req.Files[0].Name != "meme.png" || req.Files[0].Type != "image/png" {
		t.Fatalf("request = %+v", req)
	}
}

func TestShareCancelledIsSilent(t *testing.T) {
	var a alerts
	share := &fakeShare{can: true, err: ErrShareCancelled}
	labels := instantLabels()
	c := New(fakeSource{img: sample()}, nil, WithShareSink(share), WithAlerter(&a), WithFeedback(labels))
	out, err := c.Share(context.Background())
	if err != nil || out != OutcomeCancelled {
		t.Fatalf("Share = %v, %v", out, err)
	}
	if len(a) != 0 {
		t.Fatalf("alerts = %q", a)
	}
	if _, ok := labels.Get(ControlShare); ok {
		t.Fatalf("label set on cancel")
	}
}

func TestShareFallsBackToClipboard(t *testing.T) {
	clip := &fakeClipboard{}
	labels := instantLabels()
	c := New(fakeSource{img: sample()}, nil, WithShareSink(&fakeShare{can: false}), WithClipboard(clip), WithFeedback(labels))
	out, err := c.Share(context.Background())
	if err != nil || out != OutcomeCopied || clip.writes != 1 {
		t.Fatalf("Share = %v, %v writes=%d", out, err, clip.writes)
	}
	if labels.Text(ControlShare, "Partager") != LabelCopied {
		t.Fatalf("label = %q", labels.Text(ControlShare, "Partager"))
	}
}

func TestShareClipboardFailureAlerts(t *testing.T) {
	var a alerts
	clip := &fakeClipboard{err: errors.New("no display")}
	c := New(fakeSource{img: sample()}, nil, WithClipboard(clip), WithAlerter(&a))
	_, err := c.Share(context.Background())
	if !errors.Is(err, ErrShareFailed) {
		t.Fatalf("err = %v", err)
	}
	if len(a) != 1 || a[0] != MsgShareFailed {
		t.Fatalf("alerts = %q", a)
	}
}

func TestLabelsRevert(t *testing.T) {
	var pending []func()
	l := NewLabels()
	l.after = func(_ time.Duration, fn func()) {
		pending = append(pending, fn)
	}
	changes := 0
	l.OnChange = func() { changes++ }

	l.Flash(ControlShare, Label{Text: "A"}, time.Second)
	l.Flash(ControlShare, Label{Text: "B"}, time.Second)
	pending[0]()
	if l.Text(ControlShare, "def") != "B" {
		t.Fatalf("stale revert removed newer label")
	}
	pending[1]()
	if l.Text(ControlShare, "def") != "def" {
		t.Fatalf("label not reverted")
	}
	if changes != 3 {
		t.Fatalf("changes = %d", changes)
	}

	var nilLabels *Labels
	nilLabels.Flash(ControlShare, Label{Text: "x"}, time.Second)
	if nilLabels.Text(ControlShare, "d") != "d" {
		t.Fatalf("nil labels returned text")
	}
}

func TestFileDownloader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := FileDownloader{Dir: dir}.Save(context.Background(), "meme_1.png", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if b, err := os.ReadFile(path); err != nil || string(b) != "x" {
		t.Fatalf("read back %q %v", b, err)
	}
	target := filepath.Join(t.TempDir(), "custom.png")
	path, err = PathDownloader(target).Save(context.Background(), "ignored.png", []byte("y"))
	if err != nil || path != target {
		t.Fatalf("PathDownloader = %q %v", path, err)
	}
}
