// Package export turns the composed surface into a download, a native share,
// or a clipboard image.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"time"

	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/imageload"
	"github.com/example/memeforge/internal/notify"
)

// User-facing alert texts.
const (
	MsgNoImage     = "Veuillez d'abord charger une image."
	MsgShareFailed = "Impossible de partager. Utilisez le bouton Télécharger."
)

// Share payload.
const (
	ShareFileName = "meme.png"
	ShareTitle    = "Mon Mème"
	ShareText     = "Regardez ce mème que j'ai créé !"
)

var (
	// ErrNoImage is returned when an export is requested before an upload.
	ErrNoImage = errors.New("no image loaded")
	// ErrShareCancelled is returned by a ShareSink when the user dismissed the dialog.
	ErrShareCancelled = errors.New("share cancelled")
	// ErrShareUnsupported is returned by a ShareSink with no native share target.
	ErrShareUnsupported = errors.New("share not supported")
	// ErrShareFailed wraps a clipboard failure during the share fallback.
	ErrShareFailed = errors.New("share failed")
)

// Source is the composed canvas.
type Source interface {
	HasImage() bool
	Snapshot() image.Image
}

// File is an encoded export.
type File struct {
	Name string
	Type string
	Data []byte
}

// ShareRequest is what a native share dialog receives.
type ShareRequest struct {
	Files []File
	Title string
	Text  string
}

// ShareSink is a native share-with-files target.
type ShareSink interface {
	CanShare(File) bool
	Share(ctx context.Context, req ShareRequest) error
}

// ClipboardSink accepts an image for the system clipboard.
type ClipboardSink interface {
	WriteImage(img image.Image) error
}

// Downloader stores an exported file and reports where it went.
type Downloader interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(string)

func (f AlerterFunc) Alert(msg string) { f(msg) }

// Outcome reports which path Share took.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeShared
	OutcomeCancelled
	OutcomeCopied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeShared:
		return "shared"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeCopied:
		return "copied"
	}
	return "none"
}

// Controller runs the download and share actions.
type Controller struct {
	Source     Source
	History    *history.Store
	Downloader Downloader
	ShareSink  ShareSink
	Clipboard  ClipboardSink
	Alerter    Alerter
	Feedback   *Labels
	Notifier   *notify.Notifier
	Now        func() time.Time

	// OnHistoryChanged runs after a download was added to the history.
	OnHistoryChanged func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithDownloader sets where downloads are written.
func WithDownloader(d Downloader) Option { return func(c *Controller) { c.Downloader = d } }

// WithShareSink sets the native share target.
func WithShareSink(s ShareSink) Option { return func(c *Controller) { c.ShareSink = s } }

// WithClipboard sets the share fallback.
func WithClipboard(s ClipboardSink) Option { return func(c *Controller) { c.Clipboard = s } }

func WithAlerter(a Alerter) Option { return func(c *Controller) { c.Alerter = a } }

func WithFeedback(l *Labels) Option { return func(c *Controller) { c.Feedback = l } }

func WithNotifier(n *notify.Notifier) Option { return func(c *Controller) { c.Notifier = n } }

func WithClock(now func() time.Time) Option { return func(c *Controller) { c.Now = now } }

// WithHistoryHook sets OnHistoryChanged.
func WithHistoryHook(fn func()) Option { return func(c *Controller) { c.OnHistoryChanged = fn } }

// New returns a Controller for src recording downloads in h.
func New(src Source, h *history.Store, opts ...Option) *Controller {
	c := &Controller{Source: src, History: h, Now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// DownloadName is the file name used for a download at t.
func DownloadName(t time.Time) string {
	return fmt.Sprintf("meme_%d.png", t.UnixMilli())
}

// Download records the current meme in the history and saves it as a file.
// It returns the saved location.
func (c *Controller) Download(ctx context.Context) (string, error) {
	if !c.ready() {
		return "", ErrNoImage
	}
	data, err := encode(c.Source.Snapshot())
	if err != nil {
		return "", err
	}

	if c.History != nil {
		if _, err := c.History.Add(imageload.EncodeDataURL("image/png", data)); err != nil {
			log.Printf("history: %v", err)
		}
		if c.OnHistoryChanged != nil {
			c.OnHistoryChanged()
		}
	}

	var path string
	if c.Downloader != nil {
		path, err = c.Downloader.Save(ctx, DownloadName(c.Now()), data)
		if err != nil {
			return "", fmt.Errorf("download: %w", err)
		}
	}
	c.Feedback.Flash(ControlDownload, Label{Text: LabelDownloaded, Success: true}, FeedbackDuration)
	if path != "" {
		c.Notifier.Download(path)
	}
	return path, nil
}

// Share hands the meme to the native share dialog when one exists, else
// copies it to the clipboard. A cancelled dialog is not an error.
func (c *Controller) Share(ctx context.Context) (Outcome, error) {
	if !c.ready() {
		return OutcomeNone, ErrNoImage
	}
	img := c.Source.Snapshot()
	data, err := encode(img)
	if err != nil {
		return OutcomeNone, err
	}
	file := File{Name: ShareFileName, Type: "image/png", Data: data}

	if c.ShareSink != nil && c.ShareSink.CanShare(file) {
		err := c.ShareSink.Share(ctx, ShareRequest{Files: []File{file}, Title: ShareTitle, Text: ShareText})
		switch {
		case err == nil:
			c.Notifier.Share(file.Name)
			return OutcomeShared, nil
		case errors.Is(err, ErrShareCancelled):
			log.Print("share cancelled")
		default:
			log.Printf("share: %v", err)
		}
		return OutcomeCancelled, nil
	}

	if c.Clipboard == nil {
		c.alert(MsgShareFailed)
		return OutcomeNone, fmt.Errorf("%w: no clipboard", ErrShareFailed)
	}
	if err := c.Clipboard.WriteImage(img); err != nil {
		c.alert(MsgShareFailed)
		return OutcomeNone, fmt.Errorf("%w: %w", ErrShareFailed, err)
	}
	c.Feedback.Flash(ControlShare, Label{Text: LabelCopied}, FeedbackDuration)
	c.Notifier.Copy(file.Name, img)
	return OutcomeCopied, nil
}

func (c *Controller) ready() bool {
	if c.Source != nil && c.Source.HasImage() {
		return true
	}
	c.alert(MsgNoImage)
	return false
}

func (c *Controller) alert(msg string) {
	if c.Alerter != nil {
		c.Alerter.Alert(msg)
		return
	}
	log.Print(msg)
}

func encode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
