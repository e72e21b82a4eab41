package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/example/memeforge/internal/clipboard"
	"github.com/example/memeforge/internal/compose"
	"github.com/example/memeforge/internal/export"
	"github.com/example/memeforge/internal/imageload"
	"github.com/example/memeforge/internal/theme"
)

// Package level hooks so tests can run compose without a desktop.
var (
	clipboardSink   export.ClipboardSink     = clipboard.System{}
	clipboardReader imageload.ClipboardReader = clipboard.System{}
)

// composeCmd renders captions headlessly, then downloads or shares.
type composeCmd struct {
	*root
	fs    *flag.FlagSet
	share bool

	image         string
	fromClipboard bool
	top           string
	bottom        string
	size          int
	fill          string
	stroke        string
	font          string
	output        string
}

func (c *composeCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *composeCmd) Program() string {
	name := "compose"
	if c.share {
		name = "share"
	}
	return c.root.subcommand(name)
}

func parseComposeCmd(args []string, r *root, share bool) (*composeCmd, error) {
	name := "compose"
	if share {
		name = "share"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := &composeCmd{root: r, fs: fs, share: share}
	fs.StringVar(&c.image, "image", "", "image file to caption")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "use the clipboard image instead of -image")
	fs.StringVar(&c.top, "top", "", "top caption")
	fs.StringVar(&c.bottom, "bottom", "", "bottom caption")
	fs.IntVar(&c.size, "size", 0, "caption font size in pixels")
	fs.StringVar(&c.fill, "fill", "", "caption colour (#RRGGBB)")
	fs.StringVar(&c.stroke, "stroke", "", "caption outline colour (#RRGGBB)")
	fs.StringVar(&c.font, "font", "", "caption font family")
	if !share {
		fs.StringVar(&c.output, "output", "", "output file (default: a meme_<ms>.png in the download directory)")
	}
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.fromClipboard && c.image != "" {
		return nil, errors.New("-from-clipboard cannot be combined with -image")
	}
	if !c.fromClipboard && c.image == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

// apply overlays the caption flags on s.
func (c *composeCmd) apply(s *compose.Settings) error {
	s.Top, s.Bottom = c.top, c.bottom
	if c.size > 0 {
		s.FontSize = c.size
	}
	if c.font != "" {
		s.FontFamily = c.font
	}
	if c.fill != "" {
		col, err := theme.ParseColor(c.fill)
		if err != nil {
			return fmt.Errorf("-fill: %w", err)
		}
		s.Fill = col
	}
	if c.stroke != "" {
		col, err := theme.ParseColor(c.stroke)
		if err != nil {
			return fmt.Errorf("-stroke: %w", err)
		}
		s.Stroke = col
	}
	return nil
}

func (c *composeCmd) Run() error {
	ctx := context.Background()
	h, release, err := c.openHistory()
	if err != nil {
		return err
	}
	defer release()

	sess, err := c.newSession(h)
	if err != nil {
		return err
	}
	settings := sess.Settings()
	if err := c.apply(&settings); err != nil {
		return err
	}
	sess.SetSettings(settings)

	loader := imageload.New(sess.Load)
	loader.Clipboard = clipboardReader
	if c.fromClipboard {
		_, err = loader.LoadClipboard(ctx)
	} else {
		_, err = loader.LoadFile(ctx, c.image)
	}
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	var dl export.Downloader = export.FileDownloader{Dir: c.downloadDir}
	if c.output != "" {
		dl = export.PathDownloader(c.output)
	}
	exp := export.New(sess, h,
		export.WithDownloader(dl),
		export.WithClipboard(clipboardSink),
		export.WithNotifier(c.notifier),
		export.WithAlerter(export.AlerterFunc(func(msg string) {
			fmt.Fprintln(c.stderr, msg)
		})),
	)

	if c.share {
		outcome, err := exp.Share(ctx)
		if err != nil {
			return err
		}
		switch outcome {
		case export.OutcomeCopied:
			fmt.Fprintln(c.stdout, export.LabelCopied)
		default:
			fmt.Fprintln(c.stdout, outcome)
		}
		return nil
	}

	path, err := exp.Download(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, path)
	return nil
}
