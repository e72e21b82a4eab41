package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/memeforge/internal/clipboard"
	"github.com/example/memeforge/internal/export"
	"github.com/example/memeforge/internal/gallery"
	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/imageload"
)

// galleryCmd inspects the download history.
type galleryCmd struct {
	*root
	fs     *flag.FlagSet
	action string
	index  int
	output string
	text   bool
	yes    bool
	stdin  io.Reader
}

func (c *galleryCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *galleryCmd) Program() string { return c.root.subcommand("gallery") }

func parseGalleryCmd(args []string, r *root) (*galleryCmd, error) {
	fs := flag.NewFlagSet("gallery", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := &galleryCmd{root: r, fs: fs, stdin: os.Stdin}
	fs.IntVar(&c.index, "index", 0, "gallery position, 0 is the newest")
	fs.StringVar(&c.output, "output", "", "file written by export")
	fs.BoolVar(&c.text, "text", false, "copy the data URL as text instead of the image")
	fs.BoolVar(&c.yes, "yes", false, "clear without asking")
	if len(args) < 1 {
		return nil, &UsageError{of: c}
	}
	c.action = args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return nil, &UsageError{of: c}
	}
	switch c.action {
	case "list", "clear", "copy":
	case "export":
		if c.output == "" {
			return nil, fmt.Errorf("gallery export: -output is required")
		}
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *galleryCmd) Run() error {
	h, release, err := c.openHistory()
	if err != nil {
		return err
	}
	defer release()

	switch c.action {
	case "list":
		return c.list(h)
	case "export":
		return c.export(h)
	case "copy":
		return c.copy(h)
	case "clear":
		return c.clear(h)
	}
	return &UsageError{of: c}
}

func (c *galleryCmd) list(h *history.Store) error {
	entries := h.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(c.stdout, gallery.EmptyTitle)
		fmt.Fprintln(c.stdout, gallery.EmptyHint)
		return nil
	}
	for i, e := range entries {
		size := "?"
		if img, err := gallery.Decode(e); err == nil {
			b := img.Bounds()
			size = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
		}
		fmt.Fprintf(c.stdout, "%2d  %-22s %s\n", i, e.Date, size)
	}
	return nil
}

func (c *galleryCmd) entry(h *history.Store) (history.ComposedMeme, error) {
	e, ok := h.At(c.index)
	if !ok {
		return history.ComposedMeme{}, fmt.Errorf("no gallery entry at index %d (%d saved)", c.index, h.Len())
	}
	return e, nil
}

func (c *galleryCmd) export(h *history.Store) error {
	e, err := c.entry(h)
	if err != nil {
		return err
	}
	data, _, err := imageload.ParseDataURL(e.Data)
	if err != nil {
		return fmt.Errorf("entry %d: %w", c.index, err)
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	fmt.Fprintln(c.stdout, c.output)
	return nil
}

func (c *galleryCmd) copy(h *history.Store) error {
	e, err := c.entry(h)
	if err != nil {
		return err
	}
	if c.text {
		if err := (clipboard.System{}).WriteDataURL(e.Data); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
	} else {
		img, err := gallery.Decode(e)
		if err != nil {
			return fmt.Errorf("entry %d: %w", c.index, err)
		}
		if err := clipboardSink.WriteImage(img); err != nil {
			return err
		}
	}
	c.notifier.Copy(e.Date, nil)
	fmt.Fprintln(c.stdout, export.LabelCopied)
	return nil
}

func (c *galleryCmd) clear(h *history.Store) error {
	if !c.yes {
		fmt.Fprintf(c.stdout, "Effacer les %d créations ? [o/N] ", h.Len())
		line, _ := bufio.NewReader(c.stdin).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "o", "oui", "y", "yes":
		default:
			return nil
		}
	}
	return h.Clear()
}
