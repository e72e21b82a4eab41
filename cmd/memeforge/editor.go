package main

import (
	"flag"
	"io"

	"github.com/example/memeforge/internal/editor"
	"github.com/example/memeforge/internal/export"
	"github.com/example/memeforge/internal/imageload"
	"github.com/example/memeforge/internal/session"
)

// editorCmd opens the editor window.
type editorCmd struct {
	*root
	fs    *flag.FlagSet
	image string
}

func (c *editorCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *editorCmd) Program() string { return c.root.subcommand("editor") }

func parseEditorCmd(args []string, r *root) (*editorCmd, error) {
	fs := flag.NewFlagSet("editor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := &editorCmd{root: r, fs: fs}
	fs.StringVar(&c.image, "image", "", "image to open on start")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	if fs.NArg() == 1 && c.image == "" {
		c.image = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *editorCmd) Run() error {
	kv, release, err := c.openStore()
	if err != nil {
		return err
	}
	defer release()

	h := historyFor(kv)
	pref := c.preference(kv, nil)
	sess, err := c.newSession(h, session.WithTheme(pref))
	if err != nil {
		return err
	}
	exp := export.New(sess, h,
		export.WithDownloader(export.FileDownloader{Dir: c.downloadDir}),
		export.WithClipboard(clipboardSink),
		export.WithNotifier(c.notifier),
		export.WithFeedback(export.NewLabels()),
	)
	loader := imageload.New(nil)
	loader.Clipboard = clipboardReader

	ed := editor.New(sess, exp,
		editor.WithPalettes(c.palettes()),
		editor.WithPreference(pref),
		editor.WithLoader(loader),
		editor.WithInitialImage(c.image),
	)
	ed.Run()
	return nil
}
