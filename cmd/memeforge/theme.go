package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/example/memeforge/internal/theme"
)

// themeCmd reads or flips the stored light/dark preference.
type themeCmd struct {
	*root
	fs     *flag.FlagSet
	action string
}

func (c *themeCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *themeCmd) Program() string { return c.root.subcommand("theme") }

func parseThemeCmd(args []string, r *root) (*themeCmd, error) {
	fs := flag.NewFlagSet("theme", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := &themeCmd{root: r, fs: fs}
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.action = fs.Arg(0)
	if c.action != "show" && c.action != "toggle" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *themeCmd) Run() error {
	kv, release, err := c.openStore()
	if err != nil {
		return err
	}
	defer release()

	pref := c.preference(kv, nil)
	mode := pref.Load()
	if c.action == "toggle" {
		if mode, err = pref.Toggle(); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.stdout, "theme: %s\n", mode)
	if c.action == "show" {
		t := c.palettes()[mode]
		fmt.Fprintf(c.stdout, "palette: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(c.stdout, "  %-22s %s\n", f[0], f[1])
		}
	}
	return nil
}
