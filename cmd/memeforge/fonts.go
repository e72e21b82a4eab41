package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/example/memeforge/internal/compose"
)

// fontsCmd lists the caption font families.
type fontsCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *fontsCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *fontsCmd) Program() string { return c.root.subcommand("fonts") }

func parseFontsCmd(args []string, r *root) (*fontsCmd, error) {
	fs := flag.NewFlagSet("fonts", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := &fontsCmd{root: r, fs: fs}
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *fontsCmd) Run() error {
	reg := c.fonts()
	families := reg.Families()
	if len(families) == 0 {
		fmt.Fprintln(c.stdout, "no fonts available")
		return nil
	}
	want := c.config.FontFamily
	if want == "" {
		want = compose.DefaultFamily
	}
	resolved := reg.Resolve(want)
	for _, f := range families {
		marker := " "
		if f == resolved {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %s\n", marker, f)
	}
	if resolved != want {
		fmt.Fprintf(c.stdout, "(%s is not installed, captions use %s)\n", want, resolved)
	}
	return nil
}
