package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string { return strings.Join(*c, "; ") }

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

type interactiveCmd struct {
	*root
	fs    *flag.FlagSet
	execs commandList
	stdin io.Reader
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet { return i.fs }

func (i *interactiveCmd) Program() string { return i.root.subcommand("interactive") }

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	i := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin}
	fs.Var(&i.execs, "e", "execute a command and exit (may be repeated)")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

// executeLine runs one command line. It reports true when the session
// should end.
func (i *interactiveCmd) executeLine(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if line == "exit" || line == "quit" {
		return true, nil
	}
	args := strings.Fields(line)
	if args[0] == "interactive" {
		return false, nil
	}
	return false, i.root.Run(args)
}

func (i *interactiveCmd) Run() error {
	if len(i.execs) > 0 {
		for _, cmd := range i.execs {
			done, err := i.executeLine(cmd)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}
