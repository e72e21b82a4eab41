package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/example/memeforge/internal/compose"
	"github.com/example/memeforge/internal/config"
	"github.com/example/memeforge/internal/export"
	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/notify"
	"github.com/example/memeforge/internal/session"
	"github.com/example/memeforge/internal/storage"
	"github.com/example/memeforge/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	notifier *notify.Notifier
	config   *config.Config
	stdout   io.Writer
	stderr   io.Writer

	downloadAlerts bool
	copyAlerts     bool
	shareAlerts    bool
	themeName      string
	dataDir        string
	storageKind    string
	downloadDir    string
	fontDir        string
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("memeforge", flag.ContinueOnError),
		program:  "memeforge",
		notifier: notify.New(prefs),
		config:   cfg,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.fs.SetOutput(io.Discard)
	r.fs.BoolVar(&r.downloadAlerts, "notify-download", cfg.Notify.Download, "show a desktop notification after a download")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.shareAlerts, "notify-share", cfg.Notify.Share, "show a desktop notification after sharing")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "theme mode used when none is stored (light, dark)")
	r.fs.StringVar(&r.dataDir, "data-dir", "", "directory holding the history and theme preference")
	r.fs.StringVar(&r.storageKind, "storage", "", "storage backend (file, sqlite, memory)")
	r.fs.StringVar(&r.downloadDir, "download-dir", "", "directory downloads are written to")
	r.fs.StringVar(&r.fontDir, "font-dir", "", "directory of extra .ttf caption fonts")
	r.fs.Usage = usageFunc(r)
	return r
}

// resolve applies environment and config fallbacks to unset flags.
func (r *root) resolve() {
	if r.themeName == "" {
		r.themeName = os.Getenv("MEMEFORGE_THEME")
	}
	if r.themeName == "" {
		r.themeName = r.config.Theme
	}
	if r.dataDir == "" {
		r.dataDir = os.Getenv("MEMEFORGE_DATA_DIR")
	}
	if r.dataDir == "" {
		r.dataDir = r.config.DataDir
	}
	if r.dataDir == "" {
		r.dataDir = storage.DefaultDir()
	}
	if r.storageKind == "" {
		r.storageKind = r.config.Storage
	}
	if r.downloadDir == "" {
		r.downloadDir = r.config.DownloadDir
	}
	if r.downloadDir == "" {
		r.downloadDir = export.DefaultDownloadDir()
	}
	if r.fontDir == "" {
		r.fontDir = r.config.FontDir
	}
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &UsageError{of: r}
		}
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventDownload, r.downloadAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventShare, r.shareAlerts)
	}
	r.resolve()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "compose":
		cmd, err = parseComposeCmd(subArgs, r, false)
	case "share":
		cmd, err = parseComposeCmd(subArgs, r, true)
	case "editor":
		cmd, err = parseEditorCmd(subArgs, r)
	case "gallery":
		cmd, err = parseGalleryCmd(subArgs, r)
	case "theme":
		cmd, err = parseThemeCmd(subArgs, r)
	case "fonts":
		cmd, err = parseFontsCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the configured key-value backend. The returned func
// releases it.
func (r *root) openStore() (storage.KV, func(), error) {
	kv, err := storage.Open(r.storageKind, r.dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage %s: %w", r.dataDir, err)
	}
	release := func() {}
	if c, ok := kv.(io.Closer); ok {
		release = func() {
			if err := c.Close(); err != nil {
				log.Printf("close storage: %v", err)
			}
		}
	}
	return kv, release, nil
}

// openHistory opens the store and loads the persisted history.
func (r *root) openHistory() (*history.Store, func(), error) {
	kv, release, err := r.openStore()
	if err != nil {
		return nil, nil, err
	}
	return historyFor(kv), release, nil
}

func historyFor(kv storage.KV) *history.Store {
	h := history.New(kv)
	h.Load()
	return h
}

// preference returns the theme preference backed by kv, falling back to the
// configured initial mode.
func (r *root) preference(kv storage.KV, applier theme.Applier) *theme.Preference {
	p := theme.NewPreference(kv, applier)
	p.Fallback = theme.ParseMode(r.themeName)
	return p
}

// palettes resolves both palettes from the config and theme loader.
func (r *root) palettes() map[theme.Mode]*theme.Theme {
	loader := theme.NewLoader()
	return map[theme.Mode]*theme.Theme{
		theme.ModeLight: r.config.Palette(theme.ModeLight, loader),
		theme.ModeDark:  r.config.Palette(theme.ModeDark, loader),
	}
}

// fonts returns the caption font registry with the configured font
// directory loaded on top of the built-in families.
func (r *root) fonts() *compose.Registry {
	reg := compose.NewRegistry()
	if r.fontDir == "" {
		return reg
	}
	n, err := reg.LoadDir(r.fontDir)
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: fonts in %s: %v\n", r.fontDir, err)
	} else if n > 0 {
		log.Printf("loaded %d fonts from %s", n, r.fontDir)
	}
	return reg
}

// newSession builds a session with the configured caption defaults.
func (r *root) newSession(h *history.Store, opts ...session.Option) (*session.Session, error) {
	cs, err := r.config.CaptionSettings()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	opts = append([]session.Option{session.WithHistory(h), session.WithSettings(cs)}, opts...)
	return session.New(compose.New(r.fonts()), opts...), nil
}

func (r *root) subcommand(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}
