package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/memeforge/internal/compose"
	"github.com/example/memeforge/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Download bool
	Copy     bool
	Share    bool
}

// Config holds the application configuration.
type Config struct {
	Theme       string // initial mode when nothing has been stored yet
	LightTheme  string // palette name or file used for light mode
	DarkTheme   string // palette name or file used for dark mode
	DataDir     string
	Storage     string // file or sqlite
	DownloadDir string
	FontDir     string
	FontFamily  string
	FontSize    int
	Fill        string
	Stroke      string
	Notify      Notify
	Themes      map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // Default to empty to allow fallback to Env/Default
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct{ key, value string }{
		{"theme", c.Theme},
		{"light_theme", c.LightTheme},
		{"dark_theme", c.DarkTheme},
		{"data_dir", c.DataDir},
		{"storage", c.Storage},
		{"download_dir", c.DownloadDir},
		{"font_dir", c.FontDir},
		{"font_family", c.FontFamily},
		{"fill", c.Fill},
		{"stroke", c.Stroke},
	}
	for _, kv := range root {
		if kv.value != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.value)
		}
	}
	if c.FontSize > 0 {
		fmt.Fprintf(&sb, "font_size = %d\n", c.FontSize)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "download = %v\n", c.Notify.Download)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "share = %v\n", c.Notify.Share)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f[0], f[1])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Mode returns the configured initial theme mode.
func (c *Config) Mode() theme.Mode {
	return theme.ParseMode(c.Theme)
}

// Palette resolves the palette for mode m: a [theme.light]/[theme.dark]
// section wins, then light_theme/dark_theme (a section name or anything
// the theme loader finds), then the built-in palette.
func (c *Config) Palette(m theme.Mode, loader *theme.Loader) *theme.Theme {
	if t, ok := c.Themes[m.String()]; ok {
		return t
	}
	name := c.LightTheme
	if m == theme.ModeDark {
		name = c.DarkTheme
	}
	if name != "" {
		if t, ok := c.Themes[name]; ok {
			return t
		}
		if loader != nil {
			if t, err := loader.Load(name); err == nil {
				return t
			}
		}
	}
	return theme.ForMode(m)
}

// CaptionSettings returns the default caption settings with the configured
// font and colours applied.
func (c *Config) CaptionSettings() (compose.Settings, error) {
	s := compose.DefaultSettings()
	if c.FontFamily != "" {
		s.FontFamily = c.FontFamily
	}
	if c.FontSize > 0 {
		s.FontSize = c.FontSize
	}
	if c.Fill != "" {
		col, err := theme.ParseColor(c.Fill)
		if err != nil {
			return s, fmt.Errorf("fill: %w", err)
		}
		s.Fill = col
	}
	if c.Stroke != "" {
		col, err := theme.ParseColor(c.Stroke)
		if err != nil {
			return s, fmt.Errorf("stroke: %w", err)
		}
		s.Stroke = col
	}
	return s, nil
}
