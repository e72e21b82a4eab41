package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/memeforge/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if name, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start from the matching built-in so missing keys are fine
				currentTheme = theme.ForMode(theme.ParseMode(name))
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		switch {
		case currentTheme != nil:
			if err := theme.SetField(currentTheme, key, value); err != nil {
				return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
			}
		case currentSection == "notify":
			if err := setNotifyField(&cfg.Notify, key, value); err != nil {
				return nil, fmt.Errorf("error in section [notify]: %w", err)
			}
		case currentSection == "":
			if err := setRootField(cfg, key, value); err != nil {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "light_theme":
		cfg.LightTheme = value
	case "dark_theme":
		cfg.DarkTheme = value
	case "data_dir":
		cfg.DataDir = value
	case "storage":
		switch strings.ToLower(value) {
		case "", "file", "sqlite", "memory":
			cfg.Storage = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown storage %q", value)
		}
	case "download_dir":
		cfg.DownloadDir = value
	case "font_dir":
		cfg.FontDir = value
	case "font_family":
		cfg.FontFamily = value
	case "font_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid font_size %q", value)
		}
		cfg.FontSize = n
	case "fill":
		if _, err := theme.ParseColor(value); err != nil {
			return fmt.Errorf("invalid fill: %w", err)
		}
		cfg.Fill = value
	case "stroke":
		if _, err := theme.ParseColor(value); err != nil {
			return fmt.Errorf("invalid stroke: %w", err)
		}
		cfg.Stroke = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "download":
		n.Download = b
	case "copy":
		n.Copy = b
	case "share":
		n.Share = b
	}
	return nil
}
