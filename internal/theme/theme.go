package theme

import (
	"image/color"
)

// Theme defines the color palette for the editor UI.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background behind every panel
	Foreground color.RGBA // Main text color
	Muted      color.RGBA // Secondary text (dates, hints)

	// Panels & inputs
	Panel       color.RGBA
	PanelBorder color.RGBA
	Input       color.RGBA
	InputFocus  color.RGBA
	InputText   color.RGBA

	// Buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	Accent                color.RGBA
	AccentText            color.RGBA
	Success               color.RGBA // Confirmation flash after a download
	Danger                color.RGBA

	// Gallery
	Card       color.RGBA
	CardBorder color.RGBA
	Overlay    color.RGBA // Modal backdrop

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Light returns the built-in light palette.
func Light() *Theme {
	return &Theme{
		Name:                  "light",
		Background:            color.RGBA{248, 250, 252, 255},
		Foreground:            color.RGBA{15, 23, 42, 255},
		Muted:                 color.RGBA{100, 116, 139, 255},
		Panel:                 color.RGBA{255, 255, 255, 255},
		PanelBorder:           color.RGBA{226, 232, 240, 255},
		Input:                 color.RGBA{241, 245, 249, 255},
		InputFocus:            color.RGBA{224, 231, 255, 255},
		InputText:             color.RGBA{15, 23, 42, 255},
		ButtonBackground:      color.RGBA{226, 232, 240, 255},
		ButtonBackgroundHover: color.RGBA{203, 213, 225, 255},
		ButtonBackgroundPress: color.RGBA{148, 163, 184, 255},
		ButtonText:            color.RGBA{15, 23, 42, 255},
		Accent:                color.RGBA{99, 102, 241, 255},
		AccentText:            color.RGBA{255, 255, 255, 255},
		Success:               color.RGBA{16, 185, 129, 255},
		Danger:                color.RGBA{239, 68, 68, 255},
		Card:                  color.RGBA{255, 255, 255, 255},
		CardBorder:            color.RGBA{226, 232, 240, 255},
		Overlay:               color.RGBA{0, 0, 0, 200},
		CheckerLight:          color.RGBA{241, 245, 249, 255},
		CheckerDark:           color.RGBA{226, 232, 240, 255},
	}
}

// Dark returns the built-in dark palette.
func Dark() *Theme {
	return &Theme{
		Name:                  "dark",
		Background:            color.RGBA{15, 23, 42, 255},
		Foreground:            color.RGBA{241, 245, 249, 255},
		Muted:                 color.RGBA{148, 163, 184, 255},
		Panel:                 color.RGBA{30, 41, 59, 255},
		PanelBorder:           color.RGBA{51, 65, 85, 255},
		Input:                 color.RGBA{51, 65, 85, 255},
		InputFocus:            color.RGBA{67, 56, 202, 255},
		InputText:             color.RGBA{241, 245, 249, 255},
		ButtonBackground:      color.RGBA{51, 65, 85, 255},
		ButtonBackgroundHover: color.RGBA{71, 85, 105, 255},
		ButtonBackgroundPress: color.RGBA{100, 116, 139, 255},
		ButtonText:            color.RGBA{241, 245, 249, 255},
		Accent:                color.RGBA{129, 140, 248, 255},
		AccentText:            color.RGBA{15, 23, 42, 255},
		Success:               color.RGBA{16, 185, 129, 255},
		Danger:                color.RGBA{248, 113, 113, 255},
		Card:                  color.RGBA{30, 41, 59, 255},
		CardBorder:            color.RGBA{51, 65, 85, 255},
		Overlay:               color.RGBA{0, 0, 0, 220},
		CheckerLight:          color.RGBA{30, 41, 59, 255},
		CheckerDark:           color.RGBA{51, 65, 85, 255},
	}
}

// Default returns the palette for the default mode.
func Default() *Theme {
	return Light()
}

// ForMode returns the built-in palette for m.
func ForMode(m Mode) *Theme {
	if m == ModeDark {
		return Dark()
	}
	return Light()
}
