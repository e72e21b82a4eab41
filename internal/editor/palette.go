package editor

import (
	"image/color"

	"github.com/example/memeforge/internal/theme"
)

// PaletteColor is a named caption colour.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var swatches = []PaletteColor{
	{"Blanc", color.RGBA{255, 255, 255, 255}},
	{"Noir", color.RGBA{0, 0, 0, 255}},
	{"Rouge", color.RGBA{239, 68, 68, 255}},
	{"Jaune", color.RGBA{250, 204, 21, 255}},
	{"Vert", color.RGBA{34, 197, 94, 255}},
	{"Bleu", color.RGBA{59, 130, 246, 255}},
	{"Cyan", color.RGBA{6, 182, 212, 255}},
	{"Magenta", color.RGBA{217, 70, 239, 255}},
	{"Orange", color.RGBA{249, 115, 22, 255}},
	{"Gris", color.RGBA{156, 163, 175, 255}},
}

// Palette returns a copy of the caption colours offered by the editor.
func Palette() []PaletteColor {
	out := make([]PaletteColor, len(swatches))
	copy(out, swatches)
	return out
}

// colorName returns the swatch name of c, or its hex form.
func colorName(c color.RGBA) string {
	for _, s := range swatches {
		if s.Color == c {
			return s.Name
		}
	}
	return theme.Hex(c)
}

// nextColor returns the swatch after c, starting over at the first.
func nextColor(c color.RGBA) color.RGBA {
	for i, s := range swatches {
		if s.Color == c {
			return swatches[(i+1)%len(swatches)].Color
		}
	}
	return swatches[0].Color
}

// nextFamily cycles through families. An unlisted current family moves to
// the first entry.
func nextFamily(families []string, current string) string {
	if len(families) == 0 {
		return current
	}
	for i, f := range families {
		if f == current {
			return families[(i+1)%len(families)]
		}
	}
	return families[0]
}

const (
	minFontSize  = 12
	maxFontSize  = 120
	fontSizeStep = 4
)

func clampFontSize(n int) int {
	if n < minFontSize {
		return minFontSize
	}
	if n > maxFontSize {
		return maxFontSize
	}
	return n
}
