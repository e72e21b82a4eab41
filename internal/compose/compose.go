// Package compose draws captioned meme images.
//
// Rendering follows the rules of a 2D canvas: the background image is
// stretched over the whole surface, captions are upper-cased, centred, and
// drawn as an outline followed by the fill so the fill sits on top.
package compose

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// DefaultFamily is the caption font requested by default. Systems without it
// fall back to FallbackFamily.
const DefaultFamily = "Impact"

// Settings describes the captions and their style. It is read fresh on every
// render and compared by value to detect changes.
type Settings struct {
	Top        string
	Bottom     string
	FontSize   int
	Fill       color.RGBA
	Stroke     color.RGBA
	FontFamily string
}

// DefaultSettings returns the editor's initial caption style.
func DefaultSettings() Settings {
	return Settings{
		FontSize:   40,
		Fill:       color.RGBA{255, 255, 255, 255},
		Stroke:     color.RGBA{0, 0, 0, 255},
		FontFamily: DefaultFamily,
	}
}

// StrokeWidth returns the outline width used for a font size.
func StrokeWidth(fontSize int) float64 {
	return math.Max(2, float64(fontSize)/15)
}

// Placement is a caption line positioned on the surface. X is the horizontal
// centre and Y the top edge of the text.
type Placement struct {
	Text        string
	X, Y        float64
	StrokeWidth float64
}

// Layout positions the non-empty captions of s on a width x height surface.
func Layout(width, height int, s Settings) []Placement {
	var out []Placement
	fs := float64(s.FontSize)
	cx := float64(width) / 2
	sw := StrokeWidth(s.FontSize)
	if top := strings.ToUpper(s.Top); top != "" {
		out = append(out, Placement{Text: top, X: cx, Y: fs / 2, StrokeWidth: sw})
	}
	if bottom := strings.ToUpper(s.Bottom); bottom != "" {
		out = append(out, Placement{Text: bottom, X: cx, Y: float64(height) - fs*1.5, StrokeWidth: sw})
	}
	return out
}

// Surface is the drawing target the composed meme lives in.
type Surface struct {
	img *image.RGBA
}

// NewSurface allocates a transparent surface.
func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Resize reallocates the surface. Like a canvas, resizing discards its content.
func (s *Surface) Resize(w, h int) {
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Width reports the surface width in pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height reports the surface height in pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Image exposes the backing pixels. Callers must not retain it across renders.
func (s *Surface) Image() *image.RGBA { return s.img }

// Snapshot returns a copy of the current pixels.
func (s *Surface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Clear resets every pixel to transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// PNG encodes the current pixels.
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compositor renders backgrounds and captions onto a Surface.
type Compositor struct {
	Fonts  *Registry
	Scaler xdraw.Scaler
}

// New returns a Compositor using fonts. A nil registry gets the built-in fonts.
func New(fonts *Registry) *Compositor {
	if fonts == nil {
		fonts = NewRegistry()
	}
	return &Compositor{Fonts: fonts, Scaler: xdraw.ApproxBiLinear}
}

// Render redraws dst from scratch. With no background loaded it leaves dst
// untouched.
func (c *Compositor) Render(dst *Surface, bg image.Image, s Settings) {
	if bg == nil || dst == nil {
		return
	}
	dst.Clear()
	c.Scaler.Scale(dst.img, dst.img.Bounds(), bg, bg.Bounds(), draw.Over, nil)
	if s.FontSize <= 0 {
		return
	}
	face := c.Fonts.Face(s.FontFamily, s.FontSize)
	for _, p := range Layout(dst.Width(), dst.Height(), s) {
		drawCaption(dst.img, face, p, s.Fill, s.Stroke)
	}
}

// drawCaption rasterises p's text into a coverage mask, dilates it by half
// the stroke width for the outline, then paints outline and fill.
func drawCaption(dst *image.RGBA, face font.Face, p Placement, fill, stroke color.Color) {
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64

	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	textW, _ := dc.MeasureString(p.Text)

	radius := p.StrokeWidth / 2
	pad := int(math.Ceil(radius)) + 2
	left := p.X - textW/2
	ox := int(math.Floor(left)) - pad
	oy := int(math.Floor(p.Y)) - pad
	mw := int(math.Ceil(textW)) + 2*pad + 1
	mh := int(math.Ceil(ascent+descent)) + 2*pad + 1

	dc = gg.NewContext(mw, mh)
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	dc.DrawString(p.Text, left-float64(ox), p.Y+ascent-float64(oy))

	rgba, ok := dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	fillMask := image.NewAlpha(image.Rect(ox, oy, ox+mw, oy+mh))
	for y := 0; y < mh; y++ {
		for x := 0; x < mw; x++ {
			fillMask.Pix[y*fillMask.Stride+x] = rgba.Pix[y*rgba.Stride+x*4+3]
		}
	}
	strokeMask := dilate(fillMask, radius)

	draw.DrawMask(dst, strokeMask.Bounds(), image.NewUniform(stroke), image.Point{}, strokeMask, strokeMask.Bounds().Min, draw.Over)
	draw.DrawMask(dst, fillMask.Bounds(), image.NewUniform(fill), image.Point{}, fillMask, fillMask.Bounds().Min, draw.Over)
}

