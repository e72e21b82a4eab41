package editor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/memeforge/internal/theme"
)

var (
	uiFace      font.Face
	titleFace   font.Face
	messageFace font.Face
)

func init() {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	newFace := func(f *opentype.Font, size float64) font.Face {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Fatalf("font face: %v", err)
		}
		return face
	}
	uiFace = newFace(regular, 14)
	titleFace = newFace(bold, 20)
	messageFace = newFace(bold, 24)
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// cacheKeyer is implemented by buttons whose appearance depends on more than
// their state; a changed key drops the cached renderings.
type cacheKeyer interface {
	CacheKey() string
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
	key   string
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if k, ok := cb.Button.(cacheKeyer); ok {
		if ck := k.CacheKey(); ck != cb.key {
			cb.key = ck
			cb.cache = [3]*image.RGBA{}
		}
	}
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// ActionButton is a labelled push button in the sidebar. The event loop owns
// the closures; the paint goroutine only sees resolved copies from view.
type ActionButton struct {
	name       string
	label      func() string
	success    func() bool
	primary    bool
	half       bool // shares its row with the next half button
	keys       shortcutList
	onActivate func()

	text      string
	highlight bool
	th        *theme.Theme
	rect      image.Rectangle
}

// view resolves the label and highlight into a copy safe to draw elsewhere.
func (ab *ActionButton) view(th *theme.Theme, r image.Rectangle) *ActionButton {
	v := &ActionButton{name: ab.name, primary: ab.primary, half: ab.half, th: th, rect: r}
	v.text = ab.name
	if ab.label != nil {
		v.text = ab.label()
	}
	v.highlight = ab.success != nil && ab.success()
	return v
}

func (ab *ActionButton) CacheKey() string {
	return fmt.Sprintf("%s|%p|%v|%v", ab.text, ab.th, ab.highlight, ab.rect)
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	th := ab.th
	if th == nil {
		th = theme.Default()
	}
	bg, fg := th.ButtonBackground, th.ButtonText
	if ab.primary {
		bg, fg = th.Accent, th.AccentText
	}
	switch state {
	case StateHover:
		if ab.primary {
			bg = shade(bg, 20)
		} else {
			bg = th.ButtonBackgroundHover
		}
	case StatePressed:
		if ab.primary {
			bg = shade(bg, 40)
		} else {
			bg = th.ButtonBackgroundPress
		}
	}
	if ab.highlight {
		bg, fg = th.Success, color.RGBA{255, 255, 255, 255}
	}
	draw.Draw(dst, ab.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, ab.rect, th.PanelBorder, 1)
	drawCentered(dst, ab.rect, ab.text, fg, uiFace)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) { ab.rect = r }

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil {
		ab.onActivate()
	}
}

// shade darkens c by amount on each channel.
func shade(c color.RGBA, amount uint8) color.RGBA {
	sub := func(v uint8) uint8 {
		if v < amount {
			return 0
		}
		return v - amount
	}
	return color.RGBA{sub(c.R), sub(c.G), sub(c.B), c.A}
}

// drawField draws a labelled single-line text input.
func drawField(dst *image.RGBA, r image.Rectangle, label, value string, focused bool, th *theme.Theme) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Muted), Face: uiFace,
		Dot: fixed.P(r.Min.X, r.Min.Y+12)}
	d.DrawString(label)

	box := image.Rect(r.Min.X, r.Min.Y+18, r.Max.X, r.Max.Y)
	bg := th.Input
	if focused {
		bg = th.InputFocus
	}
	draw.Draw(dst, box, &image.Uniform{bg}, image.Point{}, draw.Src)
	border := th.PanelBorder
	if focused {
		border = th.Accent
	}
	drawRect(dst, box, border, 1)

	text := value
	if focused {
		text += "|"
	}
	// Keep the tail visible when the caption is wider than the box.
	meas := &font.Drawer{Face: uiFace}
	for len(text) > 0 && meas.MeasureString(text).Ceil() > box.Dx()-12 {
		_, size := firstRune(text)
		text = text[size:]
	}
	d = &font.Drawer{Dst: dst, Src: image.NewUniform(th.InputText), Face: uiFace}
	ascent := uiFace.Metrics().Ascent.Ceil()
	d.Dot = fixed.P(box.Min.X+6, box.Min.Y+(box.Dy()+ascent)/2-1)
	d.DrawString(text)
}

func firstRune(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

func drawCentered(dst *image.RGBA, r image.Rectangle, text string, col color.Color, face font.Face) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	w := d.MeasureString(text).Ceil()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	d.Dot = fixed.P(r.Min.X+(r.Dx()-w)/2, r.Min.Y+(r.Dy()-ascent-descent)/2+ascent)
	d.DrawString(text)
}

func drawText(dst *image.RGBA, x, y int, text string, col color.Color, face font.Face) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face,
		Dot: fixed.P(x, y+face.Metrics().Ascent.Ceil())}
	d.DrawString(text)
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	for i := 0; i < thick; i++ {
		r := rect.Inset(i)
		if r.Empty() {
			return
		}
		u := &image.Uniform{col}
		draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	}
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := dark
			if ((x/size)+(y/size))%2 == 0 {
				c = light
			}
			dst.SetRGBA(x, y, c)
		}
	}
}
