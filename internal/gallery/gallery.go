// Package gallery draws the history grid and the enlarged preview modal.
package gallery

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/imageload"
	"github.com/example/memeforge/internal/theme"
)

const (
	EmptyTitle = "Aucune création"
	EmptyHint  = "Créez votre premier mème pour commencer"
)

// View renders a list of history entries as a grid of thumbnail cards.
type View struct {
	Theme *theme.Theme
	Face  font.Face

	CardSize      int // thumbnail edge in pixels
	Gap           int
	CaptionHeight int // footer strip that holds the date

	mu     sync.Mutex
	thumbs map[string]image.Image
	cards  []image.Rectangle
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithCardSize sets the thumbnail edge length.
func WithCardSize(px int) ViewOption { return func(v *View) { v.CardSize = px } }

// WithFace sets the face used for dates and the empty state.
func WithFace(f font.Face) ViewOption { return func(v *View) { v.Face = f } }

// NewView returns a View with sensible card metrics.
func NewView(th *theme.Theme, opts ...ViewOption) *View {
	v := &View{
		Theme:         th,
		Face:          basicfont.Face7x13,
		CardSize:      160,
		Gap:           16,
		CaptionHeight: 28,
		thumbs:        map[string]image.Image{},
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Columns reports how many cards fit across width.
func (v *View) Columns(width int) int {
	n := (width - v.Gap) / (v.CardSize + v.Gap)
	if n < 1 {
		n = 1
	}
	return n
}

// CardRects lays out n cards inside r, left to right then top to bottom.
func (v *View) CardRects(r image.Rectangle, n int) []image.Rectangle {
	cols := v.Columns(r.Dx())
	rects := make([]image.Rectangle, n)
	for i := range rects {
		col, row := i%cols, i/cols
		x := r.Min.X + v.Gap + col*(v.CardSize+v.Gap)
		y := r.Min.Y + v.Gap + row*(v.CardSize+v.CaptionHeight+v.Gap)
		rects[i] = image.Rect(x, y, x+v.CardSize, y+v.CardSize+v.CaptionHeight)
	}
	return rects
}

// Render draws entries into r of dst. With no entries it draws the empty
// state placeholder instead. Cards that do not fit entirely inside r are
// skipped. The card rectangles are remembered for HitTest.
func (v *View) Render(dst *image.RGBA, r image.Rectangle, entries []history.ComposedMeme) {
	draw.Draw(dst, r, image.NewUniform(v.Theme.Panel), image.Point{}, draw.Src)

	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(v.Face)

	if len(entries) == 0 {
		v.mu.Lock()
		v.cards = nil
		v.mu.Unlock()
		cx := float64(r.Min.X+r.Max.X) / 2
		cy := float64(r.Min.Y+r.Max.Y) / 2
		dc.SetColor(v.Theme.Foreground)
		dc.DrawStringAnchored(EmptyTitle, cx, cy-10, 0.5, 0.5)
		dc.SetColor(v.Theme.Muted)
		dc.DrawStringAnchored(EmptyHint, cx, cy+10, 0.5, 0.5)
		return
	}

	cards := v.CardRects(r, len(entries))
	for i, e := range entries {
		c := cards[i]
		if !c.In(r) {
			cards[i] = image.Rectangle{}
			continue
		}
		dc.SetColor(v.Theme.Card)
		dc.DrawRoundedRectangle(float64(c.Min.X), float64(c.Min.Y), float64(c.Dx()), float64(c.Dy()), 8)
		dc.FillPreserve()
		dc.SetColor(v.Theme.CardBorder)
		dc.SetLineWidth(1)
		dc.Stroke()

		thumbRect := image.Rect(c.Min.X, c.Min.Y, c.Max.X, c.Min.Y+v.CardSize)
		if img, err := v.Thumbnail(e); err == nil {
			drawCover(dst, thumbRect, img)
		} else {
			draw.Draw(dst, thumbRect, image.NewUniform(v.Theme.CheckerDark), image.Point{}, draw.Src)
		}

		dc.SetColor(v.Theme.Muted)
		dc.DrawStringAnchored(e.Date, float64(c.Min.X+8), float64(c.Max.Y)-float64(v.CaptionHeight)/2, 0, 0.35)
	}

	v.mu.Lock()
	v.cards = cards
	v.mu.Unlock()
}

// HitTest returns the index of the card under p from the last Render, or -1.
func (v *View) HitTest(p image.Point) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, c := range v.cards {
		if p.In(c) {
			return i
		}
	}
	return -1
}

// Thumbnail decodes the entry image, caching by data URL.
func (v *View) Thumbnail(e history.ComposedMeme) (image.Image, error) {
	v.mu.Lock()
	if img, ok := v.thumbs[e.Data]; ok {
		v.mu.Unlock()
		return img, nil
	}
	v.mu.Unlock()

	img, err := Decode(e)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.thumbs[e.Data] = img
	v.mu.Unlock()
	return img, nil
}

// Forget drops cached thumbnails, e.g. after the history was cleared.
func (v *View) Forget() {
	v.mu.Lock()
	v.thumbs = map[string]image.Image{}
	v.cards = nil
	v.mu.Unlock()
}

// Decode turns an entry's data URL back into an image.
func Decode(e history.ComposedMeme) (image.Image, error) {
	data, _, err := imageload.ParseDataURL(e.Data)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode history image: %w", err)
	}
	return img, nil
}

// drawCover scales src to fill r, cropping the overflow around the centre.
func drawCover(dst draw.Image, r image.Rectangle, src image.Image) {
	sb := src.Bounds()
	if sb.Empty() || r.Empty() {
		return
	}
	sw, sh := sb.Dx(), sb.Dy()
	// Pick the largest centred source window with the aspect ratio of r.
	cw, ch := sw, sw*r.Dy()/r.Dx()
	if ch > sh {
		cw, ch = sh*r.Dx()/r.Dy(), sh
	}
	x0 := sb.Min.X + (sw-cw)/2
	y0 := sb.Min.Y + (sh-ch)/2
	xdraw.ApproxBiLinear.Scale(dst, r, src, image.Rect(x0, y0, x0+cw, y0+ch), draw.Src, nil)
}
