package gallery

import (
	"image"
	"image/draw"
	"sync"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"

	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/render"
	"github.com/example/memeforge/internal/scale"
	"github.com/example/memeforge/internal/theme"
)

// Modal shows a single history entry enlarged over the rest of the UI.
type Modal struct {
	mu    sync.Mutex
	open  bool
	index int
	entry history.ComposedMeme
	img   image.Image

	closeRect image.Rectangle
	imageRect image.Rectangle
}

// Open shows entry i. Decoding failures leave the modal closed.
func (m *Modal) Open(i int, e history.ComposedMeme) error {
	img, err := Decode(e)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open, m.index, m.entry, m.img = true, i, e, img
	return nil
}

// Close hides the modal. Closing a closed modal is a no-op.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.img = nil
}

// IsOpen reports whether the modal is visible.
func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Index returns the history index shown, or -1 when closed.
func (m *Modal) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return -1
	}
	return m.index
}

// Entry returns the displayed entry.
func (m *Modal) Entry() (history.ComposedMeme, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entry, m.open
}

// HandleKey closes the modal on Escape and reports whether it consumed e.
func (m *Modal) HandleKey(e key.Event) bool {
	if !m.IsOpen() || e.Direction == key.DirRelease {
		return false
	}
	if e.Code == key.CodeEscape {
		m.Close()
		return true
	}
	return false
}

// HandleClick closes the modal when p hits the close button or the backdrop.
func (m *Modal) HandleClick(p image.Point) bool {
	m.mu.Lock()
	open, closeRect, imageRect := m.open, m.closeRect, m.imageRect
	m.mu.Unlock()
	if !open {
		return false
	}
	if p.In(closeRect) || !p.In(imageRect) {
		m.Close()
	}
	return true
}

// Render draws the backdrop and the image scaled to fit r with a margin.
func (m *Modal) Render(dst *image.RGBA, r image.Rectangle, th *theme.Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open || m.img == nil {
		return
	}
	draw.Draw(dst, r, image.NewUniform(th.Overlay), image.Point{}, draw.Over)

	const margin = 48
	ib := m.img.Bounds()
	w, h := scale.Fit(ib.Dx(), ib.Dy(), r.Dx()-2*margin, r.Dy()-2*margin)
	x := r.Min.X + (r.Dx()-w)/2
	y := r.Min.Y + (r.Dy()-h)/2
	m.imageRect = image.Rect(x, y, x+w, y+h)
	render.DropShadow(dst, m.imageRect, render.PreviewShadow())
	xdraw.ApproxBiLinear.Scale(dst, m.imageRect, m.img, ib, draw.Over, nil)

	const btn = 32
	m.closeRect = image.Rect(r.Max.X-margin/2-btn, r.Min.Y+margin/2-btn/2, r.Max.X-margin/2, r.Min.Y+margin/2+btn/2)
	dc := gg.NewContextForRGBA(dst)
	cx := float64(m.closeRect.Min.X+m.closeRect.Max.X) / 2
	cy := float64(m.closeRect.Min.Y+m.closeRect.Max.Y) / 2
	dc.SetColor(th.Panel)
	dc.DrawCircle(cx, cy, btn/2)
	dc.Fill()
	dc.SetColor(th.Foreground)
	dc.SetLineWidth(2)
	dc.DrawLine(cx-7, cy-7, cx+7, cy+7)
	dc.DrawLine(cx+7, cy-7, cx-7, cy+7)
	dc.Stroke()
}
