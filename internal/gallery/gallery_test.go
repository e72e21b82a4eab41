package gallery

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/imageload"
	"github.com/example/memeforge/internal/theme"
)

func entry(t *testing.T, c color.RGBA, date string) history.ComposedMeme {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return history.ComposedMeme{Data: imageload.EncodeDataURL("image/png", buf.Bytes()), Date: date}
}

// near tolerates interpolation rounding on uniform images.
func near(a, b color.RGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= 2 && d(a.G, b.G) <= 2 && d(a.B, b.B) <= 2
}

func TestRenderEmptyState(t *testing.T) {
	th := theme.Light()
	v := NewView(th)
	dst := image.NewRGBA(image.Rect(0, 0, 400, 200))
	v.Render(dst, dst.Bounds(), nil)

	if v.HitTest(image.Pt(30, 30)) != -1 {
		t.Fatalf("empty gallery should have no cards")
	}
	var text bool
	for y := 0; y < 200 && !text; y++ {
		for x := 0; x < 400; x++ {
			if dst.RGBAAt(x, y) != th.Panel {
				text = true
				break
			}
		}
	}
	if !text {
		t.Fatalf("empty state placeholder not drawn")
	}
}

func TestRenderCardsInOrder(t *testing.T) {
	th := theme.Dark()
	v := NewView(th, WithCardSize(60))
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	entries := []history.ComposedMeme{entry(t, red, "newest"), entry(t, blue, "older")}

	dst := image.NewRGBA(image.Rect(0, 0, 400, 300))
	v.Render(dst, dst.Bounds(), entries)

	cards := v.CardRects(dst.Bounds(), len(entries))
	if !(cards[0].Min.X < cards[1].Min.X) {
		t.Fatalf("cards not laid out left to right: %v", cards)
	}
	centre := func(r image.Rectangle) image.Point {
		return image.Pt(r.Min.X+v.CardSize/2, r.Min.Y+v.CardSize/2)
	}
	if got := dst.RGBAAt(centre(cards[0]).X, centre(cards[0]).Y); !near(got, red) {
		t.Fatalf("first card = %v, want red", got)
	}
	if got := dst.RGBAAt(centre(cards[1]).X, centre(cards[1]).Y); !near(got, blue) {
		t.Fatalf("second card = %v, want blue", got)
	}
	if i := v.HitTest(centre(cards[1])); i != 1 {
		t.Fatalf("HitTest = %d, want 1", i)
	}
	if i := v.HitTest(image.Pt(1, 1)); i != -1 {
		t.Fatalf("HitTest gap = %d", i)
	}
}

func TestColumnsWraps(t *testing.T) {
	v := NewView(theme.Light(), WithCardSize(100))
	v.Gap = 10
	if c := v.Columns(340); c != 3 {
		t.Fatalf("Columns = %d", c)
	}
	if c := v.Columns(5); c != 1 {
		t.Fatalf("Columns = %d", c)
	}
	rects := v.CardRects(image.Rect(0, 0, 340, 1000), 4)
	if rects[3].Min.X != rects[0].Min.X || rects[3].Min.Y <= rects[0].Min.Y {
		t.Fatalf("fourth card not on second row: %v", rects)
	}
}

func TestModalOpenClose(t *testing.T) {
	var m Modal
	e := entry(t, color.RGBA{0, 255, 0, 255}, "d")
	if err := m.Open(3, e); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !m.IsOpen() || m.Index() != 3 {
		t.Fatalf("modal not open on 3")
	}
	if m.HandleKey(key.Event{Code: key.CodeA, Direction: key.DirPress}) {
		t.Fatalf("non-escape key consumed")
	}
	if !m.HandleKey(key.Event{Code: key.CodeEscape, Direction: key.DirPress}) {
		t.Fatalf("escape not consumed")
	}
	if m.IsOpen() || m.Index() != -1 {
		t.Fatalf("escape did not close")
	}
	m.Close()
	if m.HandleKey(key.Event{Code: key.CodeEscape, Direction: key.DirPress}) {
		t.Fatalf("closed modal consumed key")
	}
}

func TestModalRenderAndBackdropClick(t *testing.T) {
	var m Modal
	green := color.RGBA{0, 255, 0, 255}
	if err := m.Open(0, entry(t, green, "d")); err != nil {
		t.Fatal(err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	m.Render(dst, dst.Bounds(), theme.Light())
	if got := dst.RGBAAt(200, 200); !near(got, green) {
		t.Fatalf("centre = %v, want image pixel", got)
	}
	if !m.HandleClick(image.Pt(200, 200)) || !m.IsOpen() {
		t.Fatalf("click on image should keep modal open")
	}
	m.HandleClick(image.Pt(2, 399))
	if m.IsOpen() {
		t.Fatalf("backdrop click should close")
	}
}

func TestModalRejectsBadData(t *testing.T) {
	var m Modal
	if err := m.Open(0, history.ComposedMeme{Data: "nonsense"}); err == nil {
		t.Fatalf("expected decode error")
	}
	if m.IsOpen() {
		t.Fatalf("modal opened on bad data")
	}
}
