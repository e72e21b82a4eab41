package compose

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/example/memeforge/internal/scale"
)

var sharedFonts = NewRegistry()

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	return img
}

func TestLayoutEndToEnd(t *testing.T) {
	w, h := scale.Default(1600, 1200)
	if w != 800 || h != 600 {
		t.Fatalf("canvas %dx%d, want 800x600", w, h)
	}
	s := DefaultSettings()
	s.Top, s.Bottom, s.FontSize = "go", "team", 40
	got := Layout(w, h, s)
	if len(got) != 2 {
		t.Fatalf("got %d placements, want 2", len(got))
	}
	if got[0].Text != "GO" || got[0].X != 400 || got[0].Y != 20 {
		t.Errorf("top placement %+v, want GO at (400, 20)", got[0])
	}
	if got[1].Text != "TEAM" || got[1].X != 400 || got[1].Y != 540 {
		t.Errorf("bottom placement %+v, want TEAM at (400, 540)", got[1])
	}
}

func TestLayoutSkipsEmptyCaptions(t *testing.T) {
	s := DefaultSettings()
	if got := Layout(100, 100, s); len(got) != 0 {
		t.Fatalf("expected no placements, got %+v", got)
	}
	s.Bottom = "only"
	got := Layout(100, 100, s)
	if len(got) != 1 || got[0].Text != "ONLY" {
		t.Fatalf("expected a single bottom caption, got %+v", got)
	}
}

func TestStrokeWidth(t *testing.T) {
	if got := StrokeWidth(12); got != 2 {
		t.Errorf("StrokeWidth(12) = %v, want 2", got)
	}
	if got := StrokeWidth(60); got != 4 {
		t.Errorf("StrokeWidth(60) = %v, want 4", got)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	c := New(sharedFonts)
	s := DefaultSettings()
	s.Top, s.Bottom = "top text", "bottom text"
	surf := NewSurface(320, 240)
	bg := gradient(640, 480)

	c.Render(surf, bg, s)
	first := surf.Snapshot()
	c.Render(surf, bg, s)
	if !bytes.Equal(first.Pix, surf.Image().Pix) {
		t.Fatal("rendering twice produced different pixels")
	}
}

func TestRenderWithoutBitmapIsNoop(t *testing.T) {
	c := New(sharedFonts)
	surf := NewSurface(10, 10)
	marker := color.RGBA{1, 2, 3, 255}
	draw.Draw(surf.Image(), surf.Image().Bounds(), image.NewUniform(marker), image.Point{}, draw.Src)
	before := surf.Snapshot()

	s := DefaultSettings()
	s.Top = "ignored"
	c.Render(surf, nil, s)
	if !bytes.Equal(before.Pix, surf.Image().Pix) {
		t.Fatal("render without a bitmap modified the surface")
	}
}

func TestRenderUppercasesCaptions(t *testing.T) {
	c := New(sharedFonts)
	bg := gradient(200, 200)
	lower := NewSurface(200, 200)
	upper := NewSurface(200, 200)
	s := DefaultSettings()
	s.FontSize = 24

	s.Top = "hello"
	c.Render(lower, bg, s)
	s.Top = "HELLO"
	c.Render(upper, bg, s)
	if !bytes.Equal(lower.Image().Pix, upper.Image().Pix) {
		t.Fatal(`"hello" and "HELLO" rendered differently`)
	}
}

func TestRenderDrawsOutlineAndFill(t *testing.T) {
	c := New(sharedFonts)
	surf := NewSurface(400, 200)
	s := DefaultSettings()
	s.Top = "IIIII"
	s.FontSize = 60
	s.Fill = color.RGBA{255, 255, 0, 255}
	s.Stroke = color.RGBA{255, 0, 0, 255}
	// A transparent background leaves only caption pixels opaque.
	c.Render(surf, image.NewRGBA(image.Rect(0, 0, 4, 4)), s)

	var fill, stroke int
	img := surf.Image()
	for y := 0; y < 120; y++ {
		for x := 0; x < 400; x++ {
			switch img.RGBAAt(x, y) {
			case s.Fill:
				fill++
			case s.Stroke:
				stroke++
			}
		}
	}
	if fill == 0 {
		t.Fatal("no fill pixels in the caption area")
	}
	if stroke == 0 {
		t.Fatal("no outline pixels in the caption area")
	}
}

func TestRenderStretchesBackground(t *testing.T) {
	c := New(sharedFonts)
	red := color.RGBA{255, 0, 0, 255}
	bg := image.NewRGBA(image.Rect(0, 0, 10, 40))
	draw.Draw(bg, bg.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	surf := NewSurface(50, 20)
	c.Render(surf, bg, DefaultSettings())
	for _, p := range []image.Point{{0, 0}, {49, 0}, {0, 19}, {49, 19}, {25, 10}} {
		if got := surf.Image().RGBAAt(p.X, p.Y); got != red {
			t.Fatalf("pixel %v = %+v, want background colour", p, got)
		}
	}
}

func TestSurfacePNG(t *testing.T) {
	surf := NewSurface(3, 2)
	data, err := surf.PNG()
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("output is not a PNG stream")
	}
}

func TestRegistryFallback(t *testing.T) {
	r := NewRegistry()
	if got := r.Resolve("Impact"); got != FallbackFamily {
		t.Fatalf("Resolve(Impact) = %q, want %q", got, FallbackFamily)
	}
	if got := r.Resolve("go mono"); got != "Go Mono" {
		t.Fatalf("Resolve(go mono) = %q, want Go Mono", got)
	}
	if r.Face("Go", 20) != r.Face("go", 20) {
		t.Fatal("faces are not cached per family and size")
	}
	fams := r.Families()
	if len(fams) != len(builtinFonts) || fams[0] != "Go" {
		t.Fatalf("unexpected families %v", fams)
	}
}

func TestDilateMatchesNearestCoveredPixel(t *testing.T) {
	src := image.NewAlpha(image.Rect(10, 20, 41, 44))
	covered := []image.Point{{15, 25}, {16, 25}, {30, 40}, {38, 22}}
	for _, p := range covered {
		src.SetAlpha(p.X, p.Y, color.Alpha{255})
	}
	src.SetAlpha(25, 30, color.Alpha{90})

	const radius = 3.5
	got := dilate(src, radius)
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			best := math.Inf(1)
			for _, p := range covered {
				best = math.Min(best, math.Hypot(float64(x-p.X), float64(y-p.Y)))
			}
			want := math.Max(0, math.Min(1, radius+0.5-best)) * 255
			want = math.Max(want, float64(src.AlphaAt(x, y).A))
			if d := math.Abs(float64(got.AlphaAt(x, y).A) - want); d > 1 {
				t.Fatalf("alpha at (%d,%d) = %d, want %.1f", x, y, got.AlphaAt(x, y).A, want)
			}
		}
	}
}

func TestDilateWideRadius(t *testing.T) {
	src := image.NewAlpha(image.Rect(0, 0, 400, 300))
	src.SetAlpha(200, 150, color.Alpha{255})
	got := dilate(src, 100)
	if a := got.AlphaAt(299, 150).A; a != 255 {
		t.Fatalf("alpha inside the disk = %d, want 255", a)
	}
	if a := got.AlphaAt(200, 50).A; a != 128 {
		t.Fatalf("alpha on the disk edge = %d, want 128", a)
	}
	if a := got.AlphaAt(399, 299).A; a != 0 {
		t.Fatalf("alpha outside the disk = %d, want 0", a)
	}
}
