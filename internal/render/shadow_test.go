package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func whiteCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func TestDropShadowDarkensBelowTheRect(t *testing.T) {
	dst := whiteCanvas(100, 100)
	r := image.Rect(30, 30, 70, 70)
	opts := ShadowOptions{Radius: 4, Offset: image.Pt(0, 8), Opacity: 0.5}
	DropShadow(dst, r, opts)

	// Just below the rect, inside the offset band.
	if got := dst.RGBAAt(50, 74); got.R >= 255 {
		t.Fatalf("expected shadow below the rect, got %v", got)
	}
	// Far away from the shadow.
	if got := dst.RGBAAt(5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("pixel outside shadow changed: %v", got)
	}
	if want := image.Rect(26, 34, 74, 82); opts.Bounds(r) != want {
		t.Fatalf("Bounds = %v, want %v", opts.Bounds(r), want)
	}
}

func TestDropShadowZeroOpacityIsNoop(t *testing.T) {
	dst := whiteCanvas(20, 20)
	DropShadow(dst, image.Rect(5, 5, 15, 15), ShadowOptions{Radius: 3, Opacity: 0})
	for i, v := range dst.Pix {
		if v != 255 {
			t.Fatalf("pixel byte %d changed to %d", i, v)
		}
	}
}

func TestDropShadowClipsToDestination(t *testing.T) {
	dst := whiteCanvas(20, 20)
	// Mostly outside dst; must not panic and must only touch dst pixels.
	DropShadow(dst, image.Rect(-40, -40, 10, 10), PreviewShadow())
	if got := dst.RGBAAt(19, 19); got.A != 255 {
		t.Fatalf("alpha changed: %v", got)
	}
	DropShadow(dst, image.Rect(100, 100, 120, 120), PreviewShadow())
}

func TestBoxBlurKeepsTotalAwayFromEdges(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 21, 21))
	src.SetGray(10, 10, color.Gray{Y: 255})
	out := boxBlur(src, 1)
	if out.GrayAt(10, 10).Y == 255 || out.GrayAt(9, 9).Y == 0 {
		t.Fatalf("blur did not spread: centre=%d corner=%d", out.GrayAt(10, 10).Y, out.GrayAt(9, 9).Y)
	}
	if out.GrayAt(0, 0).Y != 0 {
		t.Fatalf("blur reached far corner")
	}
	same := boxBlur(src, 0)
	if same.GrayAt(10, 10).Y != 255 {
		t.Fatalf("radius 0 should copy")
	}
}
