package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/example/memeforge/internal/imageload"
)

func TestDecodeDataURL(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{1, 2, 3, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	got, err := decodeDataURL(imageload.EncodeDataURL("image/png", buf.Bytes()))
	if err != nil {
		t.Fatalf("decodeDataURL: %v", err)
	}
	if got.Bounds().Dx() != 3 || got.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if _, err := decodeDataURL("data:image/png;base64,AAAA"); err == nil {
		t.Fatalf("expected error for truncated png")
	}
}

func TestImageFromText(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	url := imageload.EncodeDataURL("image/png", buf.Bytes())
	img, err := imageFromText("  " + url + "\x00")
	if err != nil {
		t.Fatalf("imageFromText: %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	for _, text := range []string{"", "hello", "data:text/plain;base64,aGk="} {
		if _, err := imageFromText(text); !errors.Is(err, errNoImage) {
			t.Fatalf("imageFromText(%q) error = %v, want errNoImage", text, err)
		}
	}
}
