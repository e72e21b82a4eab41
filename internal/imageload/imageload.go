// Package imageload turns user supplied files into decoded bitmaps.
package imageload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Bitmap is a decoded image ready to be drawn. It is never mutated once
// loaded; a new upload replaces it.
type Bitmap struct {
	Image  image.Image
	Format string
}

// Width reports the natural width of the bitmap.
func (b Bitmap) Width() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height reports the natural height of the bitmap.
func (b Bitmap) Height() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Decoder decodes an encoded image stream.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (Bitmap, error)
}

// ImageDecoder decodes every format registered with the image package: PNG,
// JPEG and GIF from the standard library plus BMP, TIFF and WebP.
type ImageDecoder struct{}

func (ImageDecoder) Decode(ctx context.Context, r io.Reader) (Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return Bitmap{}, err
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return Bitmap{}, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return Bitmap{}, errors.New("decode image: empty bounds")
	}
	return Bitmap{Image: img, Format: format}, nil
}

// ClipboardReader reads an image from the system clipboard.
type ClipboardReader interface {
	ReadImage() (image.Image, error)
}

// Loader reads files and signals OnReady with every successfully decoded
// bitmap. Failed decodes return an error and never fire OnReady.
type Loader struct {
	Decoder   Decoder
	Clipboard ClipboardReader
	OnReady   func(Bitmap)
}

// New returns a Loader using the native ImageDecoder.
func New(onReady func(Bitmap)) *Loader {
	return &Loader{Decoder: ImageDecoder{}, OnReady: onReady}
}

// LoadFile decodes the image stored at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return Bitmap{}, err
	}
	defer f.Close()
	return l.LoadReader(ctx, f)
}

// LoadDataURL decodes a base64 data URL such as the one a file reader produces.
func (l *Loader) LoadDataURL(ctx context.Context, dataURL string) (Bitmap, error) {
	data, _, err := ParseDataURL(dataURL)
	if err != nil {
		return Bitmap{}, err
	}
	return l.LoadReader(ctx, bytes.NewReader(data))
}

// LoadReader decodes the image read from r.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader) (Bitmap, error) {
	dec := l.Decoder
	if dec == nil {
		dec = ImageDecoder{}
	}
	bm, err := dec.Decode(ctx, r)
	if err != nil {
		return Bitmap{}, err
	}
	if l.OnReady != nil {
		l.OnReady(bm)
	}
	return bm, nil
}

// LoadClipboard uses the image currently held by the clipboard as the upload.
func (l *Loader) LoadClipboard(ctx context.Context) (Bitmap, error) {
	if l.Clipboard == nil {
		return Bitmap{}, errors.New("clipboard is not available")
	}
	img, err := l.Clipboard.ReadImage()
	if err != nil {
		return Bitmap{}, fmt.Errorf("read clipboard: %w", err)
	}
	// Round-trip through PNG so the clipboard image goes through the same
	// decoder as every other upload.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Bitmap{}, fmt.Errorf("read clipboard: %w", err)
	}
	return l.LoadReader(ctx, &buf)
}

// ParseDataURL splits "data:<mime>;base64,<payload>" into raw bytes and mime
// type.
func ParseDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", errors.New("data url: missing data: prefix")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errors.New("data url: missing payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", errors.New("data url: only base64 payloads are supported")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("data url: %w", err)
	}
	return data, mime, nil
}

// EncodeDataURL wraps raw bytes in a base64 data URL.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
