// Package clipboard moves composed memes to and from the system clipboard.
//
// System is implemented once per backend: the cgo build talks to
// golang.design/x/clipboard, the pure-Go build owns an X11 selection
// directly, and other platforms report ErrUnavailable.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/example/memeforge/internal/imageload"
)

// ErrUnavailable reports that no clipboard could be reached.
var ErrUnavailable = errors.New("clipboard unavailable")

var errNoImage = errors.New("clipboard holds no image")

// System is the host clipboard. It satisfies the export and imageload
// clipboard interfaces.
type System struct{}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("paste image: %w", err)
	}
	return img, nil
}

// imageFromText decodes text copied by "gallery copy -text", a data URL.
func imageFromText(text string) (image.Image, error) {
	text = strings.TrimRight(strings.TrimSpace(text), "\x00")
	if !strings.HasPrefix(text, "data:image/") {
		return nil, fmt.Errorf("paste image: %w", errNoImage)
	}
	return decodeDataURL(text)
}

func decodeDataURL(s string) (image.Image, error) {
	data, _, err := imageload.ParseDataURL(s)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("clipboard data url: %w", err)
	}
	return img, nil
}
