//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"fmt"
	"image"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = fmt.Errorf("%w: DISPLAY and WAYLAND_DISPLAY are unset", ErrUnavailable)
			return
		}
		if err := clipboard.Init(); err != nil {
			initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	})
	return initErr
}

// WriteImage publishes img as PNG.
func (System) WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	data, err := encodePNG(img)
	if err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

// ReadImage returns the clipboard image. When the clipboard only holds an
// image data URL as text, that is decoded instead.
func (System) ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, fmt.Errorf("paste image: %w", err)
	}
	if data := clipboard.Read(clipboard.FmtImage); len(data) > 0 {
		return decodePNG(data)
	}
	return imageFromText(string(clipboard.Read(clipboard.FmtText)))
}

// WriteDataURL publishes a data URL as plain text, for targets that cannot
// accept images.
func (System) WriteDataURL(dataURL string) error {
	if err := ensureInit(); err != nil {
		return fmt.Errorf("copy data url: %w", err)
	}
	clipboard.Write(clipboard.FmtText, []byte(dataURL))
	return nil
}
