//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"
	"runtime"
)

var errNoBackend = fmt.Errorf("%w: no backend for %s", ErrUnavailable, runtime.GOOS)

// WriteImage always fails: this platform has no clipboard backend.
func (System) WriteImage(image.Image) error {
	return fmt.Errorf("copy image: %w", errNoBackend)
}

// ReadImage always fails: this platform has no clipboard backend.
func (System) ReadImage() (image.Image, error) {
	return nil, fmt.Errorf("paste image: %w", errNoBackend)
}

// WriteDataURL always fails: this platform has no clipboard backend.
func (System) WriteDataURL(string) error {
	return fmt.Errorf("copy data url: %w", errNoBackend)
}
