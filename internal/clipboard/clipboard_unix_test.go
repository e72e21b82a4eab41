//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
)

func withoutDisplay(t *testing.T) {
	t.Helper()
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	reset := func() {
		initOnce = sync.Once{}
		initErr = nil
	}
	reset()
	t.Cleanup(reset)
}

func TestWithoutDisplayIsUnavailable(t *testing.T) {
	withoutDisplay(t)

	err := System{}.WriteImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, ErrUnavailable) || !strings.HasPrefix(err.Error(), "copy image: ") {
		t.Fatalf("WriteImage error = %v", err)
	}
	if _, err := (System{}).ReadImage(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ReadImage error = %v", err)
	}
	if err := (System{}).WriteDataURL("data:image/png;base64,AAAA"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("WriteDataURL error = %v", err)
	}
}
