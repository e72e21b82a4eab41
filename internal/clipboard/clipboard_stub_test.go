//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
	"testing"
)

func TestStubIsUnavailable(t *testing.T) {
	if err := (System{}).WriteImage(image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("WriteImage error = %v", err)
	}
	if _, err := (System{}).ReadImage(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ReadImage error = %v", err)
	}
	if err := (System{}).WriteDataURL("data:,"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("WriteDataURL error = %v", err)
	}
}
