//go:build !linux && !darwin && !windows

package platform

import "fmt"

// Notify reports ErrUnsupported; the caller decides whether to keep trying.
func Notify(title, body string, opts Options) error {
	return fmt.Errorf("notify %q: %w", title, ErrUnsupported)
}
