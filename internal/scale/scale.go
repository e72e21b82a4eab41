// Package scale computes display sizes for uploaded images.
package scale

const (
	// MaxWidth is the default width bound for the editing canvas.
	MaxWidth = 800
	// MaxHeight is the default height bound for the editing canvas.
	MaxHeight = 800
)

// Fit shrinks (w, h) so it fits within (maxW, maxH) while keeping the aspect
// ratio. The width bound is applied first and the height bound is then checked
// against the already adjusted height. Images smaller than the bounds are
// returned unchanged.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	width := float64(w)
	height := float64(h)
	if maxW > 0 && width > float64(maxW) {
		height = height * float64(maxW) / width
		width = float64(maxW)
	}
	if maxH > 0 && height > float64(maxH) {
		width = width * float64(maxH) / height
		height = float64(maxH)
	}
	// A canvas truncates fractional dimensions; keep at least one pixel.
	return atLeastOne(int(width)), atLeastOne(int(height))
}

// Default fits (w, h) within MaxWidth x MaxHeight.
func Default(w, h int) (int, int) {
	return Fit(w, h, MaxWidth, MaxHeight)
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
