// Package render holds drawing effects shared by the editor views.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures a drop shadow cast by a rectangle.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
	Color   color.RGBA
}

// PreviewShadow is the shadow under the meme preview and gallery modal.
func PreviewShadow() ShadowOptions {
	return ShadowOptions{
		Radius:  12,
		Offset:  image.Pt(0, 6),
		Opacity: 0.35,
	}
}

// Bounds reports the area a shadow for r covers, offset and blur included.
func (o ShadowOptions) Bounds(r image.Rectangle) image.Rectangle {
	return r.Inset(-max(o.Radius, 0)).Add(o.Offset)
}

// DropShadow darkens dst under r as if r floated above it. Only pixels
// inside dst's bounds are touched; r itself is left for the caller to draw
// over.
func DropShadow(dst *image.RGBA, r image.Rectangle, o ShadowOptions) {
	if dst == nil || r.Empty() || o.Opacity <= 0 {
		return
	}
	opacity := min(o.Opacity, 1)
	radius := max(o.Radius, 0)

	area := o.Bounds(r)
	clip := area.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}

	mask := image.NewGray(area.Sub(area.Min))
	solid := r.Add(o.Offset).Sub(area.Min)
	draw.Draw(mask, solid, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	blurred := boxBlur(mask, radius)

	c := o.Color
	c.A = uint8(opacity*255 + 0.5)
	if c.A == 0 {
		return
	}
	// Premultiply so draw.Over sees a valid colour.
	c.R = uint8(uint16(c.R) * uint16(c.A) / 255)
	c.G = uint8(uint16(c.G) * uint16(c.A) / 255)
	c.B = uint8(uint16(c.B) * uint16(c.A) / 255)
	draw.DrawMask(dst, clip, image.NewUniform(c), image.Point{}, blurred, clip.Min.Sub(area.Min), draw.Over)
}

// boxBlur runs a horizontal then a vertical box filter of the given radius
// over src using prefix sums.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	blur1D := func(n int, get func(int) uint8, set func(int, uint8)) {
		prefix := make([]int, n+1)
		for i := 0; i < n; i++ {
			prefix[i+1] = prefix[i] + int(get(i))
		}
		for i := 0; i < n; i++ {
			i0 := max(i-radius, 0)
			i1 := min(i+radius, n-1)
			set(i, uint8((prefix[i1+1]-prefix[i0])/(i1-i0+1)))
		}
	}
	for y := 0; y < h; y++ {
		row := y * src.Stride
		blur1D(w,
			func(x int) uint8 { return src.Pix[row+x] },
			func(x int, v uint8) { tmp.Pix[y*tmp.Stride+x] = v })
	}
	for x := 0; x < w; x++ {
		blur1D(h,
			func(y int) uint8 { return tmp.Pix[y*tmp.Stride+x] },
			func(y int, v uint8) { dst.Pix[y*dst.Stride+x] = v })
	}
	return dst
}
