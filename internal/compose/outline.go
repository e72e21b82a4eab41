package compose

import (
	"image"
	"math"
)

// edtFar stands in for "no covered pixel" in the distance transform. It must
// stay finite so parabola intersections never divide infinities.
const edtFar = 1e20

// dilate grows the coverage of src by radius pixels. Each pixel's alpha comes
// from its Euclidean distance to the nearest covered pixel, which gives the
// outline round joins, and the work does not depend on radius. Pixels on the
// disk edge get partial alpha so thin outlines stay smooth.
func dilate(src *image.Alpha, radius float64) *image.Alpha {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewAlpha(b)
	if w == 0 || h == 0 {
		return out
	}

	dist := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.Pix[y*src.Stride+x] >= 128 {
				dist[y*w+x] = 0
			} else {
				dist[y*w+x] = edtFar
			}
		}
	}

	n := max(w, h)
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			f[y] = dist[y*w+x]
		}
		squaredDistance1D(f[:h], d[:h], v, z)
		for y := 0; y < h; y++ {
			dist[y*w+x] = d[y]
		}
	}
	for y := 0; y < h; y++ {
		row := dist[y*w : (y+1)*w]
		copy(f, row)
		squaredDistance1D(f[:w], d[:w], v, z)
		copy(row, d[:w])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := radius + 0.5 - math.Sqrt(dist[y*w+x])
			a = math.Max(0, math.Min(1, a)) * 255
			a = math.Max(a, float64(src.Pix[y*src.Stride+x]))
			out.Pix[y*out.Stride+x] = uint8(math.Round(a))
		}
	}
	return out
}

// squaredDistance1D writes into d the squared distance from every index of f
// to the nearest sample, where f holds 0 for samples and edtFar elsewhere
// (or the output of a previous pass). It walks the lower envelope of the
// parabolas rooted at each sample (Felzenszwalb and Huttenlocher). v and z are
// scratch space of at least len(f) and len(f)+1.
func squaredDistance1D(f, d []float64, v []int, z []float64) {
	n := len(f)
	if n == 0 {
		return
	}
	meet := func(q, p int) float64 {
		return ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
	}
	k := 0
	v[0] = 0
	z[0] = -edtFar
	z[1] = edtFar
	for q := 1; q < n; q++ {
		s := meet(q, v[k])
		for s <= z[k] {
			k--
			s = meet(q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = edtFar
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}
