// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package points

import (
	"math"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/parallel"
	"github.com/gogpu/graphview/internal/shade"
)

// sprite is a point that passed the clip test, in window coordinates.
type sprite struct {
	v      varyings
	cx, cy float32
	half   float32
}

// triangle is a triangle that passed the clip test, in window coordinates.
// Color and alpha are flat, taken from the first vertex.
type triangle struct {
	x, y  [3]float32
	color varyings
}

// rowRange returns the rows whose centers may lie in [top, bottom).
func rowRange(top, bottom float32, band parallel.Band) (int, int) {
	y0 := max(band.Y0, int(math.Ceil(float64(top-0.5))))
	y1 := min(band.Y1, int(math.Ceil(float64(bottom-0.5))))
	return y0, y1
}

// rasterSprites draws the sprites that intersect band, in order.
func rasterSprites(target *graphview.Pixmap, sprites []sprite, band parallel.Band) {
	width := target.Width()
	for i := range sprites {
		s := &sprites[i]
		if !(s.half > 0) {
			continue
		}
		y0, y1 := rowRange(s.cy-s.half, s.cy+s.half, band)
		x0 := max(0, int(math.Ceil(float64(s.cx-s.half-0.5))))
		x1 := min(width, int(math.Ceil(float64(s.cx+s.half-0.5))))
		for py := y0; py < y1; py++ {
			sv := (float32(py) + 0.5 - s.cy) / s.half
			for px := x0; px < x1; px++ {
				su := (float32(px) + 0.5 - s.cx) / s.half
				r, g, b, a, keep := pointFragment(&s.v, su, sv)
				if keep {
					blend(target, px, py, r, g, b, a)
				}
			}
		}
	}
}

// edgeFn is the signed area term of p against the directed edge a->b. With
// window y pointing down, the interior of a positively oriented triangle has
// edgeFn >= 0 on every edge.
func edgeFn(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether a->b is a top or left edge of a positively
// oriented triangle. Pixels exactly on such edges are covered, pixels on the
// other edges are not, so triangles sharing an edge never both cover a pixel.
func topLeft(ax, ay, bx, by float32) bool {
	dx, dy := bx-ax, by-ay
	return (dy == 0 && dx > 0) || dy < 0
}

func inside(e float32, tl bool) bool {
	return e > 0 || (e == 0 && tl)
}

// rasterTriangles draws the triangles that intersect band, in order.
func rasterTriangles(target *graphview.Pixmap, tris []triangle, band parallel.Band) {
	width := target.Width()
	for i := range tris {
		t := &tris[i]
		x, y := t.x, t.y
		area := edgeFn(x[0], y[0], x[1], y[1], x[2], y[2])
		if area == 0 || area != area {
			continue
		}
		if area < 0 {
			x[1], x[2] = x[2], x[1]
			y[1], y[2] = y[2], y[1]
		}
		minX := min(x[0], x[1], x[2])
		maxX := max(x[0], x[1], x[2])
		minY := min(y[0], y[1], y[2])
		maxY := max(y[0], y[1], y[2])

		y0, y1 := rowRange(minY, maxY+1, band)
		x0 := max(0, int(math.Ceil(float64(minX-0.5))))
		x1 := min(width, int(math.Ceil(float64(maxX+0.5))))
		tl0 := topLeft(x[1], y[1], x[2], y[2])
		tl1 := topLeft(x[2], y[2], x[0], y[0])
		tl2 := topLeft(x[0], y[0], x[1], y[1])
		for py := y0; py < y1; py++ {
			cy := float32(py) + 0.5
			for px := x0; px < x1; px++ {
				cx := float32(px) + 0.5
				if !inside(edgeFn(x[1], y[1], x[2], y[2], cx, cy), tl0) ||
					!inside(edgeFn(x[2], y[2], x[0], y[0], cx, cy), tl1) ||
					!inside(edgeFn(x[0], y[0], x[1], y[1], cx, cy), tl2) {
					continue
				}
				blend(target, px, py, t.color.r, t.color.g, t.color.b, t.color.alpha)
			}
		}
	}
}

// blend writes a fragment with src-alpha / one-minus-src-alpha blending.
// Inputs are clamped to [0, 1] first, so a -Inf alpha leaves the pixel
// untouched.
func blend(target *graphview.Pixmap, px, py int, r, g, b, a float32) {
	a = shade.Clamp01(a)
	if a == 0 {
		return
	}
	data := target.Data()
	i := py*target.Stride() + px*4
	inv := 1 - a
	data[i+0] = unorm8(shade.Clamp01(r)*a + float32(data[i+0])/255*inv)
	data[i+1] = unorm8(shade.Clamp01(g)*a + float32(data[i+1])/255*inv)
	data[i+2] = unorm8(shade.Clamp01(b)*a + float32(data[i+2])/255*inv)
	data[i+3] = unorm8(a + float32(data[i+3])/255*inv)
}

func unorm8(v float32) uint8 {
	return uint8(shade.Clamp01(v)*255 + 0.5)
}
