// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shade

import "math"

// EdgeWorldPosition maps a template vertex (x, y), x in [0, 1] along the edge
// and y in [-1, 1] across it, to world space:
//
//	a + dir*(x*|b-a|) + ortho*(y*halfWidth)
//
// dir is the unit vector from a to b and ortho is dir rotated by 90°. A
// zero-length edge has no direction; its position is NaN and it is clipped.
func EdgeWorldPosition(ax, ay, bx, by, x, y, halfWidth float32) (px, py float32) {
	dx, dy := bx-ax, by-ay
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	dirX, dirY := dx/length, dy/length
	orthoX, orthoY := -dirY, dirX
	along := x * length
	across := y * halfWidth
	return ax + dirX*along + orthoX*across, ay + dirY*along + orthoY*across
}

// EdgeEndpoint picks the endpoint that colors a fragment at template
// coordinate x: 0 (endpoint a) for x < 0.5, 1 (endpoint b) otherwise. Each
// half of an edge takes its color and visibility from one endpoint; colors
// are never blended.
func EdgeEndpoint(x float32) int {
	if x < 0.5 {
		return 0
	}
	return 1
}
