// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shade

import (
	"math"

	"github.com/gogpu/graphview"
)

// Level-of-detail constants.
const (
	// DegreeCap is the degree at which node size and opacity saturate.
	DegreeCap = 1000

	// MinNodeSize and MaxNodeSize bound the node diameter in world units.
	MinNodeSize = 12
	MaxNodeSize = 100

	// OpacityBoost is how much fully saturated nodes and edges gain over
	// the base opacity: alpha = opacity * (1 + OpacityBoost*scale).
	OpacityBoost = 1.2

	// EdgeHalfWidth is half the edge thickness in world units.
	EdgeHalfWidth = 0.75

	// MinPointSize is the smallest rasterized node, in pixels. GL clamps
	// point sizes to at least one pixel.
	MinPointSize = 1
)

// LODScale maps a degree to [0, 1]: sqrt(min(degree, DegreeCap) / DegreeCap).
// It is monotonically non-decreasing and constant above DegreeCap.
func LODScale(degree uint16) float32 {
	d := min(float32(degree), DegreeCap)
	return float32(math.Sqrt(float64(d / DegreeCap)))
}

// NodeSize returns the node diameter in world units,
// MinNodeSize + (MaxNodeSize-MinNodeSize)*LODScale.
func NodeSize(degree uint16) float32 {
	return MinNodeSize + (MaxNodeSize-MinNodeSize)*LODScale(degree)
}

// PointSize returns the rasterized point size in pixels at the given zoom,
// never below MinPointSize.
func PointSize(degree uint16, zoom float32) float32 {
	return max(NodeSize(degree)*zoom, MinPointSize)
}

// LODAlpha returns min(1, opacity*(1+OpacityBoost*LODScale(degree))).
func LODAlpha(opacity float32, degree uint16) float32 {
	return min(1, opacity*(1+OpacityBoost*LODScale(degree)))
}

// Visible reports whether a node passes the filter: low <= degree <= high.
func Visible(f graphview.DegreeFilter, a graphview.Attr) bool {
	return f.Contains(a.Degree())
}
