// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package points

import (
	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/shade"
)

// ClassCapacity is the number of entries in the color table.
const ClassCapacity = 1024

// frameUniforms is the uniform state of one draw call.
type frameUniforms struct {
	projection graphview.Mat4
	zoom       float32
	filter     graphview.DegreeFilter
	opacity    float32
	colors     *[ClassCapacity]uint32
	width      float32
	height     float32
}

// varyings are the vertex stage outputs: a clip-space position, the point
// size, and the flat color and alpha.
type varyings struct {
	clip    [4]float32
	size    float32
	r, g, b float32
	alpha   float32
}

// vertexStage is shared by the node and the edge pipeline. Culled vertices
// get a NaN position and -Inf alpha.
func vertexStage(x, y float32, attr graphview.Attr, u *frameUniforms) varyings {
	visible := shade.Visible(u.filter, attr)
	degree, class := attr.Unpack()

	px := shade.Select(shade.CullPosition(), x, visible)
	py := shade.Select(shade.CullPosition(), y, visible)
	r, g, b := graphview.Color(u.colors[class%ClassCapacity]).Floats()
	return varyings{
		clip:  u.projection.Transform(px, py, 0, 1),
		size:  shade.PointSize(degree, u.zoom),
		r:     r,
		g:     g,
		b:     b,
		alpha: shade.Select(shade.CullAlpha(), shade.LODAlpha(u.opacity, degree), visible),
	}
}

// clipped reports whether a vertex fails the clip test. Comparisons with NaN
// are false, so culled vertices always fail.
func clipped(v *varyings) bool {
	w := v.clip[3]
	return !(w > 0) || !(v.clip[0] == v.clip[0]) || !(v.clip[1] == v.clip[1])
}

// toWindow maps a clip-space position to pixel coordinates, origin top-left.
func toWindow(v *varyings, u *frameUniforms) (sx, sy float32) {
	w := v.clip[3]
	return (v.clip[0]/w + 1) * 0.5 * u.width, (1 - v.clip[1]/w) * 0.5 * u.height
}

// pointFragment shades one fragment of a point sprite at sprite coordinates
// (su, sv) in [-1, 1]².
func pointFragment(v *varyings, su, sv float32) (r, g, b, a float32, keep bool) {
	border, keep := shade.PointSprite(su, sv)
	if !keep {
		return 0, 0, 0, 0, false
	}
	r, g, b = v.r, v.g, v.b
	if border {
		r, g, b = r*shade.BorderDarken, g*shade.BorderDarken, b*shade.BorderDarken
	}
	return r, g, b, v.alpha, true
}
