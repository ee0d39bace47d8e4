// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/graphview"
)

// Record strides in bytes.
const (
	PointVertexStride  = 12
	NodeTemplateStride = 16
	NodeInstanceStride = 12
	EdgeTemplateStride = 8
	EdgeInstanceStride = 24
)

// TemplateVertices is the vertex count of both quad templates (two
// triangles, no index buffer).
const TemplateVertices = 6

// VerticesPerEdge is the point-pipeline vertex count of one edge: two half
// quads of TemplateVertices each.
const VerticesPerEdge = 2 * TemplateVertices

// quadCorners lists the six corners of a unit quad in [0,1]x[-1,1], as two
// counter-clockwise triangles. Both the edge template and the half-edge quads
// are built from it.
var quadCorners = [TemplateVertices][2]float32{
	{0, -1}, {1, -1}, {1, 1},
	{0, -1}, {1, 1}, {0, 1},
}

func putF32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

func getF32(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

// writePointVertex writes one 12-byte position+attr record. Node instances
// share the layout.
func writePointVertex(buf []byte, x, y float32, attr graphview.Attr) {
	putF32(buf[0:4], x)
	putF32(buf[4:8], y)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(attr))
}

// ReadPointVertex decodes vertex i of a point-pipeline stream or node
// instance stream.
func ReadPointVertex(buf []byte, i int) (x, y float32, attr graphview.Attr) {
	off := i * PointVertexStride
	return getF32(buf[off:]), getF32(buf[off+4:]), graphview.Attr(binary.LittleEndian.Uint32(buf[off+8:]))
}
