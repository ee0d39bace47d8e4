// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/shade"
)

// NodePoints builds the point-pipeline node stream for the first n nodes of
// s: one vertex per node, drawn as a point sprite.
func NodePoints(s *graphview.Snapshot, n int) []byte {
	buf := make([]byte, n*PointVertexStride)
	for i := 0; i < n; i++ {
		node := s.Node(i)
		writePointVertex(buf[i*PointVertexStride:], node.X, node.Y, s.Attr(i))
	}
	return buf
}

// EdgeHalfQuads builds the point-pipeline edge stream. A fixed-function
// pipeline cannot expand lines in a shader, so each edge is pre-expanded into
// two quads split at the midpoint: the first half carries the attributes of
// endpoint A, the second those of endpoint B. Every vertex of a half carries
// the same attribute word, so flat interpolation does not depend on the
// provoking vertex.
//
// Corner positions use the same mapping as the instanced edge shader.
func EdgeHalfQuads(s *graphview.Snapshot, edges []graphview.Edge) []byte {
	buf := make([]byte, len(edges)*VerticesPerEdge*PointVertexStride)
	off := 0
	for _, e := range edges {
		a, b := s.Node(int(e.A)), s.Node(int(e.B))
		attrs := [2]graphview.Attr{s.Attr(int(e.A)), s.Attr(int(e.B))}
		for half := 0; half < 2; half++ {
			x0 := float32(half) * 0.5
			attr := attrs[shade.EdgeEndpoint(x0+0.25)]
			for _, c := range quadCorners {
				x := x0 + c[0]*0.5
				px, py := shade.EdgeWorldPosition(a.X, a.Y, b.X, b.Y, x, c[1], shade.EdgeHalfWidth)
				writePointVertex(buf[off:], px, py, attr)
				off += PointVertexStride
			}
		}
	}
	return buf
}
