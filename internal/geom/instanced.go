// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"encoding/binary"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/shade"
)

// NodeTemplate returns the node billboard template: a quad of side
// MaxNodeSize centered at the origin, with texture coordinates spanning
// [-1, 1]². The vertex shader scales it per instance to the node's point
// size.
func NodeTemplate() []byte {
	const half = shade.MaxNodeSize / 2
	buf := make([]byte, TemplateVertices*NodeTemplateStride)
	for i, c := range quadCorners {
		u := c[0]*2 - 1 // [0,1] -> [-1,1]
		v := c[1]
		off := i * NodeTemplateStride
		putF32(buf[off:], u*half)
		putF32(buf[off+4:], v*half)
		putF32(buf[off+8:], u)
		putF32(buf[off+12:], v)
	}
	return buf
}

// EdgeTemplate returns the edge template quad, x in [0, 1] along the edge and
// y in [-1, 1] across it.
func EdgeTemplate() []byte {
	buf := make([]byte, TemplateVertices*EdgeTemplateStride)
	for i, c := range quadCorners {
		putF32(buf[i*EdgeTemplateStride:], c[0])
		putF32(buf[i*EdgeTemplateStride+4:], c[1])
	}
	return buf
}

// NodeInstances builds one instance per node for the first n nodes of s.
func NodeInstances(s *graphview.Snapshot, n int) []byte {
	// Same record as a point vertex.
	return NodePoints(s, n)
}

// EdgeInstances builds one instance per edge carrying both endpoint
// positions and both packed attribute words.
func EdgeInstances(s *graphview.Snapshot, edges []graphview.Edge) []byte {
	buf := make([]byte, len(edges)*EdgeInstanceStride)
	for i, e := range edges {
		a, b := s.Node(int(e.A)), s.Node(int(e.B))
		off := i * EdgeInstanceStride
		putF32(buf[off:], a.X)
		putF32(buf[off+4:], a.Y)
		putF32(buf[off+8:], b.X)
		putF32(buf[off+12:], b.Y)
		binary.LittleEndian.PutUint32(buf[off+16:], uint32(s.Attr(int(e.A))))
		binary.LittleEndian.PutUint32(buf[off+20:], uint32(s.Attr(int(e.B))))
	}
	return buf
}
