// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package instanced

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/shade"
)

// uniformSize is the size of the WGSL Uniforms struct:
//
//	projection         mat4x4<f32>  offset  0
//	zoom               f32          offset 64
//	opacity            f32          offset 68
//	degree_filter      u32          offset 72
//	cull_position_bits u32          offset 76
//	cull_alpha_bits    u32          offset 80
//	class_count        u32          offset 84
//	(struct padding)                offset 88
const uniformSize = 96

// uniformStride separates the node and edge blocks in the shared uniform
// buffer; bind group offsets must be multiples of 256.
const uniformStride = 256

// drawUniforms are the values of one uniform block.
type drawUniforms struct {
	projection graphview.Mat4
	zoom       float32
	opacity    float32
	filter     graphview.DegreeFilter
	classCount uint32
}

// put encodes the block into buf[:uniformSize].
func (d *drawUniforms) put(buf []byte) {
	d.projection.PutBytes(buf[0:64])
	binary.LittleEndian.PutUint32(buf[64:], math.Float32bits(d.zoom))
	binary.LittleEndian.PutUint32(buf[68:], math.Float32bits(d.opacity))
	binary.LittleEndian.PutUint32(buf[72:], uint32(d.filter))
	binary.LittleEndian.PutUint32(buf[76:], shade.CullPositionBits)
	binary.LittleEndian.PutUint32(buf[80:], shade.CullAlphaBits)
	binary.LittleEndian.PutUint32(buf[84:], max(d.classCount, 1))
}

// makeUniformData encodes the edge block at offset 0 and the node block at
// uniformStride.
func makeUniformData(edge, node *drawUniforms) []byte {
	buf := make([]byte, uniformStride+uniformSize)
	edge.put(buf[0:])
	node.put(buf[uniformStride:])
	return buf
}

// paletteBytes encodes the color table words.
func paletteBytes(words []uint32) []byte {
	buf := make([]byte, max(len(words), 1)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}
