// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"encoding/binary"
	"math"
)

// Mat4 is a 4x4 float32 matrix stored column-major, the memory layout of a
// WGSL mat4x4<f32> or a GLSL mat4 uniform:
//
//	| m[0] m[4] m[8]  m[12] |
//	| m[1] m[5] m[9]  m[13] |
//	| m[2] m[6] m[10] m[14] |
//	| m[3] m[7] m[11] m[15] |
type Mat4 [16]float32

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element in the given row and column.
func (m Mat4) At(row, col int) float32 { return m[col*4+row] }

// Ortho returns an orthographic projection mapping the box
// [left,right]×[bottom,top]×[near,far] to clip space.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	return Mat4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

// Translate4 returns a translation matrix.
func Translate4(x, y, z float32) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale4 returns a uniform scaling matrix. The z axis is scaled too, which is
// what makes -projection[2][2] equal the camera zoom under an ortho
// projection with near=-1, far=1.
func Scale4(s float32) Mat4 {
	m := Identity4()
	m[0], m[5], m[10] = s, s, s
	return m
}

// RotateZ4 returns a rotation about the z axis (angle in radians).
func RotateZ4(angle float32) Mat4 {
	sin, cos := math.Sincos(float64(angle))
	m := Identity4()
	m[0], m[1] = float32(cos), float32(sin)
	m[4], m[5] = float32(-sin), float32(cos)
	return m
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// Transform returns m * (x, y, z, w).
func (m Mat4) Transform(x, y, z, w float32) [4]float32 {
	return [4]float32{
		m[0]*x + m[4]*y + m[8]*z + m[12]*w,
		m[1]*x + m[5]*y + m[9]*z + m[13]*w,
		m[2]*x + m[6]*y + m[10]*z + m[14]*w,
		m[3]*x + m[7]*y + m[11]*z + m[15]*w,
	}
}

// PutBytes writes the matrix as 64 little-endian bytes.
func (m Mat4) PutBytes(buf []byte) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}
