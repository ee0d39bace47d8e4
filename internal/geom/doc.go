// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package geom builds the vertex and instance streams uploaded by the render
// backends.
//
// Every stream carries positions and packed (degree, class) words only.
// Colors, sizes and visibility are resolved in the shader stages, so a stream
// is rebuilt only when a new snapshot arrives.
//
// All records are little-endian and tightly packed:
//
//	point vertex     position vec2<f32>, packed_attr u32                  12 bytes
//	node template    position vec2<f32>, tex_coord vec2<f32>              16 bytes
//	node instance    instance_pos vec2<f32>, instance_packed_attr u32     12 bytes
//	edge template    local vec2<f32>                                       8 bytes
//	edge instance    pos_a vec2<f32>, pos_b vec2<f32>, attr_a u32, attr_b u32  24 bytes
package geom
