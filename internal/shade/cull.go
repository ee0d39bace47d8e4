// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shade

import "math"

// Cull sentinels. A primitive that fails the degree filter keeps running
// through the pipeline, but its position becomes NaN, which every clip test
// rejects, and its alpha becomes -Inf, which clamps to zero coverage. No
// backend branches on visibility.
const (
	// CullPositionBits is the bit pattern of the quiet NaN written to the
	// position of a culled primitive.
	CullPositionBits uint32 = 0x7FC0_0000

	// CullAlphaBits is the bit pattern of -Inf written to the alpha of a
	// culled primitive.
	CullAlphaBits uint32 = 0xFF80_0000
)

// CullPosition returns the culled position component.
func CullPosition() float32 { return math.Float32frombits(CullPositionBits) }

// CullAlpha returns the culled alpha.
func CullAlpha() float32 { return math.Float32frombits(CullAlphaBits) }

// Select mirrors the WGSL builtin: it returns t when cond holds, f otherwise.
func Select[T any](f, t T, cond bool) T {
	if cond {
		return t
	}
	return f
}

// Clamp01 clamps v to [0, 1]. NaN maps to 0, matching how a fixed-point color
// attachment stores it.
func Clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
