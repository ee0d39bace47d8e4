// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shade

// Disc mask constants, in units of the disc radius.
const (
	BorderInner  = 0.7 // border darkening starts
	BorderOuter  = 0.8 // border fully dark
	RimStart     = 0.9 // edge antialiasing fade starts
	BorderDarken = 0.5 // border color is the class color times this
)

// PointSprite is the banded disc used by the point pipeline: discard outside
// the unit circle, a darkened ring beyond BorderOuter, the full color inside.
func PointSprite(u, v float32) (border, keep bool) {
	d2 := u*u + v*v
	if !(d2 <= 1) {
		return false, false
	}
	return d2 > BorderOuter*BorderOuter, true
}
