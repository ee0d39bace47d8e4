// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

// MaxDegree and MaxClass are the largest values a packed word can carry.
// Anything larger wraps silently when packed; snapshots reject it at ingestion.
const (
	MaxDegree = 0xFFFF
	MaxClass  = 0xFFFF
)

// Attr is a node's degree and class packed into one 32-bit word:
//
//	bits [0:16)  degree
//	bits [16:32) class
//
// The same word is written into every vertex or instance that refers to the
// node, so shaders can filter and color without adjacency lookups.
type Attr uint32

// PackAttr packs a degree and a class into an Attr.
func PackAttr(degree, class uint16) Attr {
	return Attr(uint32(class)<<16 | uint32(degree))
}

// Degree returns the low 16 bits.
func (a Attr) Degree() uint16 { return uint16(a) }

// Class returns the high 16 bits.
func (a Attr) Class() uint16 { return uint16(a >> 16) }

// Unpack is the exact inverse of PackAttr.
func (a Attr) Unpack() (degree, class uint16) {
	return a.Degree(), a.Class()
}

// DegreeFilter is an inclusive degree range packed like Attr:
//
//	bits [0:16)  low
//	bits [16:32) high
//
// A filter with low > high is empty and passes nothing. This is a valid
// state, not an error.
type DegreeFilter uint32

// AllDegrees passes every degree.
const AllDegrees = DegreeFilter(0xFFFF_0000)

// PackFilter packs an inclusive [low, high] range.
func PackFilter(low, high uint16) DegreeFilter {
	return DegreeFilter(uint32(high)<<16 | uint32(low))
}

// Low returns the inclusive lower bound.
func (f DegreeFilter) Low() uint16 { return uint16(f) }

// High returns the inclusive upper bound.
func (f DegreeFilter) High() uint16 { return uint16(f >> 16) }

// Unpack is the exact inverse of PackFilter.
func (f DegreeFilter) Unpack() (low, high uint16) {
	return f.Low(), f.High()
}

// IsEmpty reports whether the filter passes no degree at all.
func (f DegreeFilter) IsEmpty() bool {
	return f.Low() > f.High()
}

// Contains reports whether low <= degree <= high.
func (f DegreeFilter) Contains(degree uint16) bool {
	return f.Low() <= degree && degree <= f.High()
}
