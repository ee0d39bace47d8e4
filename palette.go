// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"fmt"
	"math"
)

// Palette is the class color table: entry i is the display color of class i.
//
// Vertex and instance data never carry colors, only class ids, so changing a
// class color rewrites one table entry and leaves every geometry buffer
// untouched. The palette length is the number of classes a snapshot may use.
//
// Palette is not safe for concurrent use; it belongs to the render thread.
type Palette struct {
	colors  []Color
	version uint64
}

// NewPalette returns a palette holding a copy of colors.
func NewPalette(colors ...Color) *Palette {
	return &Palette{colors: append([]Color(nil), colors...), version: 1}
}

// DefaultPalette spreads n colors around the hue wheel, stepping by the golden
// angle so that neighbouring class ids get distinct hues.
func DefaultPalette(n int) *Palette {
	const goldenAngle = 180 * (3 - 2.23606797749979) // 137.5°
	colors := make([]Color, n)
	for i := range colors {
		light := 0.55
		if i%2 == 1 {
			light = 0.45
		}
		colors[i] = HSL(math.Mod(float64(i)*goldenAngle, 360), 0.65, light)
	}
	return NewPalette(colors...)
}

// Len returns the number of classes.
func (p *Palette) Len() int { return len(p.colors) }

// At returns the color of class.
func (p *Palette) At(class uint16) Color { return p.colors[class] }

// Set changes the color of one class.
func (p *Palette) Set(class uint16, c Color) error {
	if int(class) >= len(p.colors) {
		return fmt.Errorf("%w: class %d, palette has %d entries", ErrClassOutOfRange, class, len(p.colors))
	}
	if p.colors[class] == c {
		return nil
	}
	p.colors[class] = c
	p.version++
	return nil
}

// Version increases every time an entry changes. Backends compare it with
// the version they last uploaded.
func (p *Palette) Version() uint64 { return p.version }

// Words returns the table as packed 32-bit words, ready for upload.
func (p *Palette) Words() []uint32 {
	words := make([]uint32, len(p.colors))
	for i, c := range p.colors {
		words[i] = uint32(c)
	}
	return words
}

// Clone returns an independent copy with the same version.
func (p *Palette) Clone() *Palette {
	return &Palette{colors: append([]Color(nil), p.colors...), version: p.version}
}
