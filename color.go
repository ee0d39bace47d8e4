// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an opaque RGB color packed into the low 24 bits of a word:
//
//	bits [16:24) red
//	bits [8:16)  green
//	bits [0:8)   blue
//
// This is the element format of the class color table in every backend.
type Color uint32

// RGB packs 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// R returns the red component.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c) }

// Floats returns the components normalized to [0, 1], the way a shader
// unpacks a table entry.
func (c Color) Floats() (r, g, b float32) {
	return float32(c.R()) / 255, float32(c.G()) / 255, float32(c.B()) / 255
}

// NRGBA converts c to a standard library color with the given alpha.
func (c Color) NRGBA(alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: alpha}
}

// Darken scales every component by f, clamped to [0, 1].
func (c Color) Darken(f float64) Color {
	f = math.Max(0, math.Min(1, f))
	return RGB(
		uint8(float64(c.R())*f),
		uint8(float64(c.G())*f),
		uint8(float64(c.B())*f),
	)
}

// String returns the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R(), c.G(), c.B())
}

// FromColor converts a standard color.Color, dropping alpha.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// ParseColor parses "#rgb", "#rrggbb" (leading '#' optional) or an SVG
// color name such as "steelblue".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromColor(named), nil
	}
	hex := strings.TrimPrefix(s, "#")

	var r, g, b uint32
	switch len(hex) {
	case 3:
		if !parseHex(hex[0:1], &r) || !parseHex(hex[1:2], &g) || !parseHex(hex[2:3], &b) {
			return 0, fmt.Errorf("parse color %q: invalid hex digit", s)
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if !parseHex(hex[0:2], &r) || !parseHex(hex[2:4], &g) || !parseHex(hex[4:6], &b) {
			return 0, fmt.Errorf("parse color %q: invalid hex digit", s)
		}
	default:
		return 0, fmt.Errorf("parse color %q: unknown name or format", s)
	}
	return RGB(uint8(r), uint8(g), uint8(b)), nil
}

// parseHex accumulates hex digits into val. It reports false on the first
// non-hex character.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// HSL creates a color from HSL values.
// h is hue [0, 360), s is saturation [0, 1], l is lightness [0, 1].
func HSL(h, s, l float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 1.0/6:
		r, g, b = c, x, 0
	case h < 2.0/6:
		r, g, b = x, c, 0
	case h < 3.0/6:
		r, g, b = 0, c, x
	case h < 4.0/6:
		r, g, b = 0, x, c
	case h < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return RGB(to8(r+m), to8(g+m), to8(b+m))
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
