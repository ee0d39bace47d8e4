// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"errors"
	"testing"
)

func TestColorComponents(t *testing.T) {
	c := RGB(0x12, 0x34, 0x56)
	if uint32(c) != 0x123456 {
		t.Fatalf("RGB = %#06x, want 0x123456", uint32(c))
	}
	if c.R() != 0x12 || c.G() != 0x34 || c.B() != 0x56 {
		t.Errorf("components = %x %x %x", c.R(), c.G(), c.B())
	}
	if c.String() != "#123456" {
		t.Errorf("String() = %q", c.String())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", RGB(255, 0, 0)},
		{"00ff00", RGB(0, 255, 0)},
		{"#abc", RGB(0xaa, 0xbb, 0xcc)},
		{"SteelBlue", RGB(70, 130, 180)},
		{" black ", RGB(0, 0, 0)},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#gggggg", "notacolor", "#1234567"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", in)
		}
	}
}

func TestColorDarken(t *testing.T) {
	c := RGB(200, 100, 50).Darken(0.5)
	if c != RGB(100, 50, 25) {
		t.Errorf("Darken(0.5) = %v", c)
	}
	if RGB(10, 20, 30).Darken(2) != RGB(10, 20, 30) {
		t.Error("Darken factor above 1 must clamp")
	}
}

func TestHSLPrimaries(t *testing.T) {
	tests := []struct {
		h    float64
		want Color
	}{
		{0, RGB(255, 0, 0)},
		{120, RGB(0, 255, 0)},
		{240, RGB(0, 0, 255)},
		{360, RGB(255, 0, 0)},
		{-120, RGB(0, 0, 255)},
	}
	for _, tt := range tests {
		if got := HSL(tt.h, 1, 0.5); got != tt.want {
			t.Errorf("HSL(%v, 1, 0.5) = %v, want %v", tt.h, got, tt.want)
		}
	}
}

func TestPaletteSetBumpsVersion(t *testing.T) {
	p := NewPalette(RGB(1, 2, 3), RGB(4, 5, 6))
	v := p.Version()

	if err := p.Set(1, RGB(4, 5, 6)); err != nil {
		t.Fatal(err)
	}
	if p.Version() != v {
		t.Error("setting the same color must not change the version")
	}

	if err := p.Set(1, RGB(9, 9, 9)); err != nil {
		t.Fatal(err)
	}
	if p.Version() == v {
		t.Error("version did not change after recolor")
	}
	if words := p.Words(); words[1] != 0x090909 || words[0] != 0x010203 {
		t.Errorf("Words() = %#x", words)
	}
}

func TestPaletteSetOutOfRange(t *testing.T) {
	p := NewPalette(RGB(1, 2, 3))
	err := p.Set(1, RGB(0, 0, 0))
	if !errors.Is(err, ErrClassOutOfRange) {
		t.Fatalf("Set(1) error = %v, want ErrClassOutOfRange", err)
	}
}

func TestPaletteCloneIsIndependent(t *testing.T) {
	p := DefaultPalette(4)
	c := p.Clone()
	if err := c.Set(0, RGB(1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if p.At(0) == RGB(1, 1, 1) {
		t.Error("Clone shares storage with the original")
	}
}

func TestDefaultPaletteDistinct(t *testing.T) {
	p := DefaultPalette(16)
	if p.Len() != 16 {
		t.Fatalf("Len() = %d", p.Len())
	}
	seen := map[Color]bool{}
	for i := 0; i < p.Len(); i++ {
		c := p.At(uint16(i))
		if seen[c] {
			t.Errorf("class %d repeats color %v", i, c)
		}
		seen[c] = true
	}
}

func TestColorFloats(t *testing.T) {
	r, g, b := RGB(255, 51, 0).Floats()
	if r != 1 || g != 0.2 || b != 0 {
		t.Errorf("Floats() = %v %v %v, want 1 0.2 0", r, g, b)
	}
}
