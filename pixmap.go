// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Pixmap is an offscreen RGBA8 color target, the CPU-visible image of one
// rendered frame. Channels are stored straight (not premultiplied), in the
// same byte order as an RGBA8Unorm texture read back from the GPU.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // 4 bytes per pixel, row-major, no padding
}

// NewPixmap creates a transparent black pixmap.
func NewPixmap(width, height int) *Pixmap {
	width, height = max(width, 1), max(height, 1)
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height in pixels.
func (p *Pixmap) Height() int { return p.height }

// Stride returns the number of bytes per row.
func (p *Pixmap) Stride() int { return p.width * 4 }

// Data returns the raw pixel bytes. Backends write frames directly into it.
func (p *Pixmap) Data() []uint8 { return p.data }

// Clear fills every pixel with c.
func (p *Pixmap) Clear(c color.NRGBA) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
		p.data[i+3] = c.A
	}
}

// Pixel returns the stored color of one pixel, or transparent black outside
// the pixmap.
func (p *Pixmap) Pixel(x, y int) color.NRGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	return color.NRGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// SetPixel stores c at (x, y). Out-of-range coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c color.NRGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = c.A
}

// CopyFrom replaces the contents with rows read from a GPU readback buffer
// whose rows are stride bytes apart.
func (p *Pixmap) CopyFrom(src []byte, stride int) error {
	row := p.Stride()
	if stride < row || len(src) < stride*(p.height-1)+row {
		return fmt.Errorf("graphview: readback of %d bytes (stride %d) too small for %dx%d", len(src), stride, p.width, p.height)
	}
	for y := 0; y < p.height; y++ {
		copy(p.data[y*row:(y+1)*row], src[y*stride:y*stride+row])
	}
	return nil
}

// ToImage returns a copy of the pixmap as an image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.ToImage()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color { return p.Pixel(x, y) }

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle { return image.Rect(0, 0, p.width, p.height) }

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model { return color.NRGBAModel }
