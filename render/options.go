// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image/color"
	"log/slog"

	"github.com/gogpu/graphview"
)

// config holds the construction parameters of a Renderer.
type config struct {
	width, height int
	palette       *graphview.Palette
	camera        *graphview.Camera
	logger        *slog.Logger
	clear         color.NRGBA
}

func defaultConfig() config {
	return config{
		width:   800,
		height:  600,
		palette: graphview.DefaultPalette(1),
		clear:   color.NRGBA{A: 255},
	}
}

// Option configures a Renderer.
type Option func(*config)

// WithSize sets the output size in pixels.
func WithSize(width, height int) Option {
	return func(c *config) {
		c.width, c.height = width, height
	}
}

// WithPalette sets the initial class color table. The renderer keeps its
// own copy.
func WithPalette(p *graphview.Palette) Option {
	return func(c *config) {
		if p != nil {
			c.palette = p
		}
	}
}

// WithCamera sets the initial camera. The camera viewport is resized to the
// output size.
func WithCamera(cam graphview.Camera) Option {
	return func(c *config) {
		c.camera = &cam
	}
}

// WithLogger sets the logger of the renderer and its backend. Without it
// the package logger of graphview is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithClearColor sets the background color.
func WithClearColor(bg color.Color) Option {
	return func(c *config) {
		c.clear = color.NRGBAModel.Convert(bg).(color.NRGBA)
	}
}
