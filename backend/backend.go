// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"image/color"

	"github.com/gogpu/graphview"
)

// Backend name constants.
const (
	// BackendPoints is the point and triangle pipeline rasterized on the CPU.
	BackendPoints = "points"
	// BackendInstanced is the instanced billboard pipeline on gogpu/wgpu.
	BackendInstanced = "instanced"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrCapacityExceeded is returned when a palette has more classes than
	// the backend's color table holds.
	ErrCapacityExceeded = errors.New("backend: color table capacity exceeded")
)

// RenderBackend draws node-link graphs. A backend owns the GPU-side copies of
// the graph streams and the class color table; the render orchestrator
// decides when each of them is uploaded.
//
// Backends are not safe for concurrent use. All methods are called from the
// render thread.
type RenderBackend interface {
	// Name returns the backend identifier (e.g. "points", "instanced").
	Name() string

	// Init acquires device resources. It must be called before any upload.
	Init() error

	// Close releases all backend resources. Safe to call more than once.
	Close()

	// ClassCapacity returns the largest palette the color table can hold,
	// or 0 when it is unbounded.
	ClassCapacity() int

	// UploadGraph replaces the node and edge streams with ones built from s.
	// The previous streams stay valid until the upload has completed.
	UploadGraph(s *graphview.Snapshot) error

	// UploadPalette rewrites the class color table. No other buffer is
	// touched.
	UploadPalette(p *graphview.Palette) error

	// Draw renders one frame into target: clear, edges, then nodes.
	Draw(target *graphview.Pixmap, u Uniforms) error

	// Stats returns buffer write and draw counters.
	Stats() Stats
}

// Uniforms are the per-frame values shared by every primitive of a draw.
type Uniforms struct {
	// Projection maps world coordinates to clip space.
	Projection graphview.Mat4

	// Zoom is the camera scale in pixels per world unit.
	Zoom float32

	// NodeFilter and EdgeFilter are the degree ranges that pass culling.
	NodeFilter graphview.DegreeFilter
	EdgeFilter graphview.DegreeFilter

	// NodeOpacity and EdgeOpacity are the base opacities before the
	// level-of-detail boost.
	NodeOpacity float32
	EdgeOpacity float32

	ShowNodes bool
	ShowEdges bool

	// Clear is the background color.
	Clear color.NRGBA
}

// DefaultUniforms returns uniforms that show everything at half opacity.
func DefaultUniforms(projection graphview.Mat4, zoom float32) Uniforms {
	return Uniforms{
		Projection:  projection,
		Zoom:        zoom,
		NodeFilter:  graphview.AllDegrees,
		EdgeFilter:  graphview.AllDegrees,
		NodeOpacity: 0.5,
		EdgeOpacity: 0.5,
		ShowNodes:   true,
		ShowEdges:   true,
		Clear:       color.NRGBA{A: 255},
	}
}

// Stats counts buffer writes and draws since Init.
type Stats struct {
	NodeWrites    uint64 // node stream writes (one per batch)
	EdgeWrites    uint64 // edge stream writes (one per batch)
	PaletteWrites uint64 // color table writes
	UniformWrites uint64 // uniform block writes
	DrawCalls     uint64
	Frames        uint64

	// Resident stream sizes.
	Nodes     int
	Edges     int
	NodeBytes int
	EdgeBytes int
}
