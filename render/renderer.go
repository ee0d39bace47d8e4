// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"sync"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
)

// Renderer drives a backend: it hands snapshots over, keeps the color table
// and the uniforms current and draws one frame per Frame call.
type Renderer struct {
	b   backend.RenderBackend
	log *slog.Logger

	// mu guards pending and classes, the only state Submit touches.
	mu      sync.Mutex
	pending *graphview.Snapshot
	classes int

	current *graphview.Snapshot

	palette         *graphview.Palette
	paletteUploaded uint64 // palette version on the device, 0 = never
	paletteReplaced bool

	camera      graphview.Camera
	target      *graphview.Pixmap
	filter      graphview.DegreeFilter
	filterNodes bool
	nodeOpacity float32
	edgeOpacity float32
	showNodes   bool
	showEdges   bool
	clear       color.NRGBA

	closed bool
}

// New initializes b and returns a renderer drawing with it. The renderer
// owns b from now on and closes it in Close.
func New(b backend.RenderBackend, opts ...Option) (*Renderer, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil backend", graphview.ErrRendererUnavailable)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger
	if log == nil {
		log = graphview.Logger()
	}
	if capacity := b.ClassCapacity(); capacity > 0 && cfg.palette.Len() > capacity {
		return nil, fmt.Errorf("%w: palette has %d classes, %s backend holds %d",
			graphview.ErrClassOutOfRange, cfg.palette.Len(), b.Name(), capacity)
	}
	if cfg.logger != nil {
		graphview.PropagateLogger(b, cfg.logger)
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("%w: init %s backend: %w", graphview.ErrRendererUnavailable, b.Name(), err)
	}

	width, height := max(cfg.width, 1), max(cfg.height, 1)
	camera := graphview.NewCamera(0, 0, width, height)
	if cfg.camera != nil {
		camera = *cfg.camera
		camera.Resize(width, height)
	}

	// Filter, opacities and toggles start at the backend defaults.
	d := backend.DefaultUniforms(camera.Projection(), camera.Zoom())
	r := &Renderer{
		b:           b,
		log:         log,
		palette:     cfg.palette.Clone(),
		classes:     cfg.palette.Len(),
		camera:      camera,
		target:      graphview.NewPixmap(width, height),
		filter:      d.EdgeFilter,
		nodeOpacity: d.NodeOpacity,
		edgeOpacity: d.EdgeOpacity,
		showNodes:   d.ShowNodes,
		showEdges:   d.ShowEdges,
		clear:       cfg.clear,
	}
	log.Info("render: renderer created", "backend", b.Name(), "width", width, "height", height,
		"classes", r.palette.Len())
	return r, nil
}

// Backend returns the backend in use.
func (r *Renderer) Backend() backend.RenderBackend { return r.b }

// Submit hands a new snapshot to the renderer. It is safe to call from any
// goroutine. The snapshot is uploaded by the next Frame; a snapshot
// submitted before that replaces it.
func (r *Renderer) Submit(s *graphview.Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", graphview.ErrInvalidSnapshot)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.Classes() > r.classes {
		return fmt.Errorf("%w: snapshot uses %d classes, palette has %d",
			graphview.ErrClassOutOfRange, s.Classes(), r.classes)
	}
	if r.pending != nil {
		r.log.Debug("render: pending snapshot replaced before upload",
			"nodes", r.pending.NodeCount(), "edges", r.pending.EdgeCount())
	}
	r.pending = s
	return nil
}

// latest returns the pending snapshot if there is one, else the current.
func (r *Renderer) latest() *graphview.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		return r.pending
	}
	return r.current
}

// SetDegreeFilter sets the inclusive degree range shown. Edges are always
// filtered; nodes only when SetFilterNodes(true).
func (r *Renderer) SetDegreeFilter(f graphview.DegreeFilter) { r.filter = f }

// DegreeFilter returns the degree range.
func (r *Renderer) DegreeFilter() graphview.DegreeFilter { return r.filter }

// SetFilterNodes enables degree filtering of nodes.
func (r *Renderer) SetFilterNodes(on bool) { r.filterNodes = on }

// SetNodeOpacity sets the base node opacity, clamped to [0, 1].
func (r *Renderer) SetNodeOpacity(a float32) { r.nodeOpacity = clamp01(a) }

// SetEdgeOpacity sets the base edge opacity, clamped to [0, 1].
func (r *Renderer) SetEdgeOpacity(a float32) { r.edgeOpacity = clamp01(a) }

// ShowNodes toggles the node draw.
func (r *Renderer) ShowNodes(on bool) { r.showNodes = on }

// ShowEdges toggles the edge draw.
func (r *Renderer) ShowEdges(on bool) { r.showEdges = on }

// SetClearColor sets the background color.
func (r *Renderer) SetClearColor(c color.NRGBA) { r.clear = c }

func clamp01(a float32) float32 {
	if !(a > 0) {
		return 0
	}
	return min(a, 1)
}

// Camera returns a pointer to the camera so hosts can pan and zoom it in
// place.
func (r *Renderer) Camera() *graphview.Camera { return &r.camera }

// SetCamera replaces the camera. Its viewport is resized to the output.
func (r *Renderer) SetCamera(c graphview.Camera) {
	c.Resize(r.target.Width(), r.target.Height())
	r.camera = c
}

// FitCamera centers the camera on the latest snapshot.
func (r *Renderer) FitCamera(margin float32) {
	s := r.latest()
	if s == nil {
		return
	}
	minX, minY, maxX, maxY := s.Bounds()
	r.camera.Fit(minX, minY, maxX, maxY, margin)
}

// Resize changes the output size.
func (r *Renderer) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if width == r.target.Width() && height == r.target.Height() {
		return
	}
	r.target = graphview.NewPixmap(width, height)
	r.camera.Resize(width, height)
}

// Size returns the output size.
func (r *Renderer) Size() (width, height int) {
	return r.target.Width(), r.target.Height()
}

// Palette returns a copy of the class color table.
func (r *Renderer) Palette() *graphview.Palette { return r.palette.Clone() }

// SetClassColor changes the color of one class. Only the color table is
// uploaded on the next frame.
func (r *Renderer) SetClassColor(class uint16, c graphview.Color) error {
	return r.palette.Set(class, c)
}

// SetPalette replaces the class color table. It fails when the backend
// cannot hold the palette or when a known snapshot uses more classes.
func (r *Renderer) SetPalette(p *graphview.Palette) error {
	if capacity := r.b.ClassCapacity(); capacity > 0 && p.Len() > capacity {
		return fmt.Errorf("%w: palette has %d classes, %s backend holds %d",
			graphview.ErrClassOutOfRange, p.Len(), r.b.Name(), capacity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range []*graphview.Snapshot{r.current, r.pending} {
		if s != nil && s.Classes() > p.Len() {
			return fmt.Errorf("%w: snapshot uses %d classes, palette has %d",
				graphview.ErrClassOutOfRange, s.Classes(), p.Len())
		}
	}
	r.palette = p.Clone()
	r.classes = p.Len()
	r.paletteReplaced = true
	return nil
}

// nodeFilter returns the filter applied to nodes.
func (r *Renderer) nodeFilter() graphview.DegreeFilter {
	if r.filterNodes {
		return r.filter
	}
	return graphview.AllDegrees
}

// Uniforms returns the per-frame values the next Frame will draw with.
func (r *Renderer) Uniforms() backend.Uniforms {
	return backend.Uniforms{
		Projection:  r.camera.Projection(),
		Zoom:        r.camera.Zoom(),
		NodeFilter:  r.nodeFilter(),
		EdgeFilter:  r.filter,
		NodeOpacity: r.nodeOpacity,
		EdgeOpacity: r.edgeOpacity,
		ShowNodes:   r.showNodes,
		ShowEdges:   r.showEdges,
		Clear:       r.clear,
	}
}

// Frame uploads whatever changed since the previous frame and draws. The
// returned pixmap is reused by the next Frame.
//
// Backend failures are wrapped in graphview.ErrRendererUnavailable; the
// frame is lost and the host decides whether to recreate the renderer.
func (r *Renderer) Frame(ctx context.Context) (*graphview.Pixmap, error) {
	if r.closed {
		return nil, fmt.Errorf("%w: renderer closed", graphview.ErrRendererUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.paletteReplaced || r.palette.Version() != r.paletteUploaded {
		if err := r.b.UploadPalette(r.palette); err != nil {
			return nil, fmt.Errorf("%w: upload palette: %w", graphview.ErrRendererUnavailable, err)
		}
		r.paletteUploaded = r.palette.Version()
		r.paletteReplaced = false
	}

	r.mu.Lock()
	next := r.pending
	r.pending = nil
	r.mu.Unlock()
	if next != nil {
		if err := r.b.UploadGraph(next); err != nil {
			return nil, fmt.Errorf("%w: upload graph: %w", graphview.ErrRendererUnavailable, err)
		}
		r.mu.Lock()
		r.current = next
		r.mu.Unlock()
		r.log.Debug("render: snapshot uploaded", "nodes", next.NodeCount(), "edges", next.EdgeCount(),
			"max_degree", next.MaxDegree())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.b.Draw(r.target, r.Uniforms()); err != nil {
		return nil, fmt.Errorf("%w: draw: %w", graphview.ErrRendererUnavailable, err)
	}
	return r.target, nil
}

// VisibleNodes returns how many nodes of the latest snapshot pass the
// current node filter.
func (r *Renderer) VisibleNodes() uint64 {
	s := r.latest()
	if s == nil || !r.showNodes {
		return 0
	}
	return s.Histogram().Visible(r.nodeFilter())
}

// MaxDegree returns the largest degree of the latest snapshot, the upper
// bound of a degree filter control.
func (r *Renderer) MaxDegree() uint16 {
	s := r.latest()
	if s == nil {
		return 0
	}
	return s.MaxDegree()
}

// Stats returns the backend counters.
func (r *Renderer) Stats() backend.Stats { return r.b.Stats() }

// Close releases the backend. Safe to call more than once.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.b.Close()
	r.mu.Lock()
	r.pending, r.current = nil, nil
	r.mu.Unlock()
}
