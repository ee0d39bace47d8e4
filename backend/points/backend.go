// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package points

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
	"github.com/gogpu/graphview/internal/geom"
	"github.com/gogpu/graphview/internal/parallel"
)

func init() {
	backend.Register(backend.BackendPoints, func() backend.RenderBackend {
		return New()
	})
}

// Backend is the point/triangle pipeline. Create it with New.
type Backend struct {
	initialized bool
	log         *slog.Logger

	workers        int
	maxVertexBytes int
	pool           *parallel.WorkerPool

	// Vertex buffers. A new snapshot replaces them only after its streams
	// have been fully written.
	nodeBuf []byte
	edgeBuf []byte

	colors [ClassCapacity]uint32

	stats backend.Stats
}

// Option configures a Backend.
type Option func(*Backend)

// WithWorkers sets the number of rasterizer goroutines. 0 or less uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(b *Backend) { b.workers = n }
}

// WithMaxVertexBytes sets the vertex memory budget per snapshot. Streams
// beyond it are truncated, nodes first. 0 or less disables the limit.
func WithMaxVertexBytes(n int) Option {
	return func(b *Backend) { b.maxVertexBytes = n }
}

// New creates an uninitialized point backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		log:            graphview.Logger(),
		maxVertexBytes: geom.DefaultMaxVertexBytes,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements backend.RenderBackend.
func (b *Backend) Name() string { return backend.BackendPoints }

// SetLogger replaces the backend logger.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = graphview.NopLogger()
	}
	b.log = l
}

// Init starts the rasterizer workers.
func (b *Backend) Init() error {
	if b.initialized {
		return nil
	}
	b.pool = parallel.NewWorkerPool(b.workers)
	b.initialized = true
	b.log.Debug("points: initialized", "workers", b.pool.Workers())
	return nil
}

// Close stops the workers and drops all buffers.
func (b *Backend) Close() {
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
	b.nodeBuf, b.edgeBuf = nil, nil
	b.initialized = false
}

// ClassCapacity implements backend.RenderBackend.
func (b *Backend) ClassCapacity() int { return ClassCapacity }

// UploadGraph builds and writes the node point stream and the half-edge
// quad stream for s. Edges are ordered longest first.
func (b *Backend) UploadGraph(s *graphview.Snapshot) error {
	if !b.initialized {
		return backend.ErrNotInitialized
	}
	edges := geom.SortEdgesLongestFirst(s)
	budget := geom.PlanBudget(s.NodeCount(), len(edges),
		geom.PointVertexStride, geom.VerticesPerEdge*geom.PointVertexStride, b.maxVertexBytes)
	if budget.Truncated {
		b.log.Warn("points: vertex budget exceeded, truncating",
			"nodes", s.NodeCount(), "edges", len(edges),
			"kept_nodes", budget.Nodes, "kept_edges", budget.Edges,
			"budget_bytes", b.maxVertexBytes)
	}

	nodes := geom.NodePoints(s, budget.Nodes)
	halves := geom.EdgeHalfQuads(s, edges[:budget.Edges])

	nodeBuf, writes := b.writeStream(nodes)
	b.stats.NodeWrites += writes
	edgeBuf, writes := b.writeStream(halves)
	b.stats.EdgeWrites += writes

	b.nodeBuf, b.edgeBuf = nodeBuf, edgeBuf
	b.stats.Nodes, b.stats.Edges = budget.Nodes, budget.Edges
	b.stats.NodeBytes, b.stats.EdgeBytes = len(nodeBuf), len(edgeBuf)
	b.log.Debug("points: graph uploaded", "nodes", budget.Nodes, "edges", budget.Edges,
		"node_bytes", len(nodeBuf), "edge_bytes", len(edgeBuf))
	return nil
}

// writeStream copies a stream into a fresh buffer in batches and returns
// the buffer with the number of writes.
func (b *Backend) writeStream(stream []byte) ([]byte, uint64) {
	buf := make([]byte, len(stream))
	var writes uint64
	for _, batch := range geom.Batches(len(stream)/geom.PointVertexStride, geom.BatchVertices) {
		lo := batch.First * geom.PointVertexStride
		hi := lo + batch.Count*geom.PointVertexStride
		copy(buf[lo:hi], stream[lo:hi])
		writes++
	}
	return buf, writes
}

// UploadPalette writes the color table. Entries past the palette length are
// left as they were.
func (b *Backend) UploadPalette(p *graphview.Palette) error {
	if !b.initialized {
		return backend.ErrNotInitialized
	}
	if p.Len() > ClassCapacity {
		return fmt.Errorf("%w: %d classes, table holds %d: %w",
			backend.ErrCapacityExceeded, p.Len(), ClassCapacity, graphview.ErrClassOutOfRange)
	}
	copy(b.colors[:], p.Words())
	b.stats.PaletteWrites++
	return nil
}

// Draw clears target and draws edges, then nodes.
func (b *Backend) Draw(target *graphview.Pixmap, u backend.Uniforms) error {
	if !b.initialized {
		return backend.ErrNotInitialized
	}
	b.stats.UniformWrites++
	target.Clear(u.Clear)

	base := frameUniforms{
		projection: u.Projection,
		zoom:       u.Zoom,
		colors:     &b.colors,
		width:      float32(target.Width()),
		height:     float32(target.Height()),
	}

	if u.ShowEdges && len(b.edgeBuf) > 0 {
		fu := base
		fu.filter, fu.opacity = u.EdgeFilter, u.EdgeOpacity
		tris := b.assembleTriangles(&fu)
		parallel.ForEachBand(b.pool, target.Height(), func(band parallel.Band) {
			rasterTriangles(target, tris, band)
		})
		b.stats.DrawCalls++
	}
	if u.ShowNodes && len(b.nodeBuf) > 0 {
		fu := base
		fu.filter, fu.opacity = u.NodeFilter, u.NodeOpacity
		sprites := b.assembleSprites(&fu)
		parallel.ForEachBand(b.pool, target.Height(), func(band parallel.Band) {
			rasterSprites(target, sprites, band)
		})
		b.stats.DrawCalls++
	}
	b.stats.Frames++
	return nil
}

// assembleSprites runs the vertex stage over the node stream and keeps the
// points that pass the clip test.
func (b *Backend) assembleSprites(u *frameUniforms) []sprite {
	n := len(b.nodeBuf) / geom.PointVertexStride
	out := make([]sprite, 0, n)
	for i := 0; i < n; i++ {
		x, y, attr := geom.ReadPointVertex(b.nodeBuf, i)
		v := vertexStage(x, y, attr, u)
		if clipped(&v) {
			continue
		}
		cx, cy := toWindow(&v, u)
		out = append(out, sprite{v: v, cx: cx, cy: cy, half: v.size / 2})
	}
	return out
}

// assembleTriangles runs the vertex stage over the edge stream and keeps
// the triangles whose three vertices pass the clip test.
func (b *Backend) assembleTriangles(u *frameUniforms) []triangle {
	n := len(b.edgeBuf) / geom.PointVertexStride / 3
	out := make([]triangle, 0, n)
	for i := 0; i < n; i++ {
		var t triangle
		ok := true
		for k := 0; k < 3; k++ {
			x, y, attr := geom.ReadPointVertex(b.edgeBuf, i*3+k)
			v := vertexStage(x, y, attr, u)
			if clipped(&v) {
				ok = false
				break
			}
			t.x[k], t.y[k] = toWindow(&v, u)
			if k == 0 {
				t.color = v
			}
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}

// Stats implements backend.RenderBackend.
func (b *Backend) Stats() backend.Stats { return b.stats }
