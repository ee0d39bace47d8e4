// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package instanced

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
	"github.com/gogpu/graphview/internal/geom"
	"github.com/gogpu/wgpu/hal"

	// Vulkan HAL backend, selected by Init.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func init() {
	backend.Register(backend.BackendInstanced, func() backend.RenderBackend {
		return New()
	})
}

// fenceTimeout bounds the wait for one frame.
const fenceTimeout = 5 * time.Second

// readbackAlign is the row pitch alignment of texture-to-buffer copies.
const readbackAlign = 256

// graphBuffers are the GPU copies of one snapshot.
type graphBuffers struct {
	nodes, edges         hal.Buffer
	nodeCount, edgeCount int
	nodeBytes, edgeBytes int
}

// renderTarget is the offscreen color attachment and its readback buffer.
type renderTarget struct {
	tex     hal.Texture
	view    hal.TextureView
	staging hal.Buffer
	width   uint32
	height  uint32
	stride  uint32
}

// Backend draws nodes as instanced billboards and edges as instanced quads
// on a gogpu/wgpu device.
type Backend struct {
	log            *slog.Logger
	maxVertexBytes int

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool // device came from a provider; Close leaves it alone
	adapter  string

	pipes pipelines

	nodeTemplate hal.Buffer
	edgeTemplate hal.Buffer
	uniforms     hal.Buffer
	palette      hal.Buffer
	paletteWords int // capacity of palette in words
	classCount   uint32

	// Both groups bind the same buffers; they differ in the uniform offset.
	edgeGroup hal.BindGroup
	nodeGroup hal.BindGroup

	current *graphBuffers
	retired *graphBuffers // freed once the next frame has completed

	target *renderTarget

	ready bool
	stats backend.Stats
}

// Option configures a Backend.
type Option func(*Backend)

// WithMaxVertexBytes sets the vertex memory budget per snapshot. 0 or less
// disables the limit.
func WithMaxVertexBytes(n int) Option {
	return func(b *Backend) { b.maxVertexBytes = n }
}

// New creates an uninitialized instanced backend. Init opens its own
// Vulkan device.
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

// NewWithProvider creates a backend on a device shared by the host
// application. The provider must expose HalDevice() and HalQueue()
// returning hal.Device and hal.Queue. The device is not destroyed on Close.
func NewWithProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("instanced: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("instanced: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("instanced: provider HalQueue is not hal.Queue")
	}
	graphview.Logger().Debug("instanced: using provided device", "surface_format", provider.SurfaceFormat())
	return newWithDevice(device, queue, opts...), nil
}

// newWithDevice wraps an already opened device.
func newWithDevice(device hal.Device, queue hal.Queue, opts ...Option) *Backend {
	b := New(opts...)
	b.device = device
	b.queue = queue
	b.external = true
	b.adapter = "external"
	return b
}

// Name implements backend.RenderBackend.
func (b *Backend) Name() string { return backend.BackendInstanced }

// SetLogger replaces the backend logger.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = graphview.NopLogger()
	}
	b.log = l
}

// Adapter returns the name of the GPU in use.
func (b *Backend) Adapter() string { return b.adapter }

// Init opens a device (unless one was provided) and creates the pipelines
// and the buffers that do not depend on the graph.
func (b *Backend) Init() error {
	if b.ready {
		return nil
	}
	if b.device == nil {
		if err := b.openDevice(); err != nil {
			b.releaseDevice()
			return err
		}
	}
	b.pipes = pipelines{device: b.device}
	if err := b.pipes.create(); err != nil {
		b.Close()
		return err
	}
	if err := b.createStatic(); err != nil {
		b.Close()
		return err
	}
	b.ready = true
	b.log.Info("instanced: initialized", "adapter", b.adapter)
	return nil
}

func (b *Backend) openDevice() error {
	vk, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := vk.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	b.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return ErrNoGPU
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.adapter = selected.Info.Name
	return nil
}

// createStatic uploads the template quads and allocates the uniform buffer
// and a one-entry color table.
func (b *Backend) createStatic() error {
	var err error
	if b.nodeTemplate, err = b.uploadBuffer("graph_node_template", geom.NodeTemplate(), gputypes.BufferUsageVertex); err != nil {
		return err
	}
	if b.edgeTemplate, err = b.uploadBuffer("graph_edge_template", geom.EdgeTemplate(), gputypes.BufferUsageVertex); err != nil {
		return err
	}
	b.uniforms, err = b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "graph_uniforms",
		Size:  uniformStride + uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	return b.ensurePalette(1)
}

// uploadBuffer creates a buffer sized for data and writes it.
func (b *Backend) uploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(max(len(data), 4)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if len(data) > 0 {
		b.queue.WriteBuffer(buf, 0, data)
	}
	return buf, nil
}

// ensurePalette grows the color table buffer to hold words entries and
// rebuilds the bind groups that reference it.
func (b *Backend) ensurePalette(words int) error {
	if b.palette != nil && words <= b.paletteWords {
		return nil
	}
	capacity := max(words, 2*b.paletteWords, 16)
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "graph_class_colors",
		Size:  uint64(capacity) * 4,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create color table: %w", err)
	}
	b.destroyBindGroups()
	if b.palette != nil {
		b.device.DestroyBuffer(b.palette)
	}
	b.palette, b.paletteWords = buf, capacity

	if b.edgeGroup, err = b.createBindGroup("graph_edge_group", 0); err != nil {
		return err
	}
	if b.nodeGroup, err = b.createBindGroup("graph_node_group", uniformStride); err != nil {
		return err
	}
	return nil
}

func (b *Backend) createBindGroup(label string, uniformOffset uint64) (hal.BindGroup, error) {
	bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: b.pipes.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: b.uniforms.NativeHandle(), Offset: uniformOffset, Size: uniformSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: b.palette.NativeHandle(), Offset: 0, Size: uint64(b.paletteWords) * 4}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return bg, nil
}

// ClassCapacity implements backend.RenderBackend. The color table is a
// storage buffer that grows with the palette.
func (b *Backend) ClassCapacity() int { return 0 }

// UploadGraph writes the node and edge instance streams for s into new
// buffers. The buffers of the previous snapshot stay bound until the next
// frame has completed.
func (b *Backend) UploadGraph(s *graphview.Snapshot) error {
	if !b.ready {
		return backend.ErrNotInitialized
	}
	edges := geom.SortEdgesLongestFirst(s)
	budget := geom.PlanBudget(s.NodeCount(), len(edges),
		geom.NodeInstanceStride, geom.EdgeInstanceStride, b.maxVertexBytes)
	if budget.Truncated {
		b.log.Warn("instanced: vertex budget exceeded, truncating",
			"nodes", s.NodeCount(), "edges", len(edges),
			"kept_nodes", budget.Nodes, "kept_edges", budget.Edges,
			"budget_bytes", b.maxVertexBytes)
	}

	next := &graphBuffers{nodeCount: budget.Nodes, edgeCount: budget.Edges}
	var err error
	var writes uint64
	next.nodes, writes, err = b.writeStream("graph_node_instances", geom.NodeInstances(s, budget.Nodes), geom.NodeInstanceStride)
	if err != nil {
		return err
	}
	b.stats.NodeWrites += writes
	next.edges, writes, err = b.writeStream("graph_edge_instances", geom.EdgeInstances(s, edges[:budget.Edges]), geom.EdgeInstanceStride)
	if err != nil {
		b.device.DestroyBuffer(next.nodes)
		return err
	}
	b.stats.EdgeWrites += writes
	next.nodeBytes = budget.Nodes * geom.NodeInstanceStride
	next.edgeBytes = budget.Edges * geom.EdgeInstanceStride

	// A snapshot replaced before any frame drew it was never in flight.
	if b.retired != nil {
		b.destroyGraph(b.current)
	} else {
		b.retired = b.current
	}
	b.current = next

	b.stats.Nodes, b.stats.Edges = next.nodeCount, next.edgeCount
	b.stats.NodeBytes, b.stats.EdgeBytes = next.nodeBytes, next.edgeBytes
	b.log.Debug("instanced: graph uploaded", "nodes", next.nodeCount, "edges", next.edgeCount,
		"node_bytes", next.nodeBytes, "edge_bytes", next.edgeBytes)
	return nil
}

// writeStream creates a vertex buffer for stream and writes it in batches
// of geom.BatchVertices records.
func (b *Backend) writeStream(label string, stream []byte, stride int) (hal.Buffer, uint64, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(max(len(stream), stride)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create %s: %w", label, err)
	}
	var writes uint64
	for _, batch := range geom.Batches(len(stream)/stride, geom.BatchVertices) {
		lo := batch.First * stride
		hi := lo + batch.Count*stride
		b.queue.WriteBuffer(buf, uint64(lo), stream[lo:hi])
		writes++
	}
	return buf, writes, nil
}

// UploadPalette rewrites the color table, growing it if needed.
func (b *Backend) UploadPalette(p *graphview.Palette) error {
	if !b.ready {
		return backend.ErrNotInitialized
	}
	if err := b.ensurePalette(p.Len()); err != nil {
		return err
	}
	b.queue.WriteBuffer(b.palette, 0, paletteBytes(p.Words()))
	b.classCount = uint32(p.Len())
	b.stats.PaletteWrites++
	return nil
}

// Draw renders edges then nodes into an offscreen texture and reads the
// result back into target.
func (b *Backend) Draw(target *graphview.Pixmap, u backend.Uniforms) error {
	if !b.ready {
		return backend.ErrNotInitialized
	}
	w, h := uint32(target.Width()), uint32(target.Height())
	if err := b.ensureTarget(w, h); err != nil {
		return err
	}

	edge := drawUniforms{
		projection: u.Projection, zoom: u.Zoom, opacity: u.EdgeOpacity, filter: u.EdgeFilter,
		classCount: b.classCount,
	}
	node := edge
	node.opacity, node.filter = u.NodeOpacity, u.NodeFilter
	b.queue.WriteBuffer(b.uniforms, 0, makeUniformData(&edge, &node))
	b.stats.UniformWrites++

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "graph_frame_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("graph_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "graph_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       b.target.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clearValue(u),
			},
		},
	})
	var draws uint64
	if g := b.current; g != nil {
		if u.ShowEdges && g.edgeCount > 0 {
			rp.SetPipeline(b.pipes.edge)
			rp.SetBindGroup(0, b.edgeGroup, nil)
			rp.SetVertexBuffer(0, b.edgeTemplate, 0)
			rp.SetVertexBuffer(1, g.edges, 0)
			rp.Draw(geom.TemplateVertices, uint32(g.edgeCount), 0, 0)
			draws++
		}
		if u.ShowNodes && g.nodeCount > 0 {
			rp.SetPipeline(b.pipes.node)
			rp.SetBindGroup(0, b.nodeGroup, nil)
			rp.SetVertexBuffer(0, b.nodeTemplate, 0)
			rp.SetVertexBuffer(1, g.nodes, 0)
			rp.Draw(geom.TemplateVertices, uint32(g.nodeCount), 0, 0)
			draws++
		}
	}
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.target.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(b.target.tex, b.target.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: b.target.stride, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: b.target.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	if err := b.submitAndWait(cmdBuf); err != nil {
		return err
	}
	b.stats.DrawCalls += draws
	b.stats.Frames++

	if b.retired != nil {
		b.destroyGraph(b.retired)
		b.retired = nil
	}

	readback := make([]byte, uint64(b.target.stride)*uint64(h))
	if err := b.queue.ReadBuffer(b.target.staging, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	return target.CopyFrom(readback, int(b.target.stride))
}

func (b *Backend) submitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}

func clearValue(u backend.Uniforms) gputypes.Color {
	return gputypes.Color{
		R: float64(u.Clear.R) / 255,
		G: float64(u.Clear.G) / 255,
		B: float64(u.Clear.B) / 255,
		A: float64(u.Clear.A) / 255,
	}
}

// alignedStride returns the row pitch for a readback of width pixels.
func alignedStride(width uint32) uint32 {
	return (width*4 + readbackAlign - 1) / readbackAlign * readbackAlign
}

// ensureTarget (re)creates the offscreen target when the size changes.
func (b *Backend) ensureTarget(w, h uint32) error {
	if b.target != nil && b.target.width == w && b.target.height == h {
		return nil
	}
	b.destroyTarget()

	t := &renderTarget{width: w, height: h, stride: alignedStride(w)}
	var err error
	t.tex, err = b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "graph_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	t.view, err = b.device.CreateTextureView(t.tex, &hal.TextureViewDescriptor{
		Label:         "graph_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(t.tex)
		return fmt.Errorf("create target view: %w", err)
	}
	t.staging, err = b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "graph_readback",
		Size:  uint64(t.stride) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		b.device.DestroyTextureView(t.view)
		b.device.DestroyTexture(t.tex)
		return fmt.Errorf("create readback buffer: %w", err)
	}
	b.target = t
	b.log.Debug("instanced: target resized", "width", w, "height", h, "stride", t.stride)
	return nil
}

// Stats implements backend.RenderBackend.
func (b *Backend) Stats() backend.Stats { return b.stats }

// Close releases all GPU resources. A provided device is left open.
func (b *Backend) Close() {
	if b.device != nil {
		b.destroyTarget()
		b.destroyGraph(b.retired)
		b.destroyGraph(b.current)
		b.retired, b.current = nil, nil
		b.destroyBindGroups()
		for _, buf := range []hal.Buffer{b.palette, b.uniforms, b.edgeTemplate, b.nodeTemplate} {
			if buf != nil {
				b.device.DestroyBuffer(buf)
			}
		}
		b.palette, b.uniforms, b.edgeTemplate, b.nodeTemplate = nil, nil, nil, nil
		b.paletteWords = 0
		b.pipes.destroy()
	}
	if !b.external {
		b.releaseDevice()
	}
	b.ready = false
}

// releaseDevice destroys a device and instance opened by Init.
func (b *Backend) releaseDevice() {
	if b.device != nil {
		b.device.Destroy()
		b.device = nil
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
	b.queue = nil
}

func (b *Backend) destroyGraph(g *graphBuffers) {
	if g == nil {
		return
	}
	if g.nodes != nil {
		b.device.DestroyBuffer(g.nodes)
	}
	if g.edges != nil {
		b.device.DestroyBuffer(g.edges)
	}
}

func (b *Backend) destroyBindGroups() {
	if b.edgeGroup != nil {
		b.device.DestroyBindGroup(b.edgeGroup)
		b.edgeGroup = nil
	}
	if b.nodeGroup != nil {
		b.device.DestroyBindGroup(b.nodeGroup)
		b.nodeGroup = nil
	}
}

func (b *Backend) destroyTarget() {
	t := b.target
	if t == nil {
		return
	}
	b.device.DestroyBuffer(t.staging)
	b.device.DestroyTextureView(t.view)
	b.device.DestroyTexture(t.tex)
	b.target = nil
}
