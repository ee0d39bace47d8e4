// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package instanced

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
	"github.com/gogpu/graphview/internal/geom"
	"github.com/gogpu/graphview/internal/shade"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	b := newWithDevice(device, queue)
	if err := b.Init(); err != nil {
		cleanup()
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() {
		b.Close()
		cleanup()
	})
	return b
}

func testSnapshot(t *testing.T) *graphview.Snapshot {
	t.Helper()
	s, err := graphview.NewSnapshot(
		[]graphview.Node{{X: -20, Y: 0, Class: 0}, {X: 20, Y: 0, Class: 1}, {X: 0, Y: 30, Class: 1}},
		[]graphview.Edge{{A: 0, B: 1}, {A: 1, B: 2}},
		2,
	)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestShaderCompilation(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"node", NodeShaderSource()},
		{"edge", EdgeShaderSource()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spirv, err := naga.Compile(tt.src)
			if err != nil {
				if strings.Contains(err.Error(), "not yet implemented") {
					t.Skipf("naga feature not yet implemented: %v", err)
				}
				t.Fatalf("compile %s shader: %v", tt.name, err)
			}
			if len(spirv) < 4 || binary.LittleEndian.Uint32(spirv) != 0x07230203 {
				t.Error("output is not SPIR-V")
			}
		})
	}
}

func TestShaderSourcesShareConstants(t *testing.T) {
	prelude := shade.WGSLPrelude()
	for _, src := range []string{NodeShaderSource(), EdgeShaderSource()} {
		if !strings.HasPrefix(src, prelude) {
			t.Error("shader does not start with the generated prelude")
		}
		if !strings.Contains(src, "fn lod_alpha") || !strings.Contains(src, "fn cull_position") {
			t.Error("shader is missing the common functions")
		}
		if !strings.Contains(src, "fn vs_main") || !strings.Contains(src, "fn fs_main") {
			t.Error("shader is missing an entry point")
		}
	}
}

func TestUniformBlockLayout(t *testing.T) {
	proj := graphview.Ortho(-50, 50, -25, 25, -1, 1)
	edge := drawUniforms{
		projection: proj, zoom: 2, opacity: 0.25,
		filter: graphview.PackFilter(3, 9), classCount: 0,
	}
	node := edge
	node.opacity, node.classCount = 0.75, 5
	buf := makeUniformData(&edge, &node)

	if len(buf) != uniformStride+uniformSize {
		t.Fatalf("len = %d", len(buf))
	}
	f32 := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }

	if f32(0) != proj[0] || f32(60) != proj[15] {
		t.Error("projection not written column-major at offset 0")
	}
	if f32(64) != 2 || f32(68) != 0.25 {
		t.Errorf("zoom/opacity = %v/%v", f32(64), f32(68))
	}
	if u32(72) != uint32(graphview.PackFilter(3, 9)) {
		t.Errorf("filter = %#x", u32(72))
	}
	if u32(76) != shade.CullPositionBits || u32(80) != shade.CullAlphaBits {
		t.Errorf("cull bits = %#x/%#x", u32(76), u32(80))
	}
	if u32(84) != 1 {
		t.Errorf("empty class count should clamp to 1, got %d", u32(84))
	}
	if u32(88) != 0 || u32(92) != 0 {
		t.Errorf("padding not zero: %#x %#x", u32(88), u32(92))
	}
	if f32(uniformStride+68) != 0.75 || u32(uniformStride+84) != 5 {
		t.Error("node block not at uniformStride")
	}
}

func TestPaletteBytes(t *testing.T) {
	buf := paletteBytes([]uint32{0x112233, 0xFFFFFF})
	if len(buf) != 8 {
		t.Fatalf("len = %d", len(buf))
	}
	if binary.LittleEndian.Uint32(buf[0:]) != 0x112233 || binary.LittleEndian.Uint32(buf[4:]) != 0xFFFFFF {
		t.Error("words not little-endian")
	}
	if len(paletteBytes(nil)) != 4 {
		t.Error("empty palette should still produce one word")
	}
}

func TestVertexLayouts(t *testing.T) {
	node := nodeVertexLayout()
	if len(node) != 2 {
		t.Fatalf("node layouts = %d", len(node))
	}
	if node[0].ArrayStride != geom.NodeTemplateStride || node[1].ArrayStride != geom.NodeInstanceStride {
		t.Error("node strides do not match the stream layout")
	}
	if node[1].StepMode != gputypes.VertexStepModeInstance {
		t.Error("node instance slot must step per instance")
	}
	edge := edgeVertexLayout()
	if edge[0].ArrayStride != geom.EdgeTemplateStride || edge[1].ArrayStride != geom.EdgeInstanceStride {
		t.Error("edge strides do not match the stream layout")
	}
	last := edge[1].Attributes[len(edge[1].Attributes)-1]
	if last.Offset+4 != geom.EdgeInstanceStride {
		t.Errorf("attr_b ends at %d, stride is %d", last.Offset+4, geom.EdgeInstanceStride)
	}
}

func TestPipelinesCreateDestroy(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	p := pipelines{device: device}
	if err := p.create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.node == nil || p.edge == nil || p.bindLayout == nil || p.pipeLayout == nil {
		t.Fatal("expected all pipeline objects")
	}
	p.destroy()
	if p.node != nil || p.edge != nil || p.nodeShader != nil || p.edgeShader != nil {
		t.Error("destroy left objects behind")
	}
	p.destroy()
}

func TestAlignedStride(t *testing.T) {
	tests := []struct{ width, want uint32 }{
		{1, 256}, {64, 256}, {65, 512}, {100, 512}, {128, 512},
	}
	for _, tt := range tests {
		if got := alignedStride(tt.width); got != tt.want {
			t.Errorf("alignedStride(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestNotInitialized(t *testing.T) {
	b := New()
	if err := b.UploadGraph(testSnapshot(t)); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("UploadGraph: %v", err)
	}
	if err := b.UploadPalette(graphview.DefaultPalette(2)); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("UploadPalette: %v", err)
	}
	if err := b.Draw(graphview.NewPixmap(4, 4), backend.Uniforms{}); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("Draw: %v", err)
	}
	b.Close()
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendInstanced) {
		t.Fatal("instanced backend not registered")
	}
	if New().ClassCapacity() != 0 {
		t.Error("color table should be unbounded")
	}
}

func TestUploadGraphCountsWrites(t *testing.T) {
	b := newTestBackend(t)
	if err := b.UploadGraph(testSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	st := b.Stats()
	if st.NodeWrites != 1 || st.EdgeWrites != 1 {
		t.Errorf("writes = %d/%d, want 1/1", st.NodeWrites, st.EdgeWrites)
	}
	if st.Nodes != 3 || st.Edges != 2 {
		t.Errorf("resident = %d nodes %d edges", st.Nodes, st.Edges)
	}
	if st.NodeBytes != 3*geom.NodeInstanceStride || st.EdgeBytes != 2*geom.EdgeInstanceStride {
		t.Errorf("bytes = %d/%d", st.NodeBytes, st.EdgeBytes)
	}
}

func TestUploadGraphKeepsPreviousUntilDrawn(t *testing.T) {
	b := newTestBackend(t)
	s := testSnapshot(t)
	if err := b.UploadGraph(s); err != nil {
		t.Fatal(err)
	}
	first := b.current
	if err := b.UploadGraph(s); err != nil {
		t.Fatal(err)
	}
	if b.retired != first {
		t.Fatal("first snapshot buffers should be retired, not freed")
	}
	// A third upload before any frame replaces the never-drawn second set.
	if err := b.UploadGraph(s); err != nil {
		t.Fatal(err)
	}
	if b.retired != first {
		t.Error("retired set should still be the first snapshot")
	}
}

func TestRecolorDoesNotTouchGeometry(t *testing.T) {
	b := newTestBackend(t)
	if err := b.UploadGraph(testSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	before := b.Stats()
	p := graphview.DefaultPalette(2)
	if err := b.UploadPalette(p); err != nil {
		t.Fatal(err)
	}
	if err := p.Set(1, graphview.RGB(255, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := b.UploadPalette(p); err != nil {
		t.Fatal(err)
	}
	after := b.Stats()
	if after.NodeWrites != before.NodeWrites || after.EdgeWrites != before.EdgeWrites {
		t.Error("recolor rewrote geometry")
	}
	if after.PaletteWrites != before.PaletteWrites+2 {
		t.Errorf("palette writes = %d", after.PaletteWrites)
	}
	if b.classCount != 2 {
		t.Errorf("classCount = %d", b.classCount)
	}
}

func TestPaletteGrowthRebindsGroups(t *testing.T) {
	b := newTestBackend(t)
	oldGroup := b.nodeGroup
	if err := b.UploadPalette(graphview.DefaultPalette(8)); err != nil {
		t.Fatal(err)
	}
	if b.nodeGroup != oldGroup {
		t.Error("small palette should fit the initial table")
	}
	if err := b.UploadPalette(graphview.DefaultPalette(5000)); err != nil {
		t.Fatal(err)
	}
	if b.paletteWords < 5000 {
		t.Errorf("table holds %d words", b.paletteWords)
	}
	if b.nodeGroup == nil || b.edgeGroup == nil {
		t.Error("bind groups not recreated")
	}
}

func TestDrawFrame(t *testing.T) {
	b := newTestBackend(t)
	if err := b.UploadPalette(graphview.DefaultPalette(2)); err != nil {
		t.Fatal(err)
	}
	if err := b.UploadGraph(testSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	if err := b.UploadGraph(testSnapshot(t)); err != nil {
		t.Fatal(err)
	}

	cam := graphview.NewCamera(0, 0, 65, 40)
	target := graphview.NewPixmap(65, 40)
	err := b.Draw(target, backend.DefaultUniforms(cam.Projection(), cam.Zoom()))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if b.target == nil || b.target.stride != 512 {
		t.Errorf("target stride = %+v", b.target)
	}
	st := b.Stats()
	if st.DrawCalls != 2 || st.Frames != 1 || st.UniformWrites != 1 {
		t.Errorf("stats = %+v", st)
	}
	if b.retired != nil {
		t.Error("retired buffers should be freed after a completed frame")
	}

	u := backend.DefaultUniforms(cam.Projection(), cam.Zoom())
	u.ShowEdges = false
	if err := b.Draw(target, u); err != nil {
		t.Fatal(err)
	}
	if got := b.Stats().DrawCalls; got != 3 {
		t.Errorf("draw calls = %d, want 3", got)
	}
}

func TestDrawResizesTarget(t *testing.T) {
	b := newTestBackend(t)
	cam := graphview.NewCamera(0, 0, 16, 16)
	u := backend.DefaultUniforms(cam.Projection(), cam.Zoom())
	if err := b.Draw(graphview.NewPixmap(16, 16), u); err != nil {
		t.Fatal(err)
	}
	if err := b.Draw(graphview.NewPixmap(100, 10), u); err != nil {
		t.Fatal(err)
	}
	if b.target.width != 100 || b.target.height != 10 {
		t.Errorf("target = %dx%d", b.target.width, b.target.height)
	}
	if b.Stats().DrawCalls != 0 {
		t.Error("nothing uploaded, nothing should be drawn")
	}
}

func TestCloseLeavesProvidedDevice(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b := newWithDevice(device, queue)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	b.Close()
	b.Close()
	if b.device != device {
		t.Fatal("Close dropped the provided device")
	}
	if _, err := device.CreateBuffer(&hal.BufferDescriptor{Label: "after_close", Size: 16, Usage: gputypes.BufferUsageVertex}); err != nil {
		t.Errorf("provided device unusable after Close: %v", err)
	}
	if err := b.Init(); err != nil {
		t.Errorf("re-Init: %v", err)
	}
	b.Close()
}

// halDeviceProvider is a host shell exposing its HAL device.
type halDeviceProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p halDeviceProvider) Device() gpucontext.Device { return nil }
func (p halDeviceProvider) Queue() gpucontext.Queue   { return nil }
func (p halDeviceProvider) Adapter() gpucontext.Adapter {
	return nil
}
func (p halDeviceProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
func (p halDeviceProvider) HalDevice() any { return p.device }
func (p halDeviceProvider) HalQueue() any  { return p.queue }

// plainProvider does not expose HAL types.
type plainProvider struct{ halDeviceProvider }

func (plainProvider) HalDevice() {}

func TestNewWithProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b, err := NewWithProvider(halDeviceProvider{device: device, queue: queue})
	if err != nil {
		t.Fatalf("NewWithProvider: %v", err)
	}
	if !b.external || b.device != device {
		t.Error("backend should use the provided device")
	}
	if b.Adapter() != "external" {
		t.Errorf("Adapter() = %q, want external", b.Adapter())
	}
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	b.Close()

	if _, err := NewWithProvider(halDeviceProvider{}); err == nil {
		t.Error("provider with nil device accepted")
	}
	if _, err := NewWithProvider(plainProvider{}); err == nil {
		t.Error("provider without HAL accessors accepted")
	}
}
