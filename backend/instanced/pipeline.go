// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package instanced

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/graphview/internal/geom"
	"github.com/gogpu/wgpu/hal"
)

// targetFormat is the color format of the offscreen target. It matches the
// byte order of graphview.Pixmap.
const targetFormat = gputypes.TextureFormatRGBA8Unorm

// pipelines holds the GPU objects shared by every frame.
type pipelines struct {
	device hal.Device

	nodeShader hal.ShaderModule
	edgeShader hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	node       hal.RenderPipeline
	edge       hal.RenderPipeline
}

// alphaBlend is non-premultiplied source-over: color uses src alpha, the
// alpha channel accumulates coverage so an opaque background stays opaque.
func alphaBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// nodeVertexLayout: slot 0 is the template quad, slot 1 the node instances.
func nodeVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: geom.NodeTemplateStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coord
			},
		},
		{
			ArrayStride: geom.NodeInstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 2}, // instance_pos
				{Format: gputypes.VertexFormatUint32, Offset: 8, ShaderLocation: 3},    // instance_packed_attr
			},
		},
	}
}

// edgeVertexLayout: slot 0 is the template quad, slot 1 the edge instances.
func edgeVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: geom.EdgeTemplateStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // local
			},
		},
		{
			ArrayStride: geom.EdgeInstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1}, // pos_a
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2}, // pos_b
				{Format: gputypes.VertexFormatUint32, Offset: 16, ShaderLocation: 3},   // attr_a
				{Format: gputypes.VertexFormatUint32, Offset: 20, ShaderLocation: 4},   // attr_b
			},
		},
	}
}

// create compiles both shaders and builds the layouts and pipelines.
func (p *pipelines) create() error {
	var err error
	p.nodeShader, err = p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "graph_node_shader",
		Source: hal.ShaderSource{WGSL: NodeShaderSource()},
	})
	if err != nil {
		return fmt.Errorf("compile node shader: %w", err)
	}
	p.edgeShader, err = p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "graph_edge_shader",
		Source: hal.ShaderSource{WGSL: EdgeShaderSource()},
	})
	if err != nil {
		return fmt.Errorf("compile edge shader: %w", err)
	}

	p.bindLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "graph_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: uniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	p.pipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "graph_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	p.edge, err = p.createPipeline("graph_edge_pipeline", p.edgeShader, edgeVertexLayout())
	if err != nil {
		return fmt.Errorf("create edge pipeline: %w", err)
	}
	p.node, err = p.createPipeline("graph_node_pipeline", p.nodeShader, nodeVertexLayout())
	if err != nil {
		return fmt.Errorf("create node pipeline: %w", err)
	}
	return nil
}

func (p *pipelines) createPipeline(label string, shader hal.ShaderModule, buffers []gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
	blend := alphaBlend()
	return p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}

// destroy releases all pipeline resources in reverse creation order.
func (p *pipelines) destroy() {
	if p.device == nil {
		return
	}
	if p.node != nil {
		p.device.DestroyRenderPipeline(p.node)
		p.node = nil
	}
	if p.edge != nil {
		p.device.DestroyRenderPipeline(p.edge)
		p.edge = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.edgeShader != nil {
		p.device.DestroyShaderModule(p.edgeShader)
		p.edgeShader = nil
	}
	if p.nodeShader != nil {
		p.device.DestroyShaderModule(p.nodeShader)
		p.nodeShader = nil
	}
}
