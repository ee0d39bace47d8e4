// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package instanced implements the programmable render backend on
// gogpu/wgpu.
//
// Nodes and edges are instanced quads: one small template vertex buffer per
// primitive kind and one instance record per node or edge. The WGSL vertex
// stage sizes and culls each instance; the fragment stage shades
// node discs and picks the endpoint color for each half of an edge. The
// class color table is a read-only storage buffer with one entry per class
// and no fixed capacity.
//
// Frames render into an offscreen RGBA8 texture that is copied back into the
// caller's graphview.Pixmap.
//
// The backend opens its own Vulkan device in Init, or shares the device of a
// host application through NewWithProvider.
package instanced
