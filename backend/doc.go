// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend defines the interface between the render orchestrator and
// the pipelines that draw graphs.
//
// # Backend Registration
//
// Backends register themselves from init() functions; importing a backend
// package is enough to make it available:
//
//	import (
//		_ "github.com/gogpu/graphview/backend/instanced"
//		_ "github.com/gogpu/graphview/backend/points"
//	)
//
// # Backend Selection
//
// InitDefault tries backends in priority order (instanced, then points) and
// returns the first that initializes. Get and InitNamed select one by name.
//
// # Available Backends
//
//   - "points": point sprites and half-edge quads rasterized on the CPU; a
//     fixed-capacity color table of 1024 classes
//   - "instanced": instanced billboards on gogpu/wgpu with WGSL shaders and
//     an unbounded storage-buffer color table
package backend
