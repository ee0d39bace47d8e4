// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shade holds the per-primitive math shared by every render backend:
// the level-of-detail law, degree-filter culling with its sentinel values,
// node disc masks and the edge quad mapping.
//
// The point backend calls these functions directly from its Go shader
// stages. The instanced backend runs WGSL, which receives the same constants
// through the prelude generated by WGSLPrelude and the sentinel bit patterns
// through its uniform block, so both backends agree bit for bit on what is
// culled and how large and opaque everything is.
package shade
