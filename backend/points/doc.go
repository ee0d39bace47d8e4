// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package points implements the fixed-function style render backend.
//
// Nodes are drawn as point sprites and edges as pre-expanded half-edge quads.
// The vertex and fragment stages are Go functions with the same structure as
// a point/triangle shader pair: the vertex stage culls by writing NaN
// positions and -Inf alpha, the clip test rejects NaN, and the fragment stage
// applies a banded disc mask. The class color table is a fixed array of
// ClassCapacity entries, like a uniform array.
//
// Rasterization runs on the CPU, in horizontal bands processed concurrently,
// into a graphview.Pixmap. The backend needs no GPU and renders the same
// frame on every machine, which makes it the reference for pixel tests.
package points
