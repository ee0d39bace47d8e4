// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package graphview renders large node-link graphs on the GPU.
//
// # Overview
//
// A layout collaborator produces node positions and class ids; graphview
// derives node degrees, packs (degree, class) into one 32-bit word per node
// and hands the result to a render backend. Shaders decide per primitive
// whether it passes the current degree filter, how large and how opaque it
// is at the current zoom, and which class color it gets. Filtering,
// level of detail and recoloring therefore never re-upload geometry.
//
// # Quick Start
//
//	snap, err := graphview.NewSnapshot(nodes, edges, palette.Len())
//	if err != nil {
//	    return err
//	}
//	r, err := render.New(points.New(), render.WithPalette(palette), render.WithSize(1024, 768))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	_ = r.Submit(snap)
//	r.SetDegreeFilter(graphview.PackFilter(2, 500))
//	frame, err := r.Frame(ctx)
//
// # Packages
//
//   - graphview: data model (Attr, DegreeFilter, Color, Palette, Snapshot, Camera, Pixmap)
//   - render: the orchestrator that owns backend resources and draws frames
//   - backend/points: point and triangle pipeline rasterized on the CPU
//   - backend/instanced: instanced billboard pipeline on gogpu/wgpu
//
// # Coordinate System
//
// Node positions are world coordinates with y pointing up. The Camera maps
// them to pixels: one world unit is Zoom pixels. Pixmap and screen
// coordinates have their origin at the top-left with y pointing down.
package graphview

// Version is the current version of the library.
const Version = "0.1.0"
