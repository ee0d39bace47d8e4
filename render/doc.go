// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the frame orchestrator of graphview.
//
// A Renderer owns one backend.RenderBackend and decides, frame by frame,
// which device buffers have to be rewritten:
//
//   - a submitted snapshot replaces both graph streams
//   - a palette change rewrites the class color table only
//   - camera, filter, opacity and visibility changes only touch uniforms
//
// Snapshots may be submitted from any goroutine; the latest submission wins.
// Every other method belongs to the render thread.
//
// # Usage
//
//	b, err := backend.InitDefault()
//	if err != nil {
//	    return err
//	}
//	r, err := render.New(b,
//	    render.WithSize(1280, 720),
//	    render.WithPalette(graphview.DefaultPalette(8)),
//	)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	_ = r.Submit(snapshot) // from the layout goroutine
//
//	frame, err := r.Frame(ctx)
//	if errors.Is(err, graphview.ErrRendererUnavailable) {
//	    // recreate the renderer
//	}
package render
