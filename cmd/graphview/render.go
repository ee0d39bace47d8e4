// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image"
	"math"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
	"github.com/gogpu/graphview/backend/instanced"
	"github.com/gogpu/graphview/backend/points"
	"github.com/gogpu/graphview/internal/config"
	"github.com/gogpu/graphview/internal/graphfile"
	"github.com/gogpu/graphview/internal/synth"
	"github.com/gogpu/graphview/render"
)

type renderOpts struct {
	output      string
	synthNodes  int
	margin      float32
	zoom        float32
	rotate      float32
	degreeMin   int
	degreeMax   int
	filterNodes bool
	hideNodes   bool
	hideEdges   bool
	backend     string
	supersample int
}

func newRenderCmd(a *app) *cobra.Command {
	var o renderOpts
	cmd := &cobra.Command{
		Use:   "render [graph-file]",
		Short: "Render a graph file (or a synthetic graph) to PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && o.synthNodes == 0 {
				return fmt.Errorf("need a graph file or --synth")
			}
			flags := cmd.Flags()
			if flags.Changed("degree-min") {
				a.cfg.DegreeMin = o.degreeMin
			}
			if flags.Changed("degree-max") {
				a.cfg.DegreeMax = o.degreeMax
			}
			if flags.Changed("backend") {
				a.cfg.Backend = o.backend
			}
			if flags.Changed("supersample") {
				a.cfg.Supersample = o.supersample
			}
			if flags.Changed("filter-nodes") {
				a.cfg.FilterNodes = o.filterNodes
			}
			if o.hideNodes {
				a.cfg.ShowNodes = false
			}
			if o.hideEdges {
				a.cfg.ShowEdges = false
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return runRender(cmd, a, args, &o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "graph.png", "output PNG file")
	f.IntVar(&o.synthNodes, "synth", 0, "render a synthetic graph of this many nodes instead of a file")
	f.Float32Var(&o.margin, "margin", 0.05, "free border around the graph, as a fraction of the image")
	f.Float32Var(&o.zoom, "zoom", 1, "zoom factor applied after fitting")
	f.Float32Var(&o.rotate, "rotate", 0, "view rotation in degrees")
	f.IntVar(&o.degreeMin, "degree-min", 0, "lowest degree shown")
	f.IntVar(&o.degreeMax, "degree-max", graphview.MaxDegree, "highest degree shown")
	f.BoolVar(&o.filterNodes, "filter-nodes", false, "apply the degree range to nodes as well as edges")
	f.BoolVar(&o.hideNodes, "hide-nodes", false, "do not draw nodes")
	f.BoolVar(&o.hideEdges, "hide-edges", false, "do not draw edges")
	f.StringVar(&o.backend, "backend", "", "backend: points or instanced (default: best available)")
	f.IntVar(&o.supersample, "supersample", 1, "render at this multiple of the output size and downscale")
	return cmd
}

// loadGraph reads the graph file, or generates one, and returns it with
// the palette to draw it with.
func loadGraph(cfg *config.Config, args []string, synthNodes int) (*graphview.Snapshot, *graphview.Palette, error) {
	if len(args) == 0 {
		p := synth.DefaultParams()
		p.Nodes = synthNodes
		p.Clusters = cfg.Classes
		s, err := synth.Generate(p)
		if err != nil {
			return nil, nil, err
		}
		pal, err := cfg.BuildPalette()
		return s, pal, err
	}

	doc, err := graphfile.ReadFile(args[0])
	if err != nil {
		return nil, nil, err
	}
	s, err := doc.Snapshot()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", args[0], err)
	}
	pal, err := doc.BuildPalette()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", args[0], err)
	}
	if pal == nil {
		if pal, err = cfg.BuildPalette(); err != nil {
			return nil, nil, err
		}
	}
	if pal.Len() < s.Classes() {
		// Extend a short palette with generated colors.
		full := graphview.DefaultPalette(s.Classes())
		for i := 0; i < pal.Len(); i++ {
			_ = full.Set(uint16(i), pal.At(uint16(i)))
		}
		pal = full
	}
	return s, pal, nil
}

// newBackend initializes the configured backend. An empty name falls back
// through the registry priority; names without CLI settings go through the
// registry as they are.
func newBackend(cfg *config.Config) (backend.RenderBackend, error) {
	var b backend.RenderBackend
	switch cfg.Backend {
	case "":
		return backend.InitDefault()
	case backend.BackendPoints:
		b = points.New(points.WithWorkers(cfg.Workers), points.WithMaxVertexBytes(cfg.MaxVertexBytes))
	case backend.BackendInstanced:
		b = instanced.New(instanced.WithMaxVertexBytes(cfg.MaxVertexBytes))
	default:
		return backend.InitNamed(cfg.Backend)
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", backend.ErrBackendNotAvailable, cfg.Backend, err)
	}
	return b, nil
}

func runRender(cmd *cobra.Command, a *app, args []string, o *renderOpts) error {
	logger := loggerFromContext(cmd.Context())
	cfg := &a.cfg

	prog := newProgress(logger)
	s, pal, err := loadGraph(cfg, args, o.synthNodes)
	if err != nil {
		return err
	}
	prog.done("graph loaded", "nodes", s.NodeCount(), "edges", s.EdgeCount(), "classes", s.Classes())

	b, err := newBackend(cfg)
	if err != nil {
		return err
	}
	logger.Info("backend ready", "backend", b.Name(), "adapter", adapterName(b))
	bg, err := cfg.BackgroundColor()
	if err != nil {
		b.Close()
		return err
	}

	ss := cfg.Supersample
	r, err := render.New(b,
		render.WithSize(cfg.Width*ss, cfg.Height*ss),
		render.WithPalette(pal),
		render.WithClearColor(bg),
		render.WithLogger(slogLogger(logger)),
	)
	if err != nil {
		b.Close()
		return err
	}
	defer r.Close()

	r.SetDegreeFilter(cfg.Filter())
	r.SetFilterNodes(cfg.FilterNodes)
	r.SetNodeOpacity(cfg.NodeOpacity)
	r.SetEdgeOpacity(cfg.EdgeOpacity)
	r.ShowNodes(cfg.ShowNodes)
	r.ShowEdges(cfg.ShowEdges)
	if err := r.Submit(s); err != nil {
		return err
	}
	r.FitCamera(o.margin)
	cam := r.Camera()
	if o.zoom > 0 && o.zoom != 1 {
		w, h := cam.Size()
		cam.ZoomAt(o.zoom, float32(w)/2, float32(h)/2)
	}
	cam.Rotate(o.rotate * math.Pi / 180)

	prog = newProgress(logger)
	frame, err := r.Frame(cmd.Context())
	if err != nil {
		return err
	}
	prog.done("frame drawn", "backend", b.Name(), "visible_nodes", r.VisibleNodes())

	out, err := downscale(frame, ss)
	if err != nil {
		return err
	}
	if err := out.SavePNG(o.output); err != nil {
		return err
	}
	logger.Info("written", "file", o.output, "width", out.Width(), "height", out.Height())
	return nil
}

// adapterName reports the GPU adapter of backends that run on one.
func adapterName(b backend.RenderBackend) string {
	if a, ok := b.(interface{ Adapter() string }); ok {
		return a.Adapter()
	}
	return "cpu"
}

// downscale reduces a supersampled frame by factor.
func downscale(frame *graphview.Pixmap, factor int) (*graphview.Pixmap, error) {
	if factor <= 1 {
		return frame, nil
	}
	src := frame.ToImage()
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()/factor, b.Dy()/factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	out := graphview.NewPixmap(dst.Rect.Dx(), dst.Rect.Dy())
	if err := out.CopyFrom(dst.Pix, dst.Stride); err != nil {
		return nil, err
	}
	return out, nil
}
