// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/geom"
)

func newStatsCmd(a *app) *cobra.Command {
	var synthNodes int
	cmd := &cobra.Command{
		Use:   "stats [graph-file]",
		Short: "Print graph size, degree distribution and vertex memory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && synthNodes == 0 {
				return fmt.Errorf("need a graph file or --synth")
			}
			s, _, err := loadGraph(&a.cfg, args, synthNodes)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), s, a.cfg.Filter(), a.cfg.MaxVertexBytes)
			return nil
		},
	}
	cmd.Flags().IntVar(&synthNodes, "synth", 0, "report on a synthetic graph of this many nodes")
	return cmd
}

// printStats writes a human-readable report with grouped numbers.
func printStats(w io.Writer, s *graphview.Snapshot, filter graphview.DegreeFilter, maxBytes int) {
	p := message.NewPrinter(language.English)
	h := s.Histogram()

	p.Fprintf(w, "nodes         %d\n", s.NodeCount())
	p.Fprintf(w, "edges         %d\n", s.EdgeCount())
	p.Fprintf(w, "classes       %d\n", s.Classes())
	p.Fprintf(w, "max degree    %d\n", s.MaxDegree())
	low, high := filter.Unpack()
	p.Fprintf(w, "in [%d, %d]  %d nodes\n", low, high, h.Visible(filter))

	p.Fprintf(w, "\ndegree histogram\n")
	for _, b := range degreeBuckets(s) {
		p.Fprintf(w, "  %6d-%-6d %d\n", b.low, b.high, b.count)
	}

	pointBytes := s.NodeCount()*geom.PointVertexStride + s.EdgeCount()*geom.VerticesPerEdge*geom.PointVertexStride
	instBytes := s.NodeCount()*geom.NodeInstanceStride + s.EdgeCount()*geom.EdgeInstanceStride
	p.Fprintf(w, "\nvertex memory\n")
	p.Fprintf(w, "  points     %d bytes\n", pointBytes)
	p.Fprintf(w, "  instanced  %d bytes\n", instBytes)
	if maxBytes > 0 {
		budget := geom.PlanBudget(s.NodeCount(), s.EdgeCount(), geom.PointVertexStride,
			geom.VerticesPerEdge*geom.PointVertexStride, maxBytes)
		if budget.Truncated {
			p.Fprintf(w, "  points budget of %d bytes keeps %d nodes and %d edges\n", maxBytes, budget.Nodes, budget.Edges)
		}
	}
}

type bucket struct {
	low, high uint16
	count     uint64
}

// degreeBuckets groups degrees into powers of two: 0, 1, 2-3, 4-7, ...
func degreeBuckets(s *graphview.Snapshot) []bucket {
	h := s.Histogram()
	top := s.MaxDegree()
	out := []bucket{{0, 0, h.Count(0)}}
	for k := 0; k < 16; k++ {
		low := uint16(1) << k
		if low > top {
			break
		}
		high := uint16(1<<(k+1) - 1)
		out = append(out, bucket{low, high, h.Visible(graphview.PackFilter(low, high))})
	}
	return out
}
