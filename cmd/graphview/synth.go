// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/graphfile"
	"github.com/gogpu/graphview/internal/synth"
)

func newSynthCmd(a *app) *cobra.Command {
	p := synth.DefaultParams()
	var output string
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a clustered graph file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			s, err := synth.Generate(p)
			if err != nil {
				return err
			}
			doc := graphfile.FromSnapshot(s, graphview.DefaultPalette(p.Clusters))
			if output == "-" {
				return graphfile.Write(cmd.OutOrStdout(), doc)
			}
			if err := graphfile.WriteFile(output, doc); err != nil {
				return err
			}
			prog.done("generated", "file", output, "nodes", s.NodeCount(), "edges", s.EdgeCount(),
				"max_degree", s.MaxDegree())
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&p.Nodes, "nodes", "n", p.Nodes, "node count")
	f.IntVar(&p.Clusters, "clusters", p.Clusters, "cluster (class) count")
	f.IntVar(&p.EdgesPerNode, "edges-per-node", p.EdgesPerNode, "edges added per node")
	f.Float64Var(&p.BridgeRatio, "bridges", p.BridgeRatio, "share of edges between clusters")
	f.Float32Var(&p.Spread, "spread", p.Spread, "cluster radius in world units")
	f.Uint64Var(&p.Seed, "seed", p.Seed, "random seed")
	f.StringVarP(&output, "output", "o", "graph.yaml", "output file, - for stdout")
	return cmd
}
