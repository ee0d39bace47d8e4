// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package synth generates laid-out clustered graphs for demos and
// benchmarks.
//
// Nodes are scattered around cluster centers placed on a spiral. Edges
// follow preferential attachment inside a cluster, with a small share of
// bridges between clusters, which gives the heavy-tailed degree
// distribution real networks have.
package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gogpu/graphview"
)

// Params controls the generator.
type Params struct {
	Nodes        int     // total node count
	Clusters     int     // number of clusters; also the class count
	EdgesPerNode int     // edges added by each new node
	BridgeRatio  float64 // share of edges that leave their cluster, 0..1
	Spread       float32 // cluster radius in world units
	Seed         uint64
}

// DefaultParams returns a mid-sized graph.
func DefaultParams() Params {
	return Params{
		Nodes:        10_000,
		Clusters:     8,
		EdgesPerNode: 2,
		BridgeRatio:  0.05,
		Spread:       400,
		Seed:         1,
	}
}

// ErrParams is returned for parameters the generator cannot honor.
var ErrParams = errors.New("synth: invalid parameters")

func (p Params) validate() error {
	switch {
	case p.Nodes < 0 || uint64(p.Nodes) > math.MaxUint32:
		return fmt.Errorf("%w: %d nodes", ErrParams, p.Nodes)
	case p.Clusters < 1 || p.Clusters > graphview.MaxClass+1:
		return fmt.Errorf("%w: %d clusters", ErrParams, p.Clusters)
	case p.EdgesPerNode < 0:
		return fmt.Errorf("%w: %d edges per node", ErrParams, p.EdgesPerNode)
	case p.BridgeRatio < 0 || p.BridgeRatio > 1:
		return fmt.Errorf("%w: bridge ratio %v", ErrParams, p.BridgeRatio)
	case !(p.Spread > 0):
		return fmt.Errorf("%w: spread %v", ErrParams, p.Spread)
	}
	return nil
}

// Generate builds a snapshot from p. The same parameters always produce
// the same graph.
func Generate(p Params) (*graphview.Snapshot, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))

	centers := make([][2]float32, p.Clusters)
	for i := range centers {
		// Golden-angle spiral keeps clusters apart at any count.
		r := float64(p.Spread) * 2.5 * math.Sqrt(float64(i))
		a := float64(i) * 2.399963229728653
		centers[i] = [2]float32{float32(r * math.Cos(a)), float32(r * math.Sin(a))}
	}

	nodes := make([]graphview.Node, p.Nodes)
	members := make([][]uint32, p.Clusters)
	for i := range nodes {
		c := rng.IntN(p.Clusters)
		nodes[i] = graphview.Node{
			X:     centers[c][0] + float32(rng.NormFloat64())*p.Spread/2,
			Y:     centers[c][1] + float32(rng.NormFloat64())*p.Spread/2,
			Class: uint16(c),
		}
		members[c] = append(members[c], uint32(i))
	}

	// targets lists every edge endpoint so far; picking uniformly from it
	// picks a node with probability proportional to its degree.
	targets := make([][]uint32, p.Clusters)
	var all []uint32
	degree := make([]uint16, p.Nodes)
	edges := make([]graphview.Edge, 0, p.Nodes*p.EdgesPerNode)

	seen := make([]int, p.Clusters) // members of each cluster already placed
	for i := range nodes {
		c := int(nodes[i].Class)
		self := uint32(i)
		for k := 0; k < p.EdgesPerNode; k++ {
			var pool []uint32
			if rng.Float64() < p.BridgeRatio {
				pool = all
			} else {
				pool = targets[c]
			}
			var other uint32
			switch {
			case len(pool) > 0:
				other = pool[rng.IntN(len(pool))]
			case seen[c] > 0:
				other = members[c][rng.IntN(seen[c])]
			default:
				continue
			}
			if other == self || degree[other] == graphview.MaxDegree || degree[self] == graphview.MaxDegree {
				continue
			}
			edges = append(edges, graphview.Edge{A: self, B: other})
			degree[self]++
			degree[other]++
			oc := int(nodes[other].Class)
			targets[c] = append(targets[c], self)
			targets[oc] = append(targets[oc], other)
			all = append(all, self, other)
		}
		seen[c]++
	}
	return graphview.NewSnapshot(nodes, edges, p.Clusters)
}
