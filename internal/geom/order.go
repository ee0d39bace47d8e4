// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"cmp"
	"slices"

	"github.com/gogpu/graphview"
)

// DefaultMaxVertexBytes is the default vertex memory budget per snapshot.
const DefaultMaxVertexBytes = 256 << 20

// BatchVertices is the largest number of vertices written in one buffer
// write.
const BatchVertices = 1_000_000

// SortEdgesLongestFirst returns the edges of s ordered by decreasing length.
// Long edges are drawn first so that short local edges end up on top. Equal
// lengths keep their input order.
func SortEdgesLongestFirst(s *graphview.Snapshot) []graphview.Edge {
	type keyed struct {
		edge graphview.Edge
		len2 float32
	}
	keys := make([]keyed, s.EdgeCount())
	for i := range keys {
		e := s.Edge(i)
		a, b := s.Node(int(e.A)), s.Node(int(e.B))
		dx, dy := b.X-a.X, b.Y-a.Y
		keys[i] = keyed{edge: e, len2: dx*dx + dy*dy}
	}
	slices.SortStableFunc(keys, func(x, y keyed) int {
		return cmp.Compare(y.len2, x.len2)
	})
	edges := make([]graphview.Edge, len(keys))
	for i, k := range keys {
		edges[i] = k.edge
	}
	return edges
}

// Budget describes how much of a snapshot fits the vertex memory budget.
type Budget struct {
	Nodes, Edges int
	// Truncated is true when some nodes or edges were dropped.
	Truncated bool
}

// PlanBudget decides how many nodes and edges fit into maxBytes when a node
// costs nodeBytes and an edge edgeBytes. Nodes are kept first, edges fill
// the remainder. maxBytes <= 0 means no limit.
func PlanBudget(nodes, edges, nodeBytes, edgeBytes, maxBytes int) Budget {
	if maxBytes <= 0 {
		return Budget{Nodes: nodes, Edges: edges}
	}
	keepNodes := min(nodes, maxBytes/max(nodeBytes, 1))
	rest := maxBytes - keepNodes*nodeBytes
	keepEdges := min(edges, rest/max(edgeBytes, 1))
	return Budget{
		Nodes:     keepNodes,
		Edges:     keepEdges,
		Truncated: keepNodes < nodes || keepEdges < edges,
	}
}

// Batch is a contiguous range of records in a stream.
type Batch struct {
	First, Count int
}

// Batches splits count records into batches of at most size records.
func Batches(count, size int) []Batch {
	if count <= 0 {
		return nil
	}
	size = max(size, 1)
	out := make([]Batch, 0, (count+size-1)/size)
	for first := 0; first < count; first += size {
		out = append(out, Batch{First: first, Count: min(size, count-first)})
	}
	return out
}
