// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"fmt"
	"math"
)

// Node is one vertex of the graph as produced by the layout collaborator.
type Node struct {
	X, Y  float32
	Class uint16
}

// Edge connects two nodes by index.
type Edge struct {
	A, B uint32
}

// Snapshot is an immutable, validated copy of the graph handed to the
// renderer. A new snapshot fully replaces the previous one; there is no
// incremental diffing.
//
// Degrees are derived from the edge list: every edge endpoint adds one to
// the degree of its node, so a self-loop counts twice.
type Snapshot struct {
	nodes   []Node
	edges   []Edge
	degrees []uint16
	classes int

	maxDegree uint16
	hist      *DegreeHistogram
}

// NewSnapshot validates and copies graph data. classes is the number of
// classes the snapshot may reference; it must not exceed the palette length
// used to render it.
//
// Validation enforces the packing contract up front: a degree above
// MaxDegree or a class at or above classes would alias silently once packed.
func NewSnapshot(nodes []Node, edges []Edge, classes int) (*Snapshot, error) {
	if classes < 0 || classes > MaxClass+1 {
		return nil, fmt.Errorf("%w: class count %d", ErrInvalidSnapshot, classes)
	}
	if uint64(len(nodes)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d nodes exceed 32-bit indices", ErrInvalidSnapshot, len(nodes))
	}

	counts := make([]uint32, len(nodes))
	for i, e := range edges {
		if int64(e.A) >= int64(len(nodes)) || int64(e.B) >= int64(len(nodes)) {
			return nil, fmt.Errorf("%w: edge %d (%d-%d) references a missing node", ErrInvalidSnapshot, i, e.A, e.B)
		}
		counts[e.A]++
		counts[e.B]++
	}

	s := &Snapshot{
		nodes:   append([]Node(nil), nodes...),
		edges:   append([]Edge(nil), edges...),
		degrees: make([]uint16, len(nodes)),
		classes: classes,
	}
	for i, n := range nodes {
		if !finite(n.X) || !finite(n.Y) {
			return nil, fmt.Errorf("%w: node %d has a non-finite position", ErrInvalidSnapshot, i)
		}
		if int(n.Class) >= classes {
			return nil, fmt.Errorf("%w: node %d has class %d, only %d classes", ErrClassOutOfRange, i, n.Class, classes)
		}
		if counts[i] > MaxDegree {
			return nil, fmt.Errorf("%w: node %d has degree %d, limit is %d", ErrInvalidSnapshot, i, counts[i], MaxDegree)
		}
		d := uint16(counts[i])
		s.degrees[i] = d
		if d > s.maxDegree {
			s.maxDegree = d
		}
	}
	s.hist = newDegreeHistogram(s.degrees)
	return s, nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Classes returns the class count the snapshot was validated against.
func (s *Snapshot) Classes() int { return s.classes }

// Node returns node i.
func (s *Snapshot) Node(i int) Node { return s.nodes[i] }

// Edge returns edge i.
func (s *Snapshot) Edge(i int) Edge { return s.edges[i] }

// Degree returns the degree of node i.
func (s *Snapshot) Degree(i int) uint16 { return s.degrees[i] }

// Attr returns the packed (degree, class) word of node i.
func (s *Snapshot) Attr(i int) Attr {
	return PackAttr(s.degrees[i], s.nodes[i].Class)
}

// MaxDegree returns the largest node degree, the upper bound for a degree
// filter control.
func (s *Snapshot) MaxDegree() uint16 { return s.maxDegree }

// Histogram returns the degree histogram of the snapshot.
func (s *Snapshot) Histogram() *DegreeHistogram { return s.hist }

// Bounds returns the bounding box of all node positions. It returns zeros
// for an empty snapshot.
func (s *Snapshot) Bounds() (minX, minY, maxX, maxY float32) {
	if len(s.nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = s.nodes[0].X, s.nodes[0].Y
	maxX, maxY = minX, minY
	for _, n := range s.nodes[1:] {
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X)
		maxY = max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}

// DegreeHistogram answers "how many nodes pass this filter" in O(1) by
// keeping prefix sums over all 65536 possible degrees.
type DegreeHistogram struct {
	prefix []uint64 // prefix[d] = number of nodes with degree < d
}

func newDegreeHistogram(degrees []uint16) *DegreeHistogram {
	prefix := make([]uint64, MaxDegree+2)
	for _, d := range degrees {
		prefix[int(d)+1]++
	}
	for i := 1; i < len(prefix); i++ {
		prefix[i] += prefix[i-1]
	}
	return &DegreeHistogram{prefix: prefix}
}

// Count returns the number of nodes with exactly degree d.
func (h *DegreeHistogram) Count(d uint16) uint64 {
	return h.prefix[int(d)+1] - h.prefix[d]
}

// Visible returns the number of nodes whose degree passes f.
func (h *DegreeHistogram) Visible(f DegreeFilter) uint64 {
	if f.IsEmpty() {
		return 0
	}
	return h.prefix[int(f.High())+1] - h.prefix[f.Low()]
}
