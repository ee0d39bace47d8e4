// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"errors"
	"math"
	"testing"
)

func TestSnapshotDegrees(t *testing.T) {
	nodes := []Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0, Class: 1}, {X: 3, Y: 0}}
	edges := []Edge{{0, 1}, {0, 2}, {0, 3}, {2, 2}}
	s, err := NewSnapshot(nodes, edges, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint16{3, 1, 3, 1}
	for i, d := range want {
		if s.Degree(i) != d {
			t.Errorf("Degree(%d) = %d, want %d", i, s.Degree(i), d)
		}
	}
	if s.MaxDegree() != 3 {
		t.Errorf("MaxDegree() = %d, want 3", s.MaxDegree())
	}
	if a := s.Attr(2); a != PackAttr(3, 1) {
		t.Errorf("Attr(2) = %#x, want %#x", uint32(a), uint32(PackAttr(3, 1)))
	}
}

func TestSnapshotCopiesInput(t *testing.T) {
	nodes := []Node{{X: 1, Y: 2}}
	s, err := NewSnapshot(nodes, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	nodes[0].X = 99
	if s.Node(0).X != 1 {
		t.Error("snapshot aliases the caller's node slice")
	}
}

func TestSnapshotValidation(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name    string
		nodes   []Node
		edges   []Edge
		classes int
		want    error
	}{
		{"edge out of range", []Node{{}}, []Edge{{0, 1}}, 1, ErrInvalidSnapshot},
		{"nan position", []Node{{X: nan}}, nil, 1, ErrInvalidSnapshot},
		{"inf position", []Node{{Y: float32(math.Inf(-1))}}, nil, 1, ErrInvalidSnapshot},
		{"class beyond palette", []Node{{Class: 2}}, nil, 2, ErrClassOutOfRange},
		{"negative class count", nil, nil, -1, ErrInvalidSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshot(tt.nodes, tt.edges, tt.classes)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSnapshotRejectsDegreeOverflow(t *testing.T) {
	nodes := make([]Node, 2)
	edges := make([]Edge, MaxDegree+1)
	for i := range edges {
		edges[i] = Edge{0, 1}
	}
	_, err := NewSnapshot(nodes, edges, 1)
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("error = %v, want ErrInvalidSnapshot", err)
	}

	s, err := NewSnapshot(nodes, edges[:MaxDegree], 1)
	if err != nil {
		t.Fatalf("degree exactly %d rejected: %v", MaxDegree, err)
	}
	if s.MaxDegree() != MaxDegree {
		t.Errorf("MaxDegree() = %d", s.MaxDegree())
	}
}

func TestSnapshotEmpty(t *testing.T) {
	s, err := NewSnapshot(nil, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.NodeCount() != 0 || s.EdgeCount() != 0 {
		t.Error("empty snapshot has elements")
	}
	minX, minY, maxX, maxY := s.Bounds()
	if minX != 0 || minY != 0 || maxX != 0 || maxY != 0 {
		t.Error("empty bounds must be zero")
	}
	if s.Histogram().Visible(AllDegrees) != 0 {
		t.Error("empty snapshot reports visible nodes")
	}
}

func TestDegreeHistogramVisible(t *testing.T) {
	// Star with 5 leaves: center degree 5, leaves degree 1, one isolated node.
	nodes := make([]Node, 7)
	var edges []Edge
	for i := uint32(1); i <= 5; i++ {
		edges = append(edges, Edge{0, i})
	}
	s, err := NewSnapshot(nodes, edges, 1)
	if err != nil {
		t.Fatal(err)
	}
	h := s.Histogram()
	tests := []struct {
		f    DegreeFilter
		want uint64
	}{
		{AllDegrees, 7},
		{PackFilter(0, 0), 1},
		{PackFilter(1, 1), 5},
		{PackFilter(2, 100), 1},
		{PackFilter(6, 100), 0},
		{PackFilter(5, 1), 0},
	}
	for _, tt := range tests {
		low, high := tt.f.Unpack()
		if got := h.Visible(tt.f); got != tt.want {
			t.Errorf("Visible([%d,%d]) = %d, want %d", low, high, got, tt.want)
		}
	}
	if h.Count(1) != 5 || h.Count(5) != 1 || h.Count(2) != 0 {
		t.Error("Count mismatch")
	}
}

func TestSnapshotBounds(t *testing.T) {
	s, err := NewSnapshot([]Node{{X: -1, Y: 4}, {X: 3, Y: -2}, {X: 0, Y: 0}}, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	minX, minY, maxX, maxY := s.Bounds()
	if minX != -1 || minY != -2 || maxX != 3 || maxY != 4 {
		t.Errorf("Bounds() = %v %v %v %v", minX, minY, maxX, maxY)
	}
}
