// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package graphfile reads and writes laid-out graphs.
//
// A graph file is a YAML document (JSON is accepted as well, being a YAML
// subset):
//
//	classes: 2
//	palette: ["#e41a1c", "steelblue"]
//	nodes:
//	  - {x: 0, y: 0, class: 0}
//	  - [12.5, -3, 1]          # x, y, class
//	edges:
//	  - [0, 1]
//
// classes and palette are optional. Without classes the class count is
// the palette length, or the largest class used plus one.
package graphfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/graphview"
)

// ErrFormat is returned for documents that do not describe a graph.
var ErrFormat = errors.New("graphfile: malformed document")

// Document is the decoded form of a graph file.
type Document struct {
	Classes int          `yaml:"classes,omitempty"`
	Palette []string     `yaml:"palette,omitempty,flow"`
	Nodes   []NodeRecord `yaml:"nodes"`
	Edges   []EdgeRecord `yaml:"edges"`
}

// NodeRecord is one node: a mapping {x, y, class} or a sequence
// [x, y] / [x, y, class].
type NodeRecord struct {
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Class uint16  `yaml:"class"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NodeRecord) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		type plain NodeRecord
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*n = NodeRecord(p)
		return nil
	case yaml.SequenceNode:
		var vals []float64
		if err := value.Decode(&vals); err != nil {
			return err
		}
		if len(vals) < 2 || len(vals) > 3 {
			return fmt.Errorf("%w: line %d: node needs [x, y] or [x, y, class]", ErrFormat, value.Line)
		}
		n.X, n.Y = float32(vals[0]), float32(vals[1])
		n.Class = 0
		if len(vals) == 3 {
			if vals[2] < 0 || vals[2] > graphview.MaxClass || vals[2] != float64(int(vals[2])) {
				return fmt.Errorf("%w: line %d: class %v", ErrFormat, value.Line, vals[2])
			}
			n.Class = uint16(vals[2])
		}
		return nil
	default:
		return fmt.Errorf("%w: line %d: unexpected node", ErrFormat, value.Line)
	}
}

// MarshalYAML writes the node as a one-line mapping.
func (n NodeRecord) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.MappingNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			scalar("x"), floatScalar(n.X),
			scalar("y"), floatScalar(n.Y),
			scalar("class"), intScalar(uint64(n.Class)),
		},
	}, nil
}

// EdgeRecord is one edge as a pair of node indices.
type EdgeRecord [2]uint32

// MarshalYAML writes the edge as a one-line sequence.
func (e EdgeRecord) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:    yaml.SequenceNode,
		Style:   yaml.FlowStyle,
		Content: []*yaml.Node{intScalar(uint64(e[0])), intScalar(uint64(e[1]))},
	}, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// floatScalar is left untagged: whole numbers print as "3" and decode back
// into float fields.
func floatScalar(v float32) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(float64(v), 'g', -1, 32)}
}

func intScalar(v uint64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(v, 10)}
}

// Read decodes a document from r.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrFormat)
		}
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return &doc, nil
}

// ReadFile decodes the document at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Write encodes doc to w.
func Write(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile encodes doc to path.
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ClassCount returns the number of classes the document declares.
func (d *Document) ClassCount() int {
	if d.Classes > 0 {
		return d.Classes
	}
	if len(d.Palette) > 0 {
		return len(d.Palette)
	}
	n := 0
	for _, node := range d.Nodes {
		n = max(n, int(node.Class)+1)
	}
	return max(n, 1)
}

// Snapshot validates the document and builds a snapshot.
func (d *Document) Snapshot() (*graphview.Snapshot, error) {
	nodes := make([]graphview.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = graphview.Node{X: n.X, Y: n.Y, Class: n.Class}
	}
	edges := make([]graphview.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = graphview.Edge{A: e[0], B: e[1]}
	}
	return graphview.NewSnapshot(nodes, edges, d.ClassCount())
}

// BuildPalette returns the document palette, or nil when it has none.
func (d *Document) BuildPalette() (*graphview.Palette, error) {
	if len(d.Palette) == 0 {
		return nil, nil
	}
	colors := make([]graphview.Color, len(d.Palette))
	for i, s := range d.Palette {
		c, err := graphview.ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("%w: palette entry %d: %w", ErrFormat, i, err)
		}
		colors[i] = c
	}
	return graphview.NewPalette(colors...), nil
}

// FromSnapshot converts a snapshot, and optionally its palette, into a
// document.
func FromSnapshot(s *graphview.Snapshot, p *graphview.Palette) *Document {
	doc := &Document{
		Classes: s.Classes(),
		Nodes:   make([]NodeRecord, s.NodeCount()),
		Edges:   make([]EdgeRecord, s.EdgeCount()),
	}
	for i := range doc.Nodes {
		n := s.Node(i)
		doc.Nodes[i] = NodeRecord{X: n.X, Y: n.Y, Class: n.Class}
	}
	for i := range doc.Edges {
		e := s.Edge(i)
		doc.Edges[i] = EdgeRecord{e.A, e.B}
	}
	if p != nil {
		for i := 0; i < p.Len(); i++ {
			doc.Palette = append(doc.Palette, p.At(uint16(i)).String())
		}
	}
	return doc
}
