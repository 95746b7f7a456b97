package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/techflow/pkg/flow"
)

// Document is the JSON form of a graph.
type Document struct {
	Name        string            `json:"name"`
	Comment     string            `json:"comment,omitempty"`
	Attrs       Attrs             `json:"attrs"`
	Nodes       []Node            `json:"nodes"`
	Edges       []Edge            `json:"edges"`
	Meta        flow.Metadata     `json:"meta,omitempty"`
	Diagnostics []flow.Diagnostic `json:"diagnostics"`
}

// Attrs is the JSON form of flow.Attrs.
type Attrs struct {
	RankDir string  `json:"rankdir,omitempty"`
	Splines string  `json:"splines,omitempty"`
	DPI     float64 `json:"dpi,omitempty"`
	Size    string  `json:"size,omitempty"`
}

// Node is the JSON form of a flow.Node.
type Node struct {
	ID    string        `json:"id"`
	Label string        `json:"label,omitempty"`
	Kind  string        `json:"kind,omitempty"`
	Style flow.Style    `json:"style"`
	Meta  flow.Metadata `json:"meta,omitempty"`
}

// Edge is the JSON form of a flow.Edge.
type Edge struct {
	From  string        `json:"from"`
	To    string        `json:"to"`
	Label string        `json:"label,omitempty"`
	Meta  flow.Metadata `json:"meta,omitempty"`
}

// Encode converts g to its JSON description. Diagnostics are always
// a list, never null.
func Encode(g *flow.Graph) Document {
	a := g.Attrs()
	out := Document{
		Name:        g.Name(),
		Comment:     g.Comment(),
		Attrs:       Attrs{RankDir: a.RankDir, Splines: a.Splines, DPI: a.DPI, Size: a.Size},
		Nodes:       make([]Node, 0, g.NodeCount()),
		Edges:       make([]Edge, 0, g.EdgeCount()),
		Meta:        g.Meta(),
		Diagnostics: g.Diagnostics(),
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []flow.Diagnostic{}
	}

	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, Node{
			ID:    n.ID,
			Label: n.Label,
			Kind:  n.Kind.String(),
			Style: n.Style,
			Meta:  n.Meta,
		})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To, Label: e.Label, Meta: e.Meta})
	}
	return out
}

// WriteJSON encodes a graph as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *flow.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Encode(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
func ExportJSON(g *flow.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
