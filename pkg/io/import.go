package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/techflow/pkg/flow"
)

var kindFromString = map[string]flow.NodeKind{
	"process": flow.NodeKindProcess,
	"carrier": flow.NodeKindCarrier,
}

// ReadJSON decodes a JSON graph description from r.
//
// Returns an error if the JSON is malformed, a node kind is unknown, a node
// ID is empty or repeated, or an edge references an unknown node. Errors
// name the offending node or edge and wrap the flow sentinel errors.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*flow.Graph, error) {
	var data Document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := flow.New(data.Name)
	g.SetComment(data.Comment)
	g.SetAttrs(flow.Attrs{
		RankDir: data.Attrs.RankDir,
		Splines: data.Attrs.Splines,
		DPI:     data.Attrs.DPI,
		Size:    data.Attrs.Size,
	})
	for k, v := range data.Meta {
		g.Meta()[k] = v
	}

	for _, n := range data.Nodes {
		kind := flow.NodeKindProcess
		if n.Kind != "" {
			k, ok := kindFromString[n.Kind]
			if !ok {
				return nil, fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind)
			}
			kind = k
		}
		nd := flow.Node{ID: n.ID, Label: n.Label, Kind: kind, Style: n.Style, Meta: n.Meta}
		if err := g.AddNode(nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(flow.Edge{From: e.From, To: e.To, Label: e.Label, Meta: e.Meta}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	g.AddDiagnostics(data.Diagnostics...)

	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*flow.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
