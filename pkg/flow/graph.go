package flow

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.EnsureNode]
	// when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil after they pass through a Graph.
type Metadata map[string]any

// MetaTooltip is the node metadata key renderers show as a hover tooltip.
const MetaTooltip = "tooltip"

// NodeKind distinguishes process nodes from carrier nodes.
type NodeKind int

const (
	// NodeKindProcess is a technology or one of its process steps.
	NodeKindProcess NodeKind = iota
	// NodeKindCarrier is an energy or material flow entering or leaving a process.
	NodeKindCarrier
)

// String returns "process" or "carrier".
func (k NodeKind) String() string {
	if k == NodeKindCarrier {
		return "carrier"
	}
	return "process"
}

// Style holds the Graphviz presentation attributes of a node.
// Empty fields are omitted from the DOT output.
type Style struct {
	Shape     string `json:"shape,omitempty"`
	Style     string `json:"style,omitempty"`
	FillColor string `json:"fillcolor,omitempty"`
}

// Node is a vertex in a technology diagram.
type Node struct {
	ID    string   // Unique name, also the Graphviz node ID
	Label string   // Display label; empty means ID
	Kind  NodeKind // Process or carrier
	Style Style    // Presentation attributes
	Meta  Metadata // Arbitrary key-value metadata (never nil after insertion)
}

// DisplayLabel returns Label, or ID when no label is set.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// IsProcess reports whether the node is a process node.
func (n Node) IsProcess() bool { return n.Kind == NodeKindProcess }

// IsCarrier reports whether the node is a carrier node.
func (n Node) IsCarrier() bool { return n.Kind == NodeKindCarrier }

// Edge is a directed connection between two nodes.
type Edge struct {
	From  string   // Source node ID
	To    string   // Target node ID
	Label string   // Optional label, e.g. "0.5 kWh"
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// Attrs are graph-level layout attributes.
type Attrs struct {
	RankDir string  // Layout direction, "LR" for technology diagrams
	Splines string  // Edge routing, "ortho" for right-angled edges
	DPI     float64 // Output resolution; 0 leaves the Graphviz default
	Size    string  // Maximum drawing size in inches, e.g. "8,5"; empty for none
}

// DefaultAttrs returns left-to-right layout with orthogonal edge routing.
func DefaultAttrs() Attrs {
	return Attrs{RankDir: "LR", Splines: "ortho"}
}

// Graph is a directed graph of process and carrier nodes.
//
// The zero value is not usable; use [New].
type Graph struct {
	name        string
	comment     string
	attrs       Attrs
	nodes       map[string]*Node
	order       []string
	edges       []Edge
	meta        Metadata
	diagnostics []Diagnostic
}

// New creates an empty graph with default attributes.
// The name is used as the Graphviz graph ID.
func New(name string) *Graph {
	return &Graph{
		name:  name,
		attrs: DefaultAttrs(),
		nodes: make(map[string]*Node),
		meta:  Metadata{},
	}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Comment returns the graph comment.
func (g *Graph) Comment() string { return g.comment }

// SetComment sets a free-form comment emitted at the top of the DOT output.
func (g *Graph) SetComment(c string) { g.comment = c }

// Attrs returns the graph-level layout attributes.
func (g *Graph) Attrs() Attrs { return g.attrs }

// SetAttrs replaces the graph-level layout attributes.
func (g *Graph) SetAttrs(a Attrs) { g.attrs = a }

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds a node. Returns ErrInvalidNodeID if the ID is empty or
// ErrDuplicateNodeID if a node with the same ID exists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[n.ID] = node
	g.order = append(g.order, n.ID)
	return nil
}

// EnsureNode returns the node named n.ID, adding n first if no such node
// exists. An existing node is returned unchanged even if its kind or style
// differs from n.
func (g *Graph) EnsureNode(n Node) (*Node, error) {
	if existing, ok := g.nodes[n.ID]; ok {
		return existing, nil
	}
	if err := g.AddNode(n); err != nil {
		return nil, err
	}
	return g.nodes[n.ID], nil
}

// AddEdge adds a directed edge between two existing nodes.
// Multiple edges between the same pair are allowed.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual nodes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// NodesOfKind returns the nodes of kind k in insertion order.
func (g *Graph) NodesOfKind(k NodeKind) []*Node {
	var nodes []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == k {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// EdgesBetween returns the edges from → to in insertion order.
func (g *Graph) EdgesBetween(from, to string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			out = append(out, e)
		}
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Inputs returns the sources of edges pointing at id, in edge order.
func (g *Graph) Inputs(id string) []string {
	var ids []string
	for _, e := range g.edges {
		if e.To == id {
			ids = append(ids, e.From)
		}
	}
	return ids
}

// Outputs returns the targets of edges leaving id, in edge order.
func (g *Graph) Outputs(id string) []string {
	var ids []string
	for _, e := range g.edges {
		if e.From == id {
			ids = append(ids, e.To)
		}
	}
	return ids
}

// AddDiagnostics records degradations that happened while building the graph.
func (g *Graph) AddDiagnostics(ds ...Diagnostic) {
	g.diagnostics = append(g.diagnostics, ds...)
}

// Diagnostics returns a copy of the recorded diagnostics.
func (g *Graph) Diagnostics() []Diagnostic { return slices.Clone(g.diagnostics) }
