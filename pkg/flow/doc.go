// Package flow provides the directed graph that technology diagrams are
// built into.
//
// # Overview
//
// A technology diagram has two kinds of vertices: process nodes (a
// technology or one of its process steps) and carrier nodes (energy or
// material flows such as electricity or heat). Edges run from a carrier to
// the process that consumes it, and from a process to the carriers it
// produces. Edges may carry a label such as "0.5 kWh".
//
// # Basic Usage
//
//	g := flow.New("boiler")
//	g.EnsureNode(flow.Node{ID: "boiler", Kind: flow.NodeKindProcess})
//	g.EnsureNode(flow.Node{ID: "Gas", Kind: flow.NodeKindCarrier})
//	g.AddEdge(flow.Edge{From: "Gas", To: "boiler", Label: "1.0 kWh"})
//
// # Identity
//
// Nodes are identified by name. [Graph.EnsureNode] creates a node the first
// time a name is seen and returns the existing node afterwards, so a carrier
// referenced by several process steps appears exactly once. Edges are not
// deduplicated: two steps consuming the same carrier produce two edges.
//
// # Diagnostics
//
// Builders degrade rather than fail on inconsistent rows. Each degradation
// is recorded as a [Diagnostic] on the graph so callers can decide how to
// surface it (log line, JSON field, page banner).
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Graphs are built per request
// and are read-only once handed to a renderer.
package flow
