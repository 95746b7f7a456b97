// Package dot renders technology flow graphs with Graphviz.
//
// # DOT Source
//
// [ToDOT] writes a graph as DOT text. The graph comment becomes a leading
// "//" line, graph attributes (rankdir, splines, and optionally dpi and size)
// follow the opening brace, then one statement per node in insertion order
// and one per edge. Node statements carry the node's shape, style, fill
// color and label; edge statements carry their label when it is set.
//
//	// electric_water_heater
//	digraph "electric_water_heater" {
//	  rankdir=LR;
//	  splines=ortho;
//	  "Electricity" [label="Electricity", shape=box, style=filled, fillcolor=lightgrey];
//	  "Electricity" -> "electric_water_heater" [label="0.5 kWh"];
//	}
//
// # Rendering
//
// [RenderSVG] and [RenderPNG] run Graphviz in-process through
// [github.com/goccy/go-graphviz]; no external binaries are needed.
package dot
