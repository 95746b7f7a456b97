// Package io provides JSON import and export for technology flow graphs.
//
// # JSON Format
//
// The dashboard API and the "json" render format use this description:
//
//	{
//	  "name": "electric_water_heater",
//	  "attrs": {"rankdir": "LR", "splines": "ortho"},
//	  "nodes": [
//	    {"id": "electric_water_heater", "label": "electric_water_\nheater", "kind": "process",
//	     "style": {"shape": "box", "style": "filled", "fillcolor": "lightblue"}},
//	    {"id": "Electricity", "kind": "carrier",
//	     "style": {"shape": "box", "style": "filled", "fillcolor": "lightgrey"}}
//	  ],
//	  "edges": [
//	    {"from": "Electricity", "to": "electric_water_heater", "label": "0.5 kWh"}
//	  ],
//	  "meta": {"form": "single", "type_spec": "Conversion-Heat"},
//	  "diagnostics": []
//	}
//
// Node "kind" is "process" or "carrier" and defaults to "process". The
// "meta" objects are freeform. Diagnostics list the tolerated
// inconsistencies found while building the graph.
//
// # Import and Export
//
// [WriteJSON] and [ReadJSON] work on any io.Writer or io.Reader;
// [ExportJSON] and [ImportJSON] wrap them for files. A graph exported and
// re-imported keeps its nodes, edges, attributes, metadata and diagnostics.
package io
