// Package pkg provides the core libraries for techflow technology diagrams.
//
// # Overview
//
// Techflow reads a sheet describing energy conversion technologies and draws
// each technology as a left-to-right flow diagram. The pkg directory is
// organized into three areas:
//
//  1. Domain: [table], [tech], [flow], [diagram] and [textwrap] turn sheet rows
//     into flow graphs
//  2. Output: [render] (DOT, SVG, PNG via [render/dot]) and [io] (JSON)
//  3. Infrastructure: [source], [cache], [httputil], [config],
//     [observability], [pipeline] and [dashboard]
//
// # Architecture
//
// The typical data flow:
//
//	CSV file / Google Sheet / MongoDB collection
//	         ↓
//	    [source] package (load into a table)
//	         ↓
//	    [tech] package (form preprocessing, row parsing)
//	         ↓
//	    [diagram] package (build a flow graph)
//	         ↓
//	    [render/dot] and [io] packages
//	         ↓
//	    DOT/SVG/PNG/JSON output
//
// # Quick Start
//
//	t, _ := table.ReadCSVFile("examples/tech_conv.csv")
//	_ = tech.FormSingle.Prepare(t)
//
//	g, _ := diagram.Build(t, tech.FormSingle, "electric_water_heater", diagram.DefaultOptions())
//	svg, _ := dot.Render(ctx, g, render.FormatSVG)
//
// The [pipeline] package wraps these steps with caching and is what the CLI
// and the dashboard use.
//
// # Packages
//
//   - [table]: CSV tables, keyword filter, forward fill
//   - [tech]: sheet forms, [tech.Technology] and [tech.Step] parsing
//   - [flow]: flow graph of process and carrier nodes, diagnostics
//   - [diagram]: single-row and aggregated diagram builders
//   - [textwrap]: label wrapping
//   - [render], [render/dot]: DOT generation and Graphviz rendering
//   - [io]: JSON graph documents
//   - [source]: file, remote and MongoDB sheet sources
//   - [cache]: file, Redis and null caches
//   - [httputil]: caching HTTP client with retry
//   - [config]: TOML configuration
//   - [errors]: coded errors
//   - [observability]: instrumentation hooks
//   - [pipeline]: load, build, render orchestration
//   - [dashboard]: HTTP dashboard
//   - [buildinfo]: version information
//
// [table]: github.com/matzehuels/techflow/pkg/table
// [tech]: github.com/matzehuels/techflow/pkg/tech
// [tech.Technology]: github.com/matzehuels/techflow/pkg/tech.Technology
// [tech.Step]: github.com/matzehuels/techflow/pkg/tech.Step
// [flow]: github.com/matzehuels/techflow/pkg/flow
// [diagram]: github.com/matzehuels/techflow/pkg/diagram
// [textwrap]: github.com/matzehuels/techflow/pkg/textwrap
// [render]: github.com/matzehuels/techflow/pkg/render
// [render/dot]: github.com/matzehuels/techflow/pkg/render/dot
// [io]: github.com/matzehuels/techflow/pkg/io
// [source]: github.com/matzehuels/techflow/pkg/source
// [cache]: github.com/matzehuels/techflow/pkg/cache
// [httputil]: github.com/matzehuels/techflow/pkg/httputil
// [config]: github.com/matzehuels/techflow/pkg/config
// [errors]: github.com/matzehuels/techflow/pkg/errors
// [observability]: github.com/matzehuels/techflow/pkg/observability
// [pipeline]: github.com/matzehuels/techflow/pkg/pipeline
// [dashboard]: github.com/matzehuels/techflow/pkg/dashboard
// [buildinfo]: github.com/matzehuels/techflow/pkg/buildinfo
package pkg
