// Package pipeline provides the load → build → render pipeline for techflow.
//
// The CLI, the interactive picker and the dashboard all drive the same
// [Runner], so filtering, diagram construction and artifact caching behave
// identically everywhere.
//
// # Stages
//
//  1. Load: read the sheet from a [source.Source] once and apply the form's
//     preprocessing (forward fill or empty descriptive columns)
//  2. Build: turn the rows of one technology into a flow graph
//  3. Render: produce DOT, SVG, PNG or JSON artifacts, cached by graph content
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	if err := runner.Load(ctx, src, tech.FormSingle); err != nil {
//	    return err
//	}
//	for _, id := range runner.IDs("heat") {
//	    result, err := runner.Execute(ctx, id, pipeline.Options{Formats: []render.Format{render.FormatSVG}})
//	    ...
//	}
//
// [source.Source]: github.com/matzehuels/techflow/pkg/source.Source
package pipeline

import (
	"time"

	"github.com/matzehuels/techflow/pkg/diagram"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/render"
)

// Options configures one build and render.
type Options struct {
	// Formats to render; empty means SVG.
	Formats []render.Format
	// Diagram styles and layout attributes; zero fields take the defaults.
	Diagram diagram.Options
	// Refresh bypasses the artifact cache (results are still stored).
	Refresh bool
}

func (o Options) formats() []render.Format {
	if len(o.Formats) == 0 {
		return []render.Format{render.FormatSVG}
	}
	return o.Formats
}

// Result contains the outputs of a pipeline run for one technology.
type Result struct {
	// ID is the technology identifier.
	ID string

	// Graph is the built diagram.
	Graph *flow.Graph

	// GraphHash is the content hash of the graph's JSON description.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[render.Format][]byte

	// Stats contains timing and size information.
	Stats Stats

	// RenderHit reports whether every artifact came from the cache.
	RenderHit bool
}

// Diagnostics returns the tolerated data inconsistencies found while
// building the graph.
func (r *Result) Diagnostics() []flow.Diagnostic {
	if r.Graph == nil {
		return nil
	}
	return r.Graph.Diagnostics()
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// BatchItem is the outcome of one technology in a batch run.
type BatchItem struct {
	ID     string
	Result *Result
	Err    error
}
