// Package diagram builds technology flow graphs from sheet records.
//
// Two builders cover the two sheet forms:
//
//   - [Aggregated] draws every process step of one technology into a single
//     graph. A carrier produced by one step and consumed by the next becomes
//     one node with edges on both sides.
//   - [Single] draws one technology as a central process node surrounded by
//     its input and output carriers, with edges labelled "{share} {unit}".
//
// [Build] looks a technology up in a prepared table and dispatches to the
// builder for the table's form.
package diagram

import (
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/table"
	"github.com/matzehuels/techflow/pkg/tech"
	"github.com/matzehuels/techflow/pkg/textwrap"
)

// Graph metadata keys set by the builders.
const (
	MetaForm        = "form"
	MetaTypeSpec    = "type_spec"
	MetaDescription = "description"
	MetaMainInput   = "main_input"
	MetaMainOutput  = "main_output"
	MetaSteps       = "steps"
)

// Options configures node styles and graph attributes.
type Options struct {
	// WrapWidth is the maximum label line width for single-row process nodes.
	WrapWidth int
	// Process is the style of process nodes.
	Process flow.Style
	// Carrier is the style of carrier nodes.
	Carrier flow.Style
	// Attrs are the graph-level layout attributes.
	Attrs flow.Attrs
}

// DefaultOptions returns light blue process boxes, light grey carrier boxes,
// left-to-right layout and orthogonal edges.
func DefaultOptions() Options {
	return Options{
		WrapWidth: textwrap.DefaultWidth,
		Process:   flow.Style{Shape: "box", Style: "filled", FillColor: "lightblue"},
		Carrier:   flow.Style{Shape: "box", Style: "filled", FillColor: "lightgrey"},
		Attrs:     flow.DefaultAttrs(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WrapWidth <= 0 {
		o.WrapWidth = d.WrapWidth
	}
	if o.Process == (flow.Style{}) {
		o.Process = d.Process
	}
	if o.Carrier == (flow.Style{}) {
		o.Carrier = d.Carrier
	}
	if o.Attrs.RankDir == "" {
		o.Attrs.RankDir = d.Attrs.RankDir
	}
	if o.Attrs.Splines == "" {
		o.Attrs.Splines = d.Attrs.Splines
	}
	return o
}

// Build returns the diagram of technology id from a table prepared with
// form. Returns ErrCodeNotFound if no row has that identifier.
func Build(t *table.Table, form tech.Form, id string, opts Options) (*flow.Graph, error) {
	if form == tech.FormAggregated {
		steps, err := tech.StepsFor(t, id)
		if err != nil {
			return nil, err
		}
		if len(steps) == 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "technology %q not found", id)
		}
		return Aggregated(id, steps, opts)
	}

	rec, ok := t.First(form.IDColumn(), id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "technology %q not found", id)
	}
	return FromRecord(rec, opts)
}

// FromRecord parses a single-row record and builds its diagram. Parse
// diagnostics are attached to the returned graph.
func FromRecord(rec table.Record, opts Options) (*flow.Graph, error) {
	t, diags, err := tech.Parse(rec)
	if err != nil {
		return nil, err
	}
	g, err := Single(t, opts)
	if err != nil {
		return nil, err
	}
	g.AddDiagnostics(diags...)
	return g, nil
}
