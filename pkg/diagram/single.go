package diagram

import (
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/tech"
	"github.com/matzehuels/techflow/pkg/textwrap"
)

// Single builds the diagram of one single-row technology.
//
// The process node is named by the technology ID and labelled with the ID
// wrapped at opts.WrapWidth. Each input flow adds an edge carrier → process
// and each output flow an edge process → carrier, labelled "{share} {unit}".
// Carrier nodes are created once per name. The effective main carriers are
// recorded in the graph metadata only; all carriers are drawn alike.
//
// A technology without an ID returns ErrCodeInvalidInput.
func Single(t tech.Technology, opts Options) (*flow.Graph, error) {
	if t.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "technology has no %s", tech.ColTechID)
	}
	opts = opts.withDefaults()

	g := flow.New(t.ID)
	g.SetComment(t.ID)
	g.SetAttrs(opts.Attrs)

	meta := g.Meta()
	meta[MetaForm] = string(tech.FormSingle)
	meta[MetaTypeSpec] = t.TypeSpec()
	meta[MetaMainInput] = t.MainInput
	meta[MetaMainOutput] = t.MainOutput
	if t.Description != "" {
		meta[MetaDescription] = t.Description
	}

	if _, err := g.EnsureNode(flow.Node{
		ID:    t.ID,
		Label: textwrap.Wrap(t.ID, opts.WrapWidth),
		Kind:  flow.NodeKindProcess,
		Style: opts.Process,
		Meta:  flow.Metadata{flow.MetaTooltip: t.TypeSpec()},
	}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: add process", t.ID)
	}

	for _, d := range tech.Directions {
		for _, f := range t.Flows(d) {
			if f.Name == "" {
				continue
			}
			if _, err := g.EnsureNode(flow.Node{ID: f.Name, Kind: flow.NodeKindCarrier, Style: opts.Carrier}); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: add carrier %q", t.ID, f.Name)
			}

			e := flow.Edge{From: f.Name, To: t.ID, Label: f.Label()}
			if d == tech.Output {
				e.From, e.To = t.ID, f.Name
			}
			e.Meta = flow.Metadata{"direction": string(d), "share": f.Share, "unit": f.Unit}
			if err := g.AddEdge(e); err != nil {
				return nil, edgeError(err, t.ID, e.From, e.To)
			}
		}
	}
	return g, nil
}
