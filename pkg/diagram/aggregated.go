package diagram

import (
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/tech"
)

// Aggregated builds one graph from all process steps of a technology.
//
// Each distinct process name becomes one process node and each distinct
// carrier name one carrier node, however many steps mention them. Every
// (step, input carrier) pair adds an edge carrier → process and every
// (step, output carrier) pair an edge process → carrier; repeated pairs
// across steps are kept as separate edges. Steps without a process name
// are skipped. A blank carrier name returns ErrCodeInvalidInput.
func Aggregated(name string, steps []tech.Step, opts Options) (*flow.Graph, error) {
	opts = opts.withDefaults()

	g := flow.New(name)
	g.SetComment(name)
	g.SetAttrs(opts.Attrs)
	g.Meta()[MetaForm] = string(tech.FormAggregated)
	g.Meta()[MetaSteps] = len(steps)

	processes := make(map[string]struct{})
	carriers := make(map[string]struct{})

	for i, s := range steps {
		if s.Process == "" {
			continue
		}
		if _, seen := processes[s.Process]; !seen {
			processes[s.Process] = struct{}{}
			if _, err := g.EnsureNode(flow.Node{ID: s.Process, Kind: flow.NodeKindProcess, Style: opts.Process}); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: add process %q", name, s.Process)
			}
		}

		for _, c := range s.Inputs {
			if err := ensureCarrier(g, carriers, c, opts); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: step %d has a blank input carrier", name, i+1)
			}
			if err := g.AddEdge(flow.Edge{From: c, To: s.Process}); err != nil {
				return nil, edgeError(err, name, c, s.Process)
			}
		}
		for _, c := range s.Outputs {
			if err := ensureCarrier(g, carriers, c, opts); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: step %d has a blank output carrier", name, i+1)
			}
			if err := g.AddEdge(flow.Edge{From: s.Process, To: c}); err != nil {
				return nil, edgeError(err, name, s.Process, c)
			}
		}
	}
	return g, nil
}

// ensureCarrier adds a carrier node the first time name is seen in this
// build. A carrier sharing its name with a process reuses the process node.
func ensureCarrier(g *flow.Graph, seen map[string]struct{}, name string, opts Options) error {
	if _, ok := seen[name]; ok {
		return nil
	}
	if _, err := g.EnsureNode(flow.Node{ID: name, Kind: flow.NodeKindCarrier, Style: opts.Carrier}); err != nil {
		return err
	}
	seen[name] = struct{}{}
	return nil
}

func edgeError(err error, graph, from, to string) error {
	return errors.Wrap(errors.ErrCodeInternal, err, "%s: add edge %q -> %q", graph, from, to)
}
