package flow

import (
	"errors"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New("t")

	if err := g.AddNode(Node{ID: "boiler"}); err != nil {
		t.Fatalf("AddNode() error: %v", err)
	}
	if err := g.AddNode(Node{ID: "boiler"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode() duplicate error = %v, want %v", err, ErrDuplicateNodeID)
	}
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode() empty error = %v, want %v", err, ErrInvalidNodeID)
	}

	n, ok := g.Node("boiler")
	if !ok {
		t.Fatal("Node() not found")
	}
	if n.Meta == nil {
		t.Error("AddNode() should initialize Meta")
	}
}

func TestEnsureNodeDeduplicates(t *testing.T) {
	g := New("t")

	first, err := g.EnsureNode(Node{ID: "Heat", Kind: NodeKindCarrier, Style: Style{FillColor: "lightgrey"}})
	if err != nil {
		t.Fatalf("EnsureNode() error: %v", err)
	}
	second, err := g.EnsureNode(Node{ID: "Heat", Kind: NodeKindProcess, Style: Style{FillColor: "red"}})
	if err != nil {
		t.Fatalf("EnsureNode() error: %v", err)
	}

	if first != second {
		t.Error("EnsureNode() should return the existing node")
	}
	if second.Kind != NodeKindCarrier || second.Style.FillColor != "lightgrey" {
		t.Errorf("EnsureNode() modified existing node: %+v", second)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}

	if _, err := g.EnsureNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("EnsureNode() empty error = %v, want %v", err, ErrInvalidNodeID)
	}
}

func TestAddEdge(t *testing.T) {
	g := New("t")
	g.AddNode(Node{ID: "Gas", Kind: NodeKindCarrier})
	g.AddNode(Node{ID: "boiler"})

	if err := g.AddEdge(Edge{From: "Gas", To: "boiler", Label: "1.0 kWh"}); err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}
	if err := g.AddEdge(Edge{From: "Gas", To: "boiler"}); err != nil {
		t.Fatalf("AddEdge() repeated edge error: %v", err)
	}
	if err := g.AddEdge(Edge{From: "Oil", To: "boiler"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge() unknown source error = %v", err)
	}
	if err := g.AddEdge(Edge{From: "Gas", To: "chp"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge() unknown target error = %v", err)
	}

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if got := g.EdgesBetween("Gas", "boiler"); len(got) != 2 || got[0].Label != "1.0 kWh" {
		t.Errorf("EdgesBetween() = %+v", got)
	}
	if got := g.Inputs("boiler"); len(got) != 2 || got[0] != "Gas" {
		t.Errorf("Inputs() = %v", got)
	}
	if got := g.Outputs("Gas"); len(got) != 2 {
		t.Errorf("Outputs() = %v", got)
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := New("t")
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(Node{ID: id, Kind: NodeKindCarrier})
	}
	g.AddNode(Node{ID: "p", Kind: NodeKindProcess})

	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	want := []string{"c", "a", "b", "p"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Nodes() order = %v, want %v", ids, want)
		}
	}

	if got := g.NodesOfKind(NodeKindProcess); len(got) != 1 || got[0].ID != "p" {
		t.Errorf("NodesOfKind(process) = %v", got)
	}
	if got := g.NodesOfKind(NodeKindCarrier); len(got) != 3 {
		t.Errorf("NodesOfKind(carrier) returned %d nodes, want 3", len(got))
	}
}

func TestEdgesIsCopy(t *testing.T) {
	g := New("t")
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	g.AddEdge(Edge{From: "a", To: "b", Label: "x"})

	edges := g.Edges()
	edges[0].Label = "changed"

	if g.Edges()[0].Label != "x" {
		t.Error("Edges() should return a copy")
	}
}

func TestDefaultAttrs(t *testing.T) {
	g := New("t")
	a := g.Attrs()
	if a.RankDir != "LR" {
		t.Errorf("RankDir = %q, want %q", a.RankDir, "LR")
	}
	if a.Splines != "ortho" {
		t.Errorf("Splines = %q, want %q", a.Splines, "ortho")
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := (Node{ID: "id"}).DisplayLabel(); got != "id" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "id")
	}
	if got := (Node{ID: "id", Label: "wrapped_\nid"}).DisplayLabel(); got != "wrapped_\nid" {
		t.Errorf("DisplayLabel() = %q", got)
	}
}

func TestDiagnostics(t *testing.T) {
	g := New("t")
	g.AddDiagnostics(
		Diagnostic{Kind: DiagLengthMismatch, Subject: "HP", Message: "Input lists have different lengths: [2 3 2]"},
		Diagnostic{Kind: DiagMainCarrierFallback, Subject: "HP", Message: "x"},
	)

	ds := g.Diagnostics()
	if len(ds) != 2 {
		t.Fatalf("Diagnostics() returned %d, want 2", len(ds))
	}
	want := "[length_mismatch] HP: Input lists have different lengths: [2 3 2]"
	if ds[0].String() != want {
		t.Errorf("String() = %q, want %q", ds[0].String(), want)
	}
}

func TestNodeKindString(t *testing.T) {
	if NodeKindProcess.String() != "process" {
		t.Errorf("NodeKindProcess.String() = %q", NodeKindProcess.String())
	}
	if NodeKindCarrier.String() != "carrier" {
		t.Errorf("NodeKindCarrier.String() = %q", NodeKindCarrier.String())
	}
}
