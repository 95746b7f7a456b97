package dot

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/techflow/pkg/flow"
)

// ToDOT converts a flow graph to Graphviz DOT source.
func ToDOT(g *flow.Graph) string {
	var buf bytes.Buffer
	if c := g.Comment(); c != "" {
		for _, line := range strings.Split(c, "\n") {
			fmt.Fprintf(&buf, "// %s\n", line)
		}
	}
	fmt.Fprintf(&buf, "digraph %q {\n", g.Name())
	for _, a := range graphAttrs(g.Attrs()) {
		fmt.Fprintf(&buf, "  %s;\n", a)
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(*n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Label == "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func graphAttrs(a flow.Attrs) []string {
	var attrs []string
	if a.RankDir != "" {
		attrs = append(attrs, "rankdir="+a.RankDir)
	}
	if a.Splines != "" {
		attrs = append(attrs, "splines="+a.Splines)
	}
	if a.DPI > 0 {
		attrs = append(attrs, "dpi="+strconv.FormatFloat(a.DPI, 'f', -1, 64))
	}
	if a.Size != "" {
		attrs = append(attrs, fmt.Sprintf("size=%q", a.Size))
	}
	return attrs
}

func fmtAttrs(n flow.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.DisplayLabel())}
	if n.Style.Shape != "" {
		attrs = append(attrs, "shape="+quoteIfNeeded(n.Style.Shape))
	}
	if n.Style.Style != "" {
		attrs = append(attrs, "style="+quoteIfNeeded(n.Style.Style))
	}
	if n.Style.FillColor != "" {
		attrs = append(attrs, "fillcolor="+quoteIfNeeded(n.Style.FillColor))
	}
	if tip, ok := n.Meta[flow.MetaTooltip].(string); ok && tip != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", tip))
	}
	return attrs
}

// quoteIfNeeded leaves plain identifiers bare and quotes anything else,
// e.g. "rounded,filled" or "#ADD8E6".
func quoteIfNeeded(s string) string {
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return strconv.Quote(s)
		}
	}
	return s
}
