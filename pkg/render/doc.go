// Package render turns technology flow graphs into files.
//
// The [dot] subpackage emits Graphviz DOT source and renders it in-process
// to SVG or PNG. JSON graph descriptions live in [io].
//
//	src := dot.ToDOT(g)
//	svg, err := dot.RenderSVG(ctx, src)
//
// [dot]: github.com/matzehuels/techflow/pkg/render/dot
// [io]: github.com/matzehuels/techflow/pkg/io
package render

// Format names an output artifact type.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatDOT, FormatSVG, FormatPNG, FormatJSON}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}
