package dashboard

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"slices"

	"github.com/matzehuels/techflow/pkg/buildinfo"
	"github.com/matzehuels/techflow/pkg/diagram"
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/pipeline"
	"github.com/matzehuels/techflow/pkg/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// diagramView is one rendered technology on a page.
type diagramView struct {
	ID          string
	TypeSpec    string
	Description string
	SVG         template.HTML
	Diagnostics []flow.Diagnostic
	Error       string
}

// indexPage is the view model of GET /.
type indexPage struct {
	Version  string
	Source   string
	Form     string
	Query    string
	IDs      []string
	Selected string
	Diagram  *diagramView
	Error    string
}

// batchPage is the view model of GET /batch.
type batchPage struct {
	Version  string
	Source   string
	Query    string
	Diagrams []diagramView
	Failed   int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page := indexPage{
		Version: buildinfo.Version,
		Source:  s.runner.Source(),
		Form:    string(s.runner.Form()),
		Query:   q,
	}

	ids, err := s.runner.IDs(q)
	if err != nil {
		page.Error = errors.UserMessage(err)
		s.page(w, http.StatusInternalServerError, "index.html", page)
		return
	}
	page.IDs = ids

	selected := r.URL.Query().Get("id")
	if selected == "" || !slices.Contains(ids, selected) {
		if len(ids) > 0 {
			selected = ids[0]
		} else {
			selected = ""
		}
	}
	page.Selected = selected

	if selected != "" {
		d := s.diagram(r, selected)
		page.Diagram = &d
	}
	s.page(w, http.StatusOK, "index.html", page)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page := batchPage{
		Version: buildinfo.Version,
		Source:  s.runner.Source(),
		Query:   q,
	}

	ids, err := s.runner.IDs(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := s.svgOptions()
	items := s.runner.Batch(r.Context(), ids, opts, nil)
	for _, it := range items {
		d := diagramView{ID: it.ID}
		if it.Err != nil {
			d.Error = errors.UserMessage(it.Err)
			page.Failed++
		} else {
			s.fill(&d, it.Result)
		}
		page.Diagrams = append(page.Diagrams, d)
	}
	s.page(w, http.StatusOK, "batch.html", page)
}

func (s *Server) diagram(r *http.Request, id string) diagramView {
	d := diagramView{ID: id}
	res, err := s.runner.Execute(r.Context(), id, s.svgOptions())
	if err != nil {
		d.Error = errors.UserMessage(err)
		return d
	}
	s.fill(&d, res)
	return d
}

func (s *Server) fill(d *diagramView, res *pipeline.Result) {
	d.SVG = inlineSVG(res.Artifacts[render.FormatSVG])
	d.Diagnostics = res.Diagnostics()
	if t, ok := s.runner.Technology(d.ID); ok {
		d.TypeSpec = t.TypeSpec()
		d.Description = t.Description
	} else if spec, ok := res.Graph.Meta()[diagram.MetaTypeSpec].(string); ok {
		d.TypeSpec = spec
	}
}

func (s *Server) svgOptions() pipeline.Options {
	opts := s.opts
	opts.Formats = []render.Format{render.FormatSVG}
	return opts
}

func (s *Server) page(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template failed", "template", name, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// inlineSVG strips the XML prolog and doctype Graphviz emits so the
// document can be embedded in HTML.
func inlineSVG(b []byte) template.HTML {
	if i := bytes.Index(b, []byte("<svg")); i > 0 {
		b = b[i:]
	}
	return template.HTML(b)
}
