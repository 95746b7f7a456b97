package dashboard

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/techflow/pkg/buildinfo"
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/io"
	"github.com/matzehuels/techflow/pkg/render"
	"github.com/matzehuels/techflow/pkg/tech"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Source  string `json:"source"`
	Form    string `json:"form"`
}

// ListResponse is the body of GET /api/technologies.
type ListResponse struct {
	Query        string   `json:"query"`
	Form         string   `json:"form"`
	Count        int      `json:"count"`
	Technologies []string `json:"technologies"`
}

// TechnologyResponse is the body of GET /api/technologies/{id}.
type TechnologyResponse struct {
	ID         string           `json:"id"`
	Form       string           `json:"form"`
	TypeSpec   string           `json:"type_spec,omitempty"`
	Technology *tech.Technology `json:"technology,omitempty"`
	Graph      io.Document      `json:"graph"`
}

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Source:  s.runner.Source(),
		Form:    string(s.runner.Form()),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	ids, err := s.runner.IDs(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ListResponse{
		Query:        q,
		Form:         string(s.runner.Form()),
		Count:        len(ids),
		Technologies: ids,
	})
}

func (s *Server) handleTechnology(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	g, err := s.runner.Build(r.Context(), id, s.opts.Diagram)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := TechnologyResponse{
		ID:    id,
		Form:  string(s.runner.Form()),
		Graph: io.Encode(g),
	}
	if t, ok := s.runner.Technology(id); ok {
		resp.Technology = &t
		resp.TypeSpec = t.TypeSpec()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	f := render.Format(strings.ToLower(chi.URLParam(r, "format")))
	if !slices.Contains(render.Formats, f) {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f))
		return
	}

	opts := s.opts
	opts.Formats = []render.Format{f}
	opts.Refresh = r.URL.Query().Has("refresh")
	res, err := s.runner.Execute(r.Context(), pathID(r), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("X-Graph-Hash", res.GraphHash)
	if res.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(res.Artifacts[f])
}

// pathID returns the decoded {id} parameter. Identifiers may contain spaces
// and other characters that arrive escaped.
func pathID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeError(w, r, status, string(errors.GetCode(err)), errors.UserMessage(err))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:     msg,
		Code:      code,
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
