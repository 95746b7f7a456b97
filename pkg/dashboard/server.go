// Package dashboard serves the technology browser over HTTP.
//
// The HTML pages mirror the interactive workflow: type a keyword, pick a
// technology from the filtered list and look at its diagram, or open the
// batch page to see every filtered technology at once. A small JSON API
// exposes the same data for scripts:
//
//	GET /health
//	GET /api/technologies?q=heat
//	GET /api/technologies/{id}
//	GET /api/technologies/{id}/diagram.{dot|svg|png|json}
//
// All handlers share one [pipeline.Runner], so rendered diagrams are cached
// across requests.
package dashboard

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/techflow/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Server is the dashboard HTTP server.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	opts    pipeline.Options
	started time.Time
}

// New creates a server for a runner that already has a sheet loaded.
// opts supplies the diagram styles; its formats are chosen per request.
func New(runner *pipeline.Runner, logger *log.Logger, opts pipeline.Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:  runner,
		logger:  logger,
		opts:    opts,
		started: time.Now(),
	}
}

// Handler returns the router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/batch", s.handleBatch)
	r.Get("/health", s.handleHealth)

	r.Route("/api/technologies", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleTechnology)
		r.Get("/{id}/diagram.{format}", s.handleDiagram)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", addr, "source", s.runner.Source())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
