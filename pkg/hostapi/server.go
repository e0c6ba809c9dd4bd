// Package hostapi exposes the layout grid, the host state slot, record
// search and the project to a browser renderer over HTTP.
//
// Routes:
//
//	GET    /api/version
//	GET    /api/layout               current grid
//	PUT    /api/layout               publish a grid verbatim
//	POST   /api/layout/nodes         merge one node into the grid
//	POST   /api/nodes/{id}/point     deliver a point event to a chart
//	GET    /api/state                host state slot
//	PATCH  /api/state                merge keys into the state slot
//	GET    /api/search/{type}?q=     search one record collection
//	GET    /api/project              project description
//	POST   /api/project/cleanup      clear the repository pools
//	POST   /api/views                run a view
//	GET    /api/views/{name}         last result of a view
package hostapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/layout"
	"github.com/matzehuels/facetkit/pkg/pipeline"
	"github.com/matzehuels/facetkit/pkg/project"
	"github.com/matzehuels/facetkit/pkg/query"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Options configures a [Server]. Publisher and Searcher are required;
// routes for a nil Project or Runner answer 501.
type Options struct {
	Publisher *layout.Publisher
	Searcher  query.Searcher
	Project   *project.Project
	Runner    *pipeline.Runner
	Logger    *log.Logger
}

// Server serves the host API.
type Server struct {
	pub      *layout.Publisher
	searcher query.Searcher
	project  *project.Project
	runner   *pipeline.Runner
	logger   *log.Logger
	router   chi.Router
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		pub:      opts.Publisher,
		searcher: opts.Searcher,
		project:  opts.Project,
		runner:   opts.Runner,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)

		r.Get("/layout", s.handleGetLayout)
		r.Put("/layout", s.handlePutLayout)
		r.Post("/layout/nodes", s.handlePostNode)
		r.Post("/nodes/{id}/point", s.handlePoint)

		r.Get("/state", s.handleGetState)
		r.Patch("/state", s.handlePatchState)

		r.Get("/search/{type}", s.handleSearch)

		r.Get("/project", s.handleProject)
		r.Post("/project/cleanup", s.handleCleanup)

		r.Post("/views", s.handleRunView)
		r.Get("/views/{name}", s.handleSnapshot)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := code.HTTPStatus()
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: errors.UserMessage(err)}})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
