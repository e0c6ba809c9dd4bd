package hostapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/facetkit/pkg/buildinfo"
	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/pipeline"
	"github.com/matzehuels/facetkit/pkg/project"
	"github.com/matzehuels/facetkit/pkg/query"
	"github.com/matzehuels/facetkit/pkg/record"
	"github.com/matzehuels/facetkit/pkg/tree"
)

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Layout
// =============================================================================

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	grid, err := s.pub.Grid(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if grid == nil {
		grid = tree.Grid{}
	}
	writeJSON(w, http.StatusOK, grid)
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	var grid tree.Grid
	if err := decodeBody(r, &grid); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.pub.Layout(r.Context(), grid); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

func (s *Server) handlePostNode(w http.ResponseWriter, r *http.Request) {
	var node tree.Node
	if err := decodeBody(r, &node); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.pub.AutoUpdate(r.Context(), &node); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.handleGetLayout(w, r)
}

type pointRequest struct {
	Event  tree.PointEvent `json:"event"`
	Active bool            `json:"active"`
}

func (s *Server) handlePoint(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.pub.Dispatch(r.Context(), chi.URLParam(r, "id"), req.Event, req.Active); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// State
// =============================================================================

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	st, err := s.pub.State(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if st == nil {
		st = map[string]any{}
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handlePatchState(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.pub.SetState(r.Context(), patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.handleGetState(w, r)
}

// =============================================================================
// Search
// =============================================================================

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	if !query.IsType(typ) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidType, "unknown record type %q", typ))
		return
	}
	items, err := query.NewObject(typ, s.searcher, s.logger).Query(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []record.Record{}
	}
	writeJSON(w, http.StatusOK, items)
}

// =============================================================================
// Project
// =============================================================================

type projectResponse struct {
	*project.Project
	Exists bool     `json:"exists"`
	Pools  []string `json:"pools"`
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	if s.project == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no project configured"))
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{
		Project: s.project,
		Exists:  s.project.Exists(),
		Pools:   []string{project.PoolContainer, project.PoolContainerView, project.PoolPersistent},
	})
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if s.project == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no project configured"))
		return
	}
	if err := s.project.CleanupRepoPools(r.Context()); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStoreFailed, err, "cleanup repository pools"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Views
// =============================================================================

type viewResponse struct {
	View  string         `json:"view"`
	Node  *tree.Node     `json:"node"`
	Stats pipeline.Stats `json:"stats"`
}

func (s *Server) handleRunView(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "view runner not configured"))
		return
	}
	var v pipeline.View
	if err := decodeBody(r, &v); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Run(r.Context(), v)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{View: res.View, Node: res.Node, Stats: res.Stats})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "view runner not configured"))
		return
	}
	n, err := s.runner.Snapshot(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
