package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/deptiers/pkg/buildinfo"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
	"github.com/matzehuels/deptiers/pkg/graph"
	"github.com/matzehuels/deptiers/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	opts, err := layoutQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondLayout(w, r, "demo", deps.Demo(), opts)
}

// handleLayout lays out the request body. The body format comes from
// ?format= (json, yaml, toml), or ?manifest=package.json for a manifest.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	records, err := readRecords(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := layoutQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondLayout(w, r, "upload", records, opts)
}

// handleRender renders a pipeline request. The body is a JSON
// pipeline.Options naming records, demo or a manifest. A null record list
// renders the empty state. ?format= selects a single output format and
// overrides the body's formats.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var req renderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.options()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	opts.Formats = []string{format}
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Layout-Hash", res.LayoutHash)
	w.Header().Set("X-Cache-Hit", strconv.FormatBool(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatTable:    "text/plain; charset=utf-8",
	pipeline.FormatMarkdown: "text/markdown; charset=utf-8",
	pipeline.FormatCSV:      "text/csv; charset=utf-8",
}

// snapshotRequest is the JSON body of POST /api/snapshots.
type snapshotRequest struct {
	Name    string        `json:"name"`
	Records []deps.Record `json:"records"`
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if r.URL.Query().Has("manifest") || r.URL.Query().Has("format") {
		records, err := readRecords(w, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		req = snapshotRequest{Name: r.URL.Query().Get("name"), Records: records}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	snap, err := s.store.Save(r.Context(), req.Name, req.Records)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.hub.Broadcast(Message{Type: TypeSnapshot, Snapshot: snap.ID})
	w.Header().Set("Location", "/api/snapshots/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnapshotLayout(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := layoutQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondLayout(w, r, "snapshot:"+snap.ID, snap.Records, opts)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.hub.serve(conn)
}

// respondLayout computes, returns and publishes the layout of records.
func (s *Server) respondLayout(w http.ResponseWriter, r *http.Request, source string, records []deps.Record, opts pipeline.Options) {
	opts.Logger = s.logger
	res, _, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), records, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l := graph.FromResult(res)
	s.hub.PublishLayout(source, l)

	w.Header().Set("X-Cache-Hit", strconv.FormatBool(hit))
	writeJSON(w, http.StatusOK, l)
}
