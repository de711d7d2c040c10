package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/buildinfo"
	"github.com/matzehuels/albumgrid/pkg/errors"
	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
	"github.com/matzehuels/albumgrid/pkg/storage"
)

// layoutRequest is the body of POST /v1/layout and POST /v1/layouts.
// Exactly one of Sizes and Album must be set.
type layoutRequest struct {
	Name    string           `json:"name,omitempty"`
	Sizes   []grouped.Size   `json:"sizes,omitempty"`
	Album   *album.Album     `json:"album,omitempty"`
	Options pipeline.Options `json:"options"`
}

// resolve returns the album described by the request.
func (req *layoutRequest) resolve() (*album.Album, error) {
	switch {
	case req.Album != nil && len(req.Sizes) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "set either sizes or album, not both")
	case req.Album != nil:
		if req.Name != "" && req.Album.Name == "" {
			req.Album.Name = req.Name
		}
		return req.Album, req.Album.Validate()
	case len(req.Sizes) > 0:
		a := album.FromSizes(req.Sizes)
		a.Name = req.Name
		return a, a.Validate()
	default:
		return nil, errors.New(errors.ErrCodeInvalidAlbum, "request has no sizes or album")
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type listResponse struct {
	Layouts []*storage.Record `json:"layouts"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
	})
}

// handleCompute lays out the request without storing it and returns the
// artifact selected by ?format= (json by default).
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	a, opts, err := s.decodeLayout(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	if err := applyRenderQuery(&opts, r.URL.Query()); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, layoutHit, err := s.cfg.Runner.ComputeLayoutWithCacheInfo(r.Context(), a.Sizes(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, renderHit, err := s.cfg.Runner.RenderWithCacheInfo(r.Context(), res, a.SourcePaths(""), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, format, artifacts[format], layoutHit && renderHit)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	a, opts, err := s.decodeLayout(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, hit, err := s.cfg.Runner.ComputeLayoutWithCacheInfo(r.Context(), a.Sizes(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts.Refresh = false
	rec := storage.NewRecord(a, opts, res)
	if err := s.cfg.Store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Debug("stored layout", "id", rec.ID, "items", len(res.Items), "strategy", res.Strategy, "cached", hit)

	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", v))
			return
		}
		limit = n
	}
	recs, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*storage.Record{}
	}
	s.writeJSON(w, http.StatusOK, listResponse{Layouts: recs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRender renders a stored layout. Query parameters override the stored
// render options for this response only.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := rec.Options
	opts.Formats = []string{format}
	// Paths in stored albums come from clients; never read them from disk.
	opts.DrawImages = false
	if err := applyRenderQuery(&opts, r.URL.Query()); err != nil {
		s.writeError(w, r, err)
		return
	}

	var paths []string
	if rec.Album != nil {
		paths = rec.Album.SourcePaths("")
	}
	artifacts, hit, err := s.cfg.Runner.RenderWithCacheInfo(r.Context(), rec.Layout, paths, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, format, artifacts[format], hit)
}

// decodeLayout reads a layoutRequest and returns its album and validated
// options, with album constraints applied.
func (s *Server) decodeLayout(w http.ResponseWriter, r *http.Request) (*album.Album, pipeline.Options, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req layoutRequest
	if err := dec.Decode(&req); err != nil {
		return nil, pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	a, err := req.resolve()
	if err != nil {
		return nil, pipeline.Options{}, err
	}

	opts := req.Options
	opts.ApplyAlbum(a)
	opts.Logger = s.log
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, pipeline.Options{}, err
	}
	return a, opts, nil
}

// applyRenderQuery overrides render options from radius, scale, background,
// labels and refresh query parameters.
func applyRenderQuery(opts *pipeline.Options, q url.Values) error {
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"radius", &opts.Radius},
		{"scale", &opts.Scale},
	} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", f.name, v)
		}
		*f.dst = n
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"labels", &opts.Labels},
		{"refresh", &opts.Refresh},
	} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", f.name, v)
		}
		*f.dst = b
	}
	return opts.ValidateForRender()
}

func (s *Server) writeArtifact(w http.ResponseWriter, format string, data []byte, cached bool) {
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(time.Hour.Seconds())))
	if cached {
		h.Set("X-Cache", "hit")
	} else {
		h.Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
