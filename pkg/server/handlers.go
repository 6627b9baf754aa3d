package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stowage/pkg/buildinfo"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/render"
	"github.com/matzehuels/stowage/pkg/scene"
	"github.com/matzehuels/stowage/pkg/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.GetCode(err) == "" {
		switch {
		case stderrors.Is(err, store.ErrNotFound):
			err = errors.Wrap(errors.ErrCodePresetNotFound, err, "preset not found")
		case stderrors.Is(err, context.DeadlineExceeded):
			err = errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
		case stderrors.Is(err, render.ErrNoConverter):
			err = errors.Wrap(errors.ErrCodeUnsupported, err, "%s", render.ErrNoConverter.Error())
		}
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorBody{Error: errors.UserMessage(err), Code: code})
}

func notFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

// params resolves the base params (defaults or ?preset=) and overlays the
// request's fields.
func (s *Server) params(r *http.Request) (scene.Params, error) {
	base := s.defaults
	if ref := r.URL.Query().Get("preset"); ref != "" {
		p, err := store.Lookup(r.Context(), s.store, ref)
		if err != nil {
			return scene.Params{}, err
		}
		base = p.Params
	}

	p, err := paramsFromRequest(r, base)
	if err != nil {
		return scene.Params{}, err
	}
	if p.NumItems > s.maxItems {
		return scene.Params{}, errors.New(errors.ErrCodeInvalidInput,
			"num_items: %d exceeds the limit of %d", p.NumItems, s.maxItems)
	}
	return p, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p, err := s.params(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts := s.render
	opts.Params = p
	opts.Formats = []string{pipeline.FormatHTML}
	opts.APIBase = "."
	s.serveArtifact(w, r, opts, pipeline.FormatHTML, false)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	p, err := s.params(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts := s.render
	opts.Params = p
	opts.Formats = []string{pipeline.FormatJSON}
	s.serveArtifact(w, r, opts, pipeline.FormatJSON, false)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.params(r)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := s.render
	opts.Params = p
	opts.Formats = []string{format}
	opts.APIBase = ""
	if err := renderOptions(r.URL.Query(), &opts); err != nil {
		writeError(w, err)
		return
	}
	if opts.MeshCells > DefaultMaxMeshCells {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"mesh_cells: %d exceeds the limit of %d", opts.MeshCells, DefaultMaxMeshCells))
		return
	}
	if opts.Width > DefaultMaxFrame || opts.Height > DefaultMaxFrame {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"frame %gx%g exceeds the limit of %d px per side", opts.Width, opts.Height, DefaultMaxFrame))
		return
	}
	s.serveArtifact(w, r, opts, format, true)
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string, download bool) {
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	if download && isBinary(format) {
		w.Header().Set("Content-Disposition", `attachment; filename="stowage`+pipeline.Extensions[format]+`"`)
	}
	w.Header().Set("ETag", `"`+res.SceneHash+`"`)
	_, _ = w.Write(res.Artifacts[format])
}

func isBinary(format string) bool {
	switch format {
	case pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatSTL, pipeline.FormatXLSX:
		return true
	}
	return false
}

// presetRequest is the body of POST /api/presets. Params are overlaid on
// the server defaults.
type presetRequest struct {
	ID     string          `json:"id,omitempty"`
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params"`
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return
	}

	p := s.defaults
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid params"))
			return
		}
	}

	preset := &store.Preset{ID: req.ID, Name: req.Name, Params: p}
	replaced, err := store.SaveNamed(r.Context(), s.store, preset)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if replaced {
		status = http.StatusOK
	}
	writeJSON(w, status, preset)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if presets == nil {
		presets = []store.Preset{}
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
