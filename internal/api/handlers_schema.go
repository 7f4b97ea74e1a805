package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/Jaganpro/sf-schema-viewer/pkg/errors"
	"github.com/Jaganpro/sf-schema-viewer/pkg/pipeline"
)

// handleListObjects returns the org's queryable sObjects for the object
// picker.
func (s *Server) handleListObjects(w http.ResponseWriter, r *http.Request) {
	client, err := s.sfClient(sessionFromContext(r.Context()), r.URL.Query().Get("api_version"))
	if err != nil {
		writeError(w, err)
		return
	}

	objects, err := client.ListObjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sobjects": objects})
}

func (s *Server) handleDescribeObject(w http.ResponseWriter, r *http.Request) {
	client, err := s.sfClient(sessionFromContext(r.Context()), r.URL.Query().Get("api_version"))
	if err != nil {
		writeError(w, err)
		return
	}

	describe, err := client.DescribeObject(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, describe)
}

type describeBatchRequest struct {
	ObjectNames []string `json:"object_names"`
	APIVersion  string   `json:"api_version,omitempty"`
}

// handleDescribeBatch describes several objects in one request. Objects
// that fail to describe come back in the errors map rather than failing
// the whole batch.
func (s *Server) handleDescribeBatch(w http.ResponseWriter, r *http.Request) {
	var req describeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if len(req.ObjectNames) == 0 {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "object_names is required"))
		return
	}
	if len(req.ObjectNames) > pipeline.MaxObjects {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput,
			"too many objects: %d (max %d)", len(req.ObjectNames), pipeline.MaxObjects))
		return
	}

	client, err := s.sfClient(sessionFromContext(r.Context()), req.APIVersion)
	if err != nil {
		writeError(w, err)
		return
	}

	batch, err := client.DescribeObjects(r.Context(), req.ObjectNames)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleAPIVersions(w http.ResponseWriter, r *http.Request) {
	client, err := s.sfClient(sessionFromContext(r.Context()), "")
	if err != nil {
		writeError(w, err)
		return
	}

	versions, err := client.APIVersions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": versions})
}

type diagramRequest struct {
	ObjectNames       []string `json:"object_names"`
	APIVersion        string   `json:"api_version,omitempty"`
	Formats           []string `json:"formats,omitempty"`
	Refresh           bool     `json:"refresh,omitempty"`
	ShowFields        bool     `json:"show_fields"`
	ShowLabels        bool     `json:"show_labels"`
	ShowCardinalities bool     `json:"show_cardinalities"`
}

type diagramResponse struct {
	GraphHash string            `json:"graph_hash"`
	Stats     pipeline.Stats    `json:"stats"`
	Errors    map[string]string `json:"errors,omitempty"`
	Layout    json.RawMessage   `json:"layout,omitempty"`
	SVG       string            `json:"svg,omitempty"`
	DOT       string            `json:"dot,omitempty"`
}

// handleDiagram runs the full pipeline server-side: describe the
// requested objects, lay them out, and return the rendered artifacts.
func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	client, err := s.sfClient(sessionFromContext(r.Context()), req.APIVersion)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), client, pipeline.Options{
		Objects:           req.ObjectNames,
		APIVersion:        req.APIVersion,
		Formats:           req.Formats,
		Refresh:           req.Refresh,
		ShowFields:        req.ShowFields,
		ShowLabels:        req.ShowLabels,
		ShowCardinalities: req.ShowCardinalities,
		Logger:            s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := diagramResponse{
		GraphHash: result.GraphHash,
		Stats:     result.Stats,
	}
	if result.Describes != nil {
		resp.Errors = result.Describes.Errors
	}
	if data, ok := result.Artifacts[pipeline.FormatJSON]; ok {
		resp.Layout = json.RawMessage(data)
	}
	if data, ok := result.Artifacts[pipeline.FormatSVG]; ok {
		resp.SVG = string(data)
	}
	if data, ok := result.Artifacts[pipeline.FormatDOT]; ok {
		resp.DOT = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}
