package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jaganpro/sf-schema-viewer/pkg/cache"
	apperrors "github.com/Jaganpro/sf-schema-viewer/pkg/errors"
	"github.com/Jaganpro/sf-schema-viewer/pkg/pipeline"
	"github.com/Jaganpro/sf-schema-viewer/pkg/salesforce"
	"github.com/Jaganpro/sf-schema-viewer/pkg/session"
)

// dcClient builds a per-request Data Cloud client from the session, with
// the entity cache scoped to the session's org.
func (s *Server) dcClient(sess *session.Session) (*salesforce.DataCloudClient, error) {
	keyer := cache.NewScopedKeyer(s.keyer, sess.CacheScope())
	return salesforce.NewDataCloudClient(sess.InstanceURL, sess.AccessToken,
		salesforce.WithDataCloudCache(s.cache, keyer),
		salesforce.WithDataCloudLogger(s.logger))
}

// dataCloudStatus is the /api/datacloud/status response.
type dataCloudStatus struct {
	Enabled bool   `json:"is_enabled"`
	Error   string `json:"error,omitempty"`
}

// handleDataCloudStatus reports whether the org has Data Cloud
// provisioned. Probing an unprovisioned org is an expected outcome, so
// failures surface in the payload rather than as an error status.
func (s *Server) handleDataCloudStatus(w http.ResponseWriter, r *http.Request) {
	client, err := s.dcClient(sessionFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	enabled, err := client.CheckEnabled(r.Context())
	switch {
	case err != nil:
		writeJSON(w, http.StatusOK, dataCloudStatus{Error: apperrors.UserMessage(err)})
	case !enabled:
		writeJSON(w, http.StatusOK, dataCloudStatus{Error: "data cloud is not enabled for this org"})
	default:
		writeJSON(w, http.StatusOK, dataCloudStatus{Enabled: true})
	}
}

// handleDataCloudEntities lists DLOs and DMOs for the entity picker,
// optionally filtered by the entity_type query parameter.
func (s *Server) handleDataCloudEntities(w http.ResponseWriter, r *http.Request) {
	client, err := s.dcClient(sessionFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	entities, err := client.ListEntities(r.Context(), r.URL.Query().Get("entity_type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entities": entities})
}

func (s *Server) handleDataCloudDescribeEntity(w http.ResponseWriter, r *http.Request) {
	client, err := s.dcClient(sessionFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	describe, err := client.DescribeEntity(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, describe)
}

type dataCloudBatchRequest struct {
	EntityNames []string `json:"entity_names"`
}

// handleDataCloudDescribeBatch describes several entities in one
// request; per-entity failures come back in the errors map.
func (s *Server) handleDataCloudDescribeBatch(w http.ResponseWriter, r *http.Request) {
	var req dataCloudBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if len(req.EntityNames) == 0 {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "entity_names is required"))
		return
	}
	if len(req.EntityNames) > pipeline.MaxObjects {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput,
			"too many entities: %d (max %d)", len(req.EntityNames), pipeline.MaxObjects))
		return
	}

	client, err := s.dcClient(sessionFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	batch, err := client.DescribeEntities(r.Context(), req.EntityNames)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}
