package api

import (
	"net/http"

	"github.com/meur/raidmap/internal/aggregate"
	"github.com/meur/raidmap/internal/metrics"
	"github.com/meur/raidmap/internal/models"
)

type loginRequest struct {
	Password string `json:"password"`
}

// handleLogin exchanges the admin password for a bearer token.
// The token is the password itself.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ok := s.gate.CheckPassword(req.Password)
	metrics.RecordLogin(ok)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   req.Password,
	})
}

// handleGetMaps returns the map catalog
func (s *Server) handleGetMaps(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"maps": models.Maps(),
	})
}

// handleGetStats returns marker counts per map and type
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	markers := s.repo.GetAllMarkers(r.Context())
	keys := s.repo.GetAllKeys(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"counts":        aggregate.CountsByMapAndType(markers, models.Maps()),
		"total_markers": len(markers),
		"total_keys":    len(keys),
	})
}

// handleGetGroupedMarkers returns markers bucketed by "<mapId>_<type>"
func (s *Server) handleGetGroupedMarkers(w http.ResponseWriter, r *http.Request) {
	markers := s.repo.GetAllMarkers(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"groups":      aggregate.GroupByMapAndType(markers),
		"total_count": len(markers),
	})
}

// handleDebugMarkers returns a summary of the whole collection
func (s *Server) handleDebugMarkers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, aggregate.Summarize(s.repo.GetAllMarkers(r.Context())))
}
