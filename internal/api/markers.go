package api

import (
	"net/http"

	"github.com/meur/raidmap/internal/models"
)

// handleGetMarkers returns the markers of ?mapId=, or every marker for admins
func (s *Server) handleGetMarkers(w http.ResponseWriter, r *http.Request) {
	var markers []models.Marker

	if mapID := r.URL.Query().Get("mapId"); mapID != "" {
		markers = s.repo.GetMarkersByMap(r.Context(), mapID)
	} else {
		if !s.isAdmin(r) {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		markers = s.repo.GetAllMarkers(r.Context())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"markers":     markers,
		"total_count": len(markers),
	})
}

// handleCreateMarker creates a marker
func (s *Server) handleCreateMarker(w http.ResponseWriter, r *http.Request) {
	var in models.MarkerInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := s.repo.CreateMarker(r.Context(), &in)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

// handleUpdateMarker applies a partial update to the marker ?id=
func (s *Server) handleUpdateMarker(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Missing id")
		return
	}

	var update models.MarkerUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	marker, err := s.repo.UpdateMarker(r.Context(), id, &update)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"marker":  marker,
	})
}

// handleDeleteMarker deletes the marker ?id=
func (s *Server) handleDeleteMarker(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Missing id")
		return
	}

	if err := s.repo.DeleteMarker(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
