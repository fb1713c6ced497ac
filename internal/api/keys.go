package api

import (
	"net/http"

	"github.com/meur/raidmap/internal/models"
)

// handleGetKeys returns the keys of ?mapId=, or every key for admins
func (s *Server) handleGetKeys(w http.ResponseWriter, r *http.Request) {
	var keys []models.Key

	if mapID := r.URL.Query().Get("mapId"); mapID != "" {
		keys = s.repo.GetKeysByMap(r.Context(), mapID)
	} else {
		if !s.isAdmin(r) {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		keys = s.repo.GetAllKeys(r.Context())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"keys":        keys,
		"total_count": len(keys),
	})
}

func (s *Server) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	var in models.KeyInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := s.repo.CreateKey(r.Context(), &in)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

func (s *Server) handleUpdateKey(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Missing id")
		return
	}

	var update models.KeyUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key, err := s.repo.UpdateKey(r.Context(), id, &update)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"key":     key,
	})
}

func (s *Server) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Missing id")
		return
	}

	if err := s.repo.DeleteKey(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
