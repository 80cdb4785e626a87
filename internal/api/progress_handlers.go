package api

import (
	"net/http"
)

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	summary, err := s.ProgressService.Summary(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	unlocked, err := s.ProgressService.ListAchievements(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"achievements": unlocked})
}
