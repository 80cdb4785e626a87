package api

import (
	"net/http"
)

type createSetRequest struct {
	MinRating  int    `json:"min_rating"`
	MaxRating  int    `json:"max_rating"`
	Size       int    `json:"size"`
	FocusTheme string `json:"focus_theme"`
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req createSetRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.SetService.CreateSet(r.Context(), user.ID, req.MinRating, req.MaxRating, req.Size, req.FocusTheme)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, set)
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	sets, err := s.SetService.ListSets(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sets)
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.SetService.GetSet(r.Context(), id, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, set)
}
