package api

import (
	"net/http"
)

func (s *Server) handleWeakPuzzles(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	weak, err := s.CycleService.GetWeakPuzzles(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"weak_puzzles": weak})
}

type submitReviewRequest struct {
	PuzzleID string `json:"puzzle_id"`
	Correct  bool   `json:"correct"`
	TimeMs   int64  `json:"time_ms"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req submitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.CycleService.SubmitReview(r.Context(), user.ID, req.PuzzleID, req.Correct, req.TimeMs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}
