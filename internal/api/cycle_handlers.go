package api

import (
	"net/http"
)

func (s *Server) handleStartCycle(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	setID, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cycle, err := s.CycleService.StartCycle(r.Context(), setID, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, cycle)
}

func (s *Server) handleActiveCycle(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	setID, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cycle, err := s.CycleService.GetActiveCycle(r.Context(), setID, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cycle)
}

type submitAttemptRequest struct {
	PuzzleID string `json:"puzzle_id"`
	Correct  bool   `json:"correct"`
	Skipped  bool   `json:"skipped"`
	TimeMs   int64  `json:"time_ms"`
}

func (s *Server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	cycleID, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req submitAttemptRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.CycleService.SubmitAttempt(r.Context(), cycleID, user.ID, req.PuzzleID, req.Correct, req.Skipped, req.TimeMs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleCompleteCycle(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	cycleID, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	completion, err := s.CycleService.CompleteCycle(r.Context(), cycleID, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, completion)
}
