package api

import (
	"net/http"

	"woodpecker/internal/models"
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	period := models.LeaderboardPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = models.PeriodWeekly
	}
	limit := queryInt(r, "limit", 25)
	offset := queryInt(r, "offset", 0)

	entries, err := s.LeaderboardService.Get(r.Context(), period, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"period":  period,
		"entries": entries,
	})
}
