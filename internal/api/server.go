package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"woodpecker/internal/jobs"
	"woodpecker/internal/services"
)

// Server wires the HTTP layer to the service layer. All endpoints speak
// JSON; authentication is the caller's identity header, resolved to a
// user by userMiddleware.
type Server struct {
	DB                 *sql.DB
	UserService        services.UserService
	SetService         services.SetService
	CycleService       services.CycleService
	ProgressService    services.ProgressService
	LeaderboardService services.LeaderboardService
	ImportService      services.ImportService
	JobQueue           jobs.JobQueue
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Post("/users", s.handleCreateUser)
	r.Post("/catalog/import", s.handleCatalogImport)
	r.Post("/catalog/puzzles/{id}", s.handleImportPuzzle)

	// Everything below requires a resolved user.
	r.Group(func(r chi.Router) {
		r.Use(s.userMiddleware)

		r.Get("/users/me", s.handleGetUser)
		r.Put("/settings", s.handleUpdateSettings)

		r.Post("/sets", s.handleCreateSet)
		r.Get("/sets", s.handleListSets)
		r.Get("/sets/{id}", s.handleGetSet)
		r.Post("/sets/{id}/cycles", s.handleStartCycle)
		r.Get("/sets/{id}/cycles/active", s.handleActiveCycle)

		r.Post("/cycles/{id}/attempts", s.handleSubmitAttempt)
		r.Post("/cycles/{id}/complete", s.handleCompleteCycle)

		r.Get("/review", s.handleWeakPuzzles)
		r.Post("/review/attempts", s.handleSubmitReview)

		r.Get("/progress", s.handleProgress)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/leaderboard", s.handleLeaderboard)
	})

	return r
}
