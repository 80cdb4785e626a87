package api

import (
	"net/http"

	"woodpecker/internal/logger"
	"woodpecker/internal/models"
)

type createUserRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.CreateUser(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, userFromContext(r.Context()))
}

type updateSettingsRequest struct {
	Timezone      string `json:"timezone"`
	WeakThreshold int    `json:"weak_threshold"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())

	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	settings := models.UserSettings{
		UserID:        user.ID,
		Timezone:      req.Timezone,
		WeakThreshold: req.WeakThreshold,
	}
	if err := s.UserService.UpdateSettings(r.Context(), settings); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("settings updated: user_id=%s", user.ID)
	respondJSON(w, http.StatusOK, settings)
}
