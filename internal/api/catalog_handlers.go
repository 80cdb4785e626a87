package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"woodpecker/internal/errors"
	"woodpecker/internal/logger"
)

type catalogImportRequest struct {
	Path string `json:"path"`
}

// handleCatalogImport either ingests an uploaded CSV body directly or,
// given a JSON {"path": ...} request, queues a background fetch from the
// configured catalog service.
func (s *Server) handleCatalogImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		report, err := s.ImportService.ImportCSV(r.Context(), r.Body)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, report)
		return
	}

	var req catalogImportRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Path == "" {
		handleError(w, r, errors.NewValidationError("path", "must not be empty"))
		return
	}

	if err := s.JobQueue.EnqueueCatalogImport(req.Path); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	log.Info("catalog import queued: path=%s", req.Path)
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// handleImportPuzzle fetches one puzzle by id from the remote catalog.
func (s *Server) handleImportPuzzle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		handleError(w, r, errors.NewValidationError("id", "must not be empty"))
		return
	}

	puzzle, err := s.ImportService.ImportPuzzle(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, puzzle)
}
