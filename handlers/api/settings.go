package api

import (
	"net/http"

	"github.com/akshatgupta/notetube/errors"
	"github.com/akshatgupta/notetube/models"
	"github.com/akshatgupta/notetube/repository"
	"github.com/sirupsen/logrus"
)

type SettingsHandler struct {
	repo   repository.SettingsRepository
	logger *logrus.Logger
}

func NewSettingsHandler(repo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{
		repo:   repo,
		logger: logrus.StandardLogger(),
	}
}

// HandleGet handles GET /api/settings
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repo.Get(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, settings)
}

// HandlePut handles PUT /api/settings
func (h *SettingsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "SettingsHandler.HandlePut"

	var settings models.Settings
	if err := readJSON(r, &settings); err != nil {
		respondError(w, r, err)
		return
	}

	if settings.SummaryDepth != "" && !settings.SummaryDepth.IsValid() {
		respondError(w, r, errors.InvalidInput(op, nil, "Invalid summary depth"))
		return
	}

	normalized := settings.Normalize()
	if err := h.repo.Save(r.Context(), normalized); err != nil {
		respondError(w, r, err)
		return
	}

	h.logger.WithField("summary_depth", string(normalized.SummaryDepth)).Info("Settings updated")
	respondJSON(w, r, http.StatusOK, normalized)
}
