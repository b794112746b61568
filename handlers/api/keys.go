package api

import (
	"net/http"

	"github.com/akshatgupta/notetube/openai"
	"github.com/akshatgupta/notetube/validation"
	"github.com/sirupsen/logrus"
)

type KeyHandler struct {
	client    openai.Client
	validator *validation.Validator
	logger    *logrus.Logger
}

func NewKeyHandler(client openai.Client, validator *validation.Validator) *KeyHandler {
	return &KeyHandler{
		client:    client,
		validator: validator,
		logger:    logrus.StandardLogger(),
	}
}

type validateKeyRequest struct {
	APIKey string `json:"api_key"`
}

type validateKeyResponse struct {
	Valid bool `json:"valid"`
}

// HandleValidate handles POST /api/key/validate
func (h *KeyHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateKeyRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	// Format check first to avoid a round trip for obvious mistakes.
	if req.APIKey != "" {
		if err := h.validator.ValidateAPIKey(req.APIKey); err != nil {
			respondJSON(w, r, http.StatusOK, validateKeyResponse{Valid: false})
			return
		}
	}

	valid, err := h.client.ValidateKey(r.Context(), req.APIKey)
	if err != nil {
		h.logger.WithError(err).Warn("Key validation request failed")
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, validateKeyResponse{Valid: valid})
}
