package api

import (
	"net/http"

	"github.com/akshatgupta/notetube/errors"
	"github.com/akshatgupta/notetube/export"
	"github.com/akshatgupta/notetube/models"
	"github.com/akshatgupta/notetube/repository"
	"github.com/akshatgupta/notetube/services/notes"
	"github.com/akshatgupta/notetube/validation"
	"github.com/sirupsen/logrus"
)

type NotesHandler struct {
	service      notes.Service
	settingsRepo repository.SettingsRepository
	validator    *validation.Validator
	logger       *logrus.Logger
}

func NewNotesHandler(
	service notes.Service,
	settingsRepo repository.SettingsRepository,
	validator *validation.Validator,
) *NotesHandler {
	return &NotesHandler{
		service:      service,
		settingsRepo: settingsRepo,
		validator:    validator,
		logger:       logrus.StandardLogger(),
	}
}

type generateNotesRequest struct {
	VideoInfo models.VideoInfo           `json:"video_info"`
	Segments  []models.TranscriptSegment `json:"segments"`
	Settings  *models.Settings           `json:"settings,omitempty"`
}

// HandleGenerate handles POST /api/notes
func (h *NotesHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "NotesHandler.HandleGenerate"
	logger := h.logger.WithContext(r.Context())

	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: 10 * 1024 * 1024, // transcripts can be large
		AllowedMethods:   []string{http.MethodPost},
		RequireJSON:      true,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	var req generateNotesRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.validator.ValidateVideoID(req.VideoInfo.VideoID); err != nil {
		respondError(w, r, err)
		return
	}
	if req.VideoInfo.URL != "" {
		if err := h.validator.ValidateURL(req.VideoInfo.URL); err != nil {
			respondError(w, r, err)
			return
		}
	}

	// Per-request settings win; otherwise use the stored preferences.
	settings := models.DefaultSettings()
	if req.Settings != nil {
		settings = req.Settings.Normalize()
	} else if stored, err := h.settingsRepo.Get(r.Context()); err == nil {
		settings = stored
	}

	logger.WithFields(logrus.Fields{
		"video_id":      req.VideoInfo.VideoID,
		"segments":      len(req.Segments),
		"summary_depth": string(settings.SummaryDepth),
	}).Info("Received note generation request")

	result, err := h.service.GenerateNotes(r.Context(), notes.GenerateRequest{
		VideoInfo: req.VideoInfo,
		Segments:  req.Segments,
		Settings:  settings,
	})
	if err != nil {
		logger.WithError(err).Error("Note generation failed")
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}

// HandleGet handles GET /api/notes
func (h *NotesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "NotesHandler.HandleGet"

	videoID := r.URL.Query().Get("video_id")
	if videoID == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "video_id parameter is required"))
		return
	}

	note, err := h.service.GetCached(r.Context(), videoID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.NewNoteResponse(note))
}

// HandleClear handles DELETE /api/notes
func (h *NotesHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.service.ClearCache(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.logger.WithField("cleared", cleared).Info("Cache cleared")
	respondJSON(w, r, http.StatusOK, map[string]int{"cleared": cleared})
}

// HandleExport handles GET /api/notes/export
func (h *NotesHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "NotesHandler.HandleExport"

	videoID := r.URL.Query().Get("video_id")
	if videoID == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "video_id parameter is required"))
		return
	}

	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		respondError(w, r, errors.InvalidInput(op, nil, "Unsupported export format"))
		return
	}

	note, err := h.service.GetCached(r.Context(), videoID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var content string
	switch format {
	case export.FormatText:
		content = export.AsText(note)
	case export.FormatHTML:
		content = export.AsHTML(note)
	default:
		content, err = export.AsMarkdown(note)
		if err != nil {
			respondError(w, r, errors.Internal(op, err, "Failed to render export"))
			return
		}
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+export.Filename(note.VideoInfo.Title, format)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

// HandleStatus handles GET /api/notes/status
func (h *NotesHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.service.Status())
}
