package notes

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akshatgupta/notetube/errors"
	"github.com/akshatgupta/notetube/models"
	"github.com/akshatgupta/notetube/openai"
	"github.com/akshatgupta/notetube/validation"
	"github.com/sirupsen/logrus"
)

const (
	stateIdle int32 = iota
	stateProcessing
)

type service struct {
	noteRepo       NoteRepository
	transcriptRepo TranscriptRepository
	client         openai.Client
	validator      *validation.Validator
	progress       ProgressSink
	config         Config
	logger         *logrus.Logger

	// state is the Idle/Processing token guarding single-flight
	// execution; acquired by CompareAndSwap, released by defer.
	state atomic.Int32
}

// NewService creates the note generation service.
func NewService(
	noteRepo NoteRepository,
	transcriptRepo TranscriptRepository,
	client openai.Client,
	validator *validation.Validator,
	progress ProgressSink,
	config Config,
) Service {
	if config.Templates == nil {
		config.Templates = DefaultTemplates()
	}
	if config.Pricing == (Pricing{}) {
		config.Pricing = DefaultPricing()
	}

	return &service{
		noteRepo:       noteRepo,
		transcriptRepo: transcriptRepo,
		client:         client,
		validator:      validator,
		progress:       progress,
		config:         config,
		logger:         logrus.StandardLogger(),
	}
}

func (s *service) GenerateNotes(ctx context.Context, req GenerateRequest) (*models.GenerationResult, error) {
	const op = "NotesService.GenerateNotes"

	if !s.state.CompareAndSwap(stateIdle, stateProcessing) {
		return nil, errors.Conflict(op, nil, "Note generation already in progress")
	}
	defer s.state.Store(stateIdle)

	logger := s.logger.WithField("video_id", req.VideoInfo.VideoID)
	logger.Info("Starting note generation")

	if !s.client.HasCredential() {
		return nil, errors.Internal(op, nil, "OpenAI API key not configured")
	}

	// A request without segments reuses the cached transcript, so the
	// client can re-generate without re-scraping.
	fromCache := false
	if len(req.Segments) == 0 && s.transcriptRepo != nil {
		if cached, err := s.transcriptRepo.Find(ctx, req.VideoInfo.VideoID); err == nil {
			logger.WithField("segments", len(cached.Segments)).Info("Using cached transcript")
			req.Segments = cached.Segments
			fromCache = true
		}
	}

	if err := s.validator.ValidateTranscript(req.Segments); err != nil {
		logger.WithError(err).Warn("Transcript validation failed")
		return nil, err
	}

	settings := req.Settings.Normalize()

	if !fromCache {
		s.cacheTranscript(ctx, req)
	}

	annotated, err := Annotate(req.Segments)
	if err != nil {
		return nil, err
	}

	chunks := Split(annotated, settings.SummaryDepth)
	logger.WithFields(logrus.Fields{
		"segments":      len(req.Segments),
		"text_length":   len(annotated),
		"chunks":        len(chunks),
		"summary_depth": string(settings.SummaryDepth),
	}).Info("Transcript prepared")

	outputs := make([]string, 0, len(chunks))
	totalCost := 0.0

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			return nil, errors.Internal(op, ctx.Err(), "Note generation cancelled")
		default:
		}

		text, estimate, err := s.processChunk(ctx, chunk, settings, i, len(chunks), req.VideoInfo)
		if err != nil {
			return nil, err
		}
		totalCost += estimate.TotalCost
		outputs = append(outputs, text)
	}

	generatedAt := time.Now()
	finalNotes := s.combineChunks(ctx, outputs, req.VideoInfo, settings, generatedAt)

	note := &models.Note{
		VideoID:     req.VideoInfo.VideoID,
		Notes:       finalNotes,
		VideoInfo:   req.VideoInfo,
		GeneratedAt: generatedAt,
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		logger.WithError(err).Error("Failed to cache generated notes")
	}

	logger.WithFields(logrus.Fields{
		"chunks":         len(chunks),
		"notes_length":   len(finalNotes),
		"estimated_cost": totalCost,
	}).Info("Note generation completed")

	return &models.GenerationResult{
		Notes:         finalNotes,
		VideoInfo:     req.VideoInfo,
		Settings:      settings,
		GeneratedAt:   generatedAt,
		Chunks:        len(chunks),
		EstimatedCost: totalCost,
	}, nil
}

func (s *service) GetCached(ctx context.Context, videoID string) (*models.Note, error) {
	const op = "NotesService.GetCached"

	if err := s.validator.ValidateVideoID(videoID); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.Find(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *service) ClearCache(ctx context.Context) (int, error) {
	notes, err := s.noteRepo.Clear(ctx)
	if err != nil {
		return 0, err
	}

	transcripts, err := s.transcriptRepo.Clear(ctx)
	if err != nil {
		return notes, err
	}

	return notes + transcripts, nil
}

func (s *service) Status() StatusInfo {
	return StatusInfo{
		Processing: s.state.Load() == stateProcessing,
		HasAPIKey:  s.client.HasCredential(),
	}
}

func (s *service) cacheTranscript(ctx context.Context, req GenerateRequest) {
	if s.transcriptRepo == nil {
		return
	}

	err := s.transcriptRepo.Save(ctx, &models.Transcript{
		VideoID:   req.VideoInfo.VideoID,
		Segments:  req.Segments,
		VideoInfo: req.VideoInfo,
		FetchedAt: time.Now(),
	})
	if err != nil {
		s.logger.WithError(err).
			WithField("video_id", req.VideoInfo.VideoID).
			Warn("Failed to cache transcript")
	}
}
