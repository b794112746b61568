package notes

import (
	"context"

	"github.com/akshatgupta/notetube/models"
	"github.com/akshatgupta/notetube/repository"
)

type NoteRepository = repository.NoteRepository
type TranscriptRepository = repository.TranscriptRepository

type Service interface {
	// GenerateNotes runs the full pipeline: normalize, split, process
	// each chunk, combine, cache. A request without segments falls back
	// to the cached transcript for the video. Only one generation may
	// be in flight per service instance.
	GenerateNotes(ctx context.Context, req GenerateRequest) (*models.GenerationResult, error)

	// GetCached returns the cached note for a video, or a not-found
	// error when absent or expired.
	GetCached(ctx context.Context, videoID string) (*models.Note, error)

	// ClearCache removes all cached notes and transcripts and returns
	// the number of rows removed.
	ClearCache(ctx context.Context) (int, error)

	// Status reports whether a generation is currently running and
	// whether a credential is configured.
	Status() StatusInfo
}

type GenerateRequest struct {
	VideoInfo models.VideoInfo           `json:"video_info"`
	Segments  []models.TranscriptSegment `json:"segments"`
	Settings  models.Settings            `json:"settings"`
}

type StatusInfo struct {
	Processing bool `json:"processing"`
	HasAPIKey  bool `json:"has_api_key"`
}

// ProgressSink receives human-readable status lines during a multi-chunk
// run. Publishing must never block; consumers may be absent.
type ProgressSink interface {
	Publish(videoID, message string)
}

type Config struct {
	// Templates maps each summary depth to its instruction template.
	// Nil entries fall back to the built-in templates.
	Templates map[models.SummaryDepth]string

	// Models is the ordered fallback list of completion model IDs.
	Models []string

	MaxTokens        int
	CombineMaxTokens int
	Temperature      float64
	CombineTemp      float64

	Pricing Pricing
}
