package repository

import (
	"context"

	"github.com/akshatgupta/notetube/models"
)

// NoteRepository caches generated note documents per video. Find must
// treat entries older than the validity window as missing.
type NoteRepository interface {
	Save(ctx context.Context, note *models.Note) error
	Find(ctx context.Context, videoID string) (*models.Note, error)
	Delete(ctx context.Context, videoID string) error
	Clear(ctx context.Context) (int, error)
}

// TranscriptRepository caches raw transcripts per video.
type TranscriptRepository interface {
	Save(ctx context.Context, transcript *models.Transcript) error
	Find(ctx context.Context, videoID string) (*models.Transcript, error)
	Clear(ctx context.Context) (int, error)
}

// SettingsRepository persists the single global settings object.
type SettingsRepository interface {
	Get(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, settings models.Settings) error
}
