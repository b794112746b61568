package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/akshatgupta/notetube/errors"
	"github.com/akshatgupta/notetube/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	insertTranscriptQuery = `
        INSERT INTO transcripts (video_id, segments, video_info, fetched_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(video_id) DO UPDATE SET
            segments = excluded.segments,
            video_info = excluded.video_info,
            fetched_at = excluded.fetched_at
    `

	getTranscriptQuery = `
        SELECT video_id, segments, video_info, fetched_at
        FROM transcripts WHERE video_id = ?
    `

	deleteTranscriptQuery = `
        DELETE FROM transcripts WHERE video_id = ?
    `

	clearTranscriptsQuery = `
        DELETE FROM transcripts
    `
)

// TranscriptRepository caches raw transcripts with the same validity
// window as notes.
type TranscriptRepository struct {
	db     *sql.DB
	config DBConfig
	ttl    time.Duration
}

func NewTranscriptRepository(db *sql.DB, config DBConfig, ttl time.Duration) *TranscriptRepository {
	return &TranscriptRepository{db: db, config: config, ttl: ttl}
}

func (r *TranscriptRepository) Save(ctx context.Context, transcript *models.Transcript) error {
	const op = "TranscriptRepository.Save"

	segments, err := msgpack.Marshal(transcript.Segments)
	if err != nil {
		return errors.Internal(op, err, "Failed to encode segments")
	}
	info, err := msgpack.Marshal(transcript.VideoInfo)
	if err != nil {
		return errors.Internal(op, err, "Failed to encode video info")
	}

	for i := 0; i < r.config.MaxRetries; i++ {
		_, err = r.db.ExecContext(ctx, insertTranscriptQuery,
			transcript.VideoID,
			segments,
			info,
			transcript.FetchedAt,
		)
		if err == nil {
			return nil
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save transcript")
		}
		time.Sleep(r.config.RetryDelay * time.Duration(i+1))
	}
	return errors.Internal(op, err, "Failed to save transcript after retries")
}

func (r *TranscriptRepository) Find(ctx context.Context, videoID string) (*models.Transcript, error) {
	const op = "TranscriptRepository.Find"

	transcript := &models.Transcript{}
	var segments, info []byte

	err := r.db.QueryRowContext(ctx, getTranscriptQuery, videoID).Scan(
		&transcript.VideoID,
		&segments,
		&info,
		&transcript.FetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Transcript not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query transcript")
	}

	if transcript.IsExpired(r.ttl) {
		r.db.ExecContext(ctx, deleteTranscriptQuery, videoID)
		return nil, errors.NotFound(op, nil, "Transcript not found")
	}

	if err := msgpack.Unmarshal(segments, &transcript.Segments); err != nil {
		return nil, errors.Internal(op, err, "Failed to decode segments")
	}
	if err := msgpack.Unmarshal(info, &transcript.VideoInfo); err != nil {
		return nil, errors.Internal(op, err, "Failed to decode video info")
	}

	return transcript, nil
}

func (r *TranscriptRepository) Clear(ctx context.Context) (int, error) {
	const op = "TranscriptRepository.Clear"

	result, err := r.db.ExecContext(ctx, clearTranscriptsQuery)
	if err != nil {
		return 0, errors.Internal(op, err, "Failed to clear transcripts")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Internal(op, err, "Failed to count cleared transcripts")
	}
	return int(rows), nil
}
