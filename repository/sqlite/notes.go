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
	insertNoteQuery = `
        INSERT INTO notes (video_id, notes, video_info, generated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(video_id) DO UPDATE SET
            notes = excluded.notes,
            video_info = excluded.video_info,
            generated_at = excluded.generated_at
    `

	getNoteQuery = `
        SELECT video_id, notes, video_info, generated_at
        FROM notes WHERE video_id = ?
    `

	deleteNoteQuery = `
        DELETE FROM notes WHERE video_id = ?
    `

	clearNotesQuery = `
        DELETE FROM notes
    `
)

// NoteRepository stores generated note documents with a validity window.
// Entries older than the TTL are treated as missing and removed lazily.
type NoteRepository struct {
	db     *sql.DB
	config DBConfig
	ttl    time.Duration
}

func NewNoteRepository(db *sql.DB, config DBConfig, ttl time.Duration) *NoteRepository {
	return &NoteRepository{db: db, config: config, ttl: ttl}
}

func (r *NoteRepository) Save(ctx context.Context, note *models.Note) error {
	const op = "NoteRepository.Save"

	info, err := msgpack.Marshal(note.VideoInfo)
	if err != nil {
		return errors.Internal(op, err, "Failed to encode video info")
	}

	for i := 0; i < r.config.MaxRetries; i++ {
		_, err = r.db.ExecContext(ctx, insertNoteQuery,
			note.VideoID,
			note.Notes,
			info,
			note.GeneratedAt,
		)
		if err == nil {
			return nil
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save notes")
		}
		time.Sleep(r.config.RetryDelay * time.Duration(i+1))
	}
	return errors.Internal(op, err, "Failed to save notes after retries")
}

func (r *NoteRepository) Find(ctx context.Context, videoID string) (*models.Note, error) {
	const op = "NoteRepository.Find"

	note := &models.Note{}
	var info []byte

	err := r.db.QueryRowContext(ctx, getNoteQuery, videoID).Scan(
		&note.VideoID,
		&note.Notes,
		&info,
		&note.GeneratedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Notes not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query notes")
	}

	if note.IsExpired(r.ttl) {
		// Lazy eviction, best effort.
		r.db.ExecContext(ctx, deleteNoteQuery, videoID)
		return nil, errors.NotFound(op, nil, "Notes not found")
	}

	if err := msgpack.Unmarshal(info, &note.VideoInfo); err != nil {
		return nil, errors.Internal(op, err, "Failed to decode video info")
	}

	return note, nil
}

func (r *NoteRepository) Delete(ctx context.Context, videoID string) error {
	const op = "NoteRepository.Delete"

	if _, err := r.db.ExecContext(ctx, deleteNoteQuery, videoID); err != nil {
		return errors.Internal(op, err, "Failed to delete notes")
	}
	return nil
}

func (r *NoteRepository) Clear(ctx context.Context) (int, error) {
	const op = "NoteRepository.Clear"

	result, err := r.db.ExecContext(ctx, clearNotesQuery)
	if err != nil {
		return 0, errors.Internal(op, err, "Failed to clear notes")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Internal(op, err, "Failed to count cleared notes")
	}
	return int(rows), nil
}
