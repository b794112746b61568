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
	upsertSettingsQuery = `
        INSERT INTO settings (id, payload, updated_at)
        VALUES (1, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            payload = excluded.payload,
            updated_at = excluded.updated_at
    `

	getSettingsQuery = `
        SELECT payload FROM settings WHERE id = 1
    `
)

// SettingsRepository persists the single global settings row. Get falls
// back to defaults when nothing has been saved yet.
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	const op = "SettingsRepository.Get"

	var payload []byte
	err := r.db.QueryRowContext(ctx, getSettingsQuery).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, errors.Internal(op, err, "Failed to query settings")
	}

	var settings models.Settings
	if err := msgpack.Unmarshal(payload, &settings); err != nil {
		return models.Settings{}, errors.Internal(op, err, "Failed to decode settings")
	}
	return settings.Normalize(), nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings models.Settings) error {
	const op = "SettingsRepository.Save"

	payload, err := msgpack.Marshal(settings.Normalize())
	if err != nil {
		return errors.Internal(op, err, "Failed to encode settings")
	}

	if _, err := r.db.ExecContext(ctx, upsertSettingsQuery, payload, time.Now()); err != nil {
		return errors.Internal(op, err, "Failed to save settings")
	}
	return nil
}
