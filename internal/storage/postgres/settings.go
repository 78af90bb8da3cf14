// README: Postgres implementation of the settings store contract.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"canteen/internal/modules/settings"
)

// The settings table holds a single row keyed 'main', like the original
// single settings document.
const settingsDocID = "main"

const (
	selectSettingsQuery = `
		SELECT admin_password_hash, cancel_threshold, created_at, updated_at
		FROM settings WHERE id = $1`

	upsertSettingsQuery = `
		INSERT INTO settings (id, admin_password_hash, cancel_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET admin_password_hash = $2, cancel_threshold = $3, updated_at = $5`
)

type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

var _ settings.Store = (*SettingsStore)(nil)

func (s *SettingsStore) Get(ctx context.Context) (*settings.Settings, error) {
	var doc settings.Settings
	err := s.db.Pool.QueryRow(ctx, selectSettingsQuery, settingsDocID).
		Scan(&doc.AdminPasswordHash, &doc.CancelThreshold, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, settings.ErrNotInitialized
		}
		return nil, err
	}
	return &doc, nil
}

func (s *SettingsStore) Put(ctx context.Context, doc *settings.Settings) error {
	_, err := s.db.Pool.Exec(ctx, upsertSettingsQuery,
		settingsDocID, doc.AdminPasswordHash, doc.CancelThreshold, doc.CreatedAt, doc.UpdatedAt)
	return err
}
