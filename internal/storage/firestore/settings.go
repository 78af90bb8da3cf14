// README: Firestore implementation of the settings store contract.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"

	"canteen/internal/modules/settings"
)

type SettingsStore struct {
	client *firestore.Client
}

func NewSettingsStore(client *firestore.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

var _ settings.Store = (*SettingsStore)(nil)

func (s *SettingsStore) doc() *firestore.DocumentRef {
	return s.client.Collection(colSettings).Doc(settingsDocID)
}

func (s *SettingsStore) Get(ctx context.Context) (*settings.Settings, error) {
	snap, err := s.doc().Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, settings.ErrNotInitialized
		}
		return nil, err
	}
	var cfg settings.Settings
	if err := snap.DataTo(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *SettingsStore) Put(ctx context.Context, cfg *settings.Settings) error {
	_, err := s.doc().Set(ctx, cfg)
	return err
}
