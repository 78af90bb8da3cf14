// README: Memory implementation of the settings store contract.
package memory

import (
	"context"

	"canteen/internal/modules/settings"
)

type SettingsStore struct {
	root *Store
	doc  *settings.Settings
}

var _ settings.Store = (*SettingsStore)(nil)

func (s *SettingsStore) Get(_ context.Context) (*settings.Settings, error) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	if s.doc == nil {
		return nil, settings.ErrNotInitialized
	}
	out := *s.doc
	return &out, nil
}

func (s *SettingsStore) Put(_ context.Context, doc *settings.Settings) error {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	cp := *doc
	s.doc = &cp
	return nil
}
