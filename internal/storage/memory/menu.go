// README: Memory implementation of the menu store contract.
package memory

import (
	"context"
	"sort"

	"canteen/internal/modules/menu"
)

type MenuStore struct {
	root  *Store
	items map[string]menu.Item
}

var _ menu.Store = (*MenuStore)(nil)

func (s *MenuStore) List(_ context.Context) ([]menu.Item, error) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	out := make([]menu.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MenuStore) Get(_ context.Context, id string) (*menu.Item, error) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	out := it
	return &out, nil
}

func (s *MenuStore) Put(_ context.Context, item *menu.Item) error {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	if s.items == nil {
		s.items = map[string]menu.Item{}
	}
	s.items[item.ID] = *item
	return nil
}

func (s *MenuStore) Delete(_ context.Context, id string) error {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return menu.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MenuStore) ReplaceAll(_ context.Context, items []menu.Item) error {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	s.items = make(map[string]menu.Item, len(items))
	for _, it := range items {
		s.items[it.ID] = it
	}
	return nil
}
