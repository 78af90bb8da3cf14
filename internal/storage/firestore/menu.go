// README: Firestore implementation of the menu store contract.
package firestore

import (
	"context"
	"errors"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"canteen/internal/modules/menu"
)

type MenuStore struct {
	client *firestore.Client
}

func NewMenuStore(client *firestore.Client) *MenuStore {
	return &MenuStore{client: client}
}

var _ menu.Store = (*MenuStore)(nil)

func (s *MenuStore) doc(id string) *firestore.DocumentRef {
	return s.client.Collection(colMenu).Doc(id)
}

func (s *MenuStore) List(ctx context.Context) ([]menu.Item, error) {
	iter := s.client.Collection(colMenu).Documents(ctx)
	defer iter.Stop()
	items := []menu.Item{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var it menu.Item
		if err := snap.DataTo(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *MenuStore) Get(ctx context.Context, id string) (*menu.Item, error) {
	snap, err := s.doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, menu.ErrNotFound
		}
		return nil, err
	}
	var it menu.Item
	if err := snap.DataTo(&it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *MenuStore) Put(ctx context.Context, it *menu.Item) error {
	_, err := s.doc(it.ID).Set(ctx, it)
	return err
}

func (s *MenuStore) Delete(ctx context.Context, id string) error {
	_, err := s.doc(id).Delete(ctx)
	return err
}

func (s *MenuStore) ReplaceAll(ctx context.Context, items []menu.Item) error {
	existing, err := s.client.Collection(colMenu).Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	bw := s.client.BulkWriter(ctx)
	for _, snap := range existing {
		_, _ = bw.Delete(snap.Ref)
	}
	for i := range items {
		_, _ = bw.Set(s.doc(items[i].ID), &items[i])
	}
	bw.End()
	return nil
}
