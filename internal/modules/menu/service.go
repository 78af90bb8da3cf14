// README: Menu service; the authoritative price source consulted at checkout.
package menu

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"canteen/internal/events"
	"canteen/internal/types"
)

var ErrBadRequest = errors.New("bad menu item request")

type Service struct {
	store    Store
	notifier events.Notifier
	now      func() time.Time
}

func NewService(store Store, notifier events.Notifier) *Service {
	return &Service{store: store, notifier: notifier, now: time.Now}
}

// List returns menu items; only available ones unless includeUnavailable.
func (s *Service) List(ctx context.Context, includeUnavailable bool) ([]Item, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if includeUnavailable {
		return items, nil
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Available {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Service) Item(ctx context.Context, id string) (*Item, error) {
	return s.store.Get(ctx, id)
}

// Upsert creates the item when ID is empty, otherwise updates it in place.
func (s *Service) Upsert(ctx context.Context, item Item) (*Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || item.Price.Amount < 0 {
		return nil, ErrBadRequest
	}
	if item.Price.Currency == "" {
		item.Price.Currency = types.DefaultCurrency
	}
	now := s.now()
	if item.ID == "" {
		item.ID = uuid.NewString()
		item.CreatedAt = now
	} else {
		cur, err := s.store.Get(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		item.CreatedAt = cur.CreatedAt
	}
	item.UpdatedAt = now
	if err := s.store.Put(ctx, &item); err != nil {
		return nil, err
	}
	s.notifier.EntityChanged(ctx, events.KindMenu, item.ID)
	return &item, nil
}

func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (*Item, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Available = available
	item.UpdatedAt = s.now()
	if err := s.store.Put(ctx, item); err != nil {
		return nil, err
	}
	s.notifier.EntityChanged(ctx, events.KindMenu, id)
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.EntityChanged(ctx, events.KindMenu, id)
	return nil
}
