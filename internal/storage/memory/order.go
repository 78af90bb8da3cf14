// README: Memory implementation of the order store contract.
package memory

import (
	"context"
	"sort"
	"time"

	"canteen/internal/modules/order"
	"canteen/internal/types"
)

type OrderStore struct {
	root   *Store
	orders []order.Order
}

var _ order.Store = (*OrderStore)(nil)

func cloneOrder(o order.Order) order.Order {
	out := o
	out.Items = append([]order.LineItem(nil), o.Items...)
	return out
}

func (s *OrderStore) Create(_ context.Context, o *order.Order) error {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	s.orders = append(s.orders, cloneOrder(*o))
	return nil
}

func (s *OrderStore) Get(_ context.Context, id types.ID) (*order.Order, error) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			o := cloneOrder(s.orders[i])
			return &o, nil
		}
	}
	return nil, order.ErrNotFound
}

func (s *OrderStore) GetByPaymentCode(_ context.Context, code string) (*order.Order, error) {
	if code == "" {
		return nil, order.ErrNotFound
	}
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	var match *order.Order
	for i := range s.orders {
		o := &s.orders[i]
		if o.PaymentCode != code {
			continue
		}
		if match == nil || o.CreatedAt.Before(match.CreatedAt) {
			match = o
		}
	}
	if match == nil {
		return nil, order.ErrNotFound
	}
	out := cloneOrder(*match)
	return &out, nil
}

func (s *OrderStore) ListByStudent(_ context.Context, pid types.ID) ([]order.Order, error) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	out := []order.Order{}
	for i := range s.orders {
		if s.orders[i].StudentID == pid {
			out = append(out, cloneOrder(s.orders[i]))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *OrderStore) List(_ context.Context) ([]order.Order, error) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	out := make([]order.Order, 0, len(s.orders))
	for i := range s.orders {
		out = append(out, cloneOrder(s.orders[i]))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *OrderStore) ActiveCodes(_ context.Context) (map[string]struct{}, error) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	codes := map[string]struct{}{}
	for i := range s.orders {
		o := &s.orders[i]
		if o.PaymentCode != "" && o.Status != order.StatusCancelled {
			codes[o.PaymentCode] = struct{}{}
		}
	}
	return codes, nil
}

func (s *OrderStore) AssignPaymentCode(_ context.Context, id types.ID, code string, at time.Time) (bool, error) {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	for i := range s.orders {
		o := &s.orders[i]
		if o.ID != id {
			continue
		}
		if o.Status != order.StatusPendingPayment {
			return false, nil
		}
		o.PaymentCode = code
		o.Status = order.StatusPaidUnverified
		o.UpdatedAt = at
		return true, nil
	}
	return false, order.ErrNotFound
}

func (s *OrderStore) UpdateStatus(_ context.Context, id types.ID, from, to order.Status, at time.Time) (bool, error) {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	for i := range s.orders {
		o := &s.orders[i]
		if o.ID != id {
			continue
		}
		if o.Status != from {
			return false, nil
		}
		o.Status = to
		o.UpdatedAt = at
		stamp := at
		switch to {
		case order.StatusVerified:
			o.VerifiedAt = &stamp
		case order.StatusFulfilled:
			o.FulfilledAt = &stamp
		case order.StatusCancelled:
			o.CancelledAt = &stamp
		}
		return true, nil
	}
	return false, order.ErrNotFound
}

func (s *OrderStore) Delete(_ context.Context, id types.ID) error {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return order.ErrNotFound
}

func (s *OrderStore) ReplaceAll(_ context.Context, orders []order.Order) error {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	s.orders = nil
	for _, o := range orders {
		s.orders = append(s.orders, cloneOrder(o))
	}
	return nil
}

func sortNewestFirst(orders []order.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
