// README: Firestore implementation of the order store contract.
package firestore

import (
	"context"
	"errors"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"canteen/internal/modules/order"
	"canteen/internal/types"
)

type OrderStore struct {
	client *firestore.Client
}

func NewOrderStore(client *firestore.Client) *OrderStore {
	return &OrderStore{client: client}
}

var _ order.Store = (*OrderStore)(nil)

func (s *OrderStore) doc(id types.ID) *firestore.DocumentRef {
	return s.client.Collection(colOrders).Doc(string(id))
}

func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	_, err := s.doc(o.ID).Create(ctx, o)
	return err
}

func (s *OrderStore) Get(ctx context.Context, id types.ID) (*order.Order, error) {
	snap, err := s.doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	var o order.Order
	if err := snap.DataTo(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) GetByPaymentCode(ctx context.Context, code string) (*order.Order, error) {
	if code == "" {
		return nil, order.ErrNotFound
	}
	// Sorting happens here rather than in the query so no composite index
	// is required; duplicate codes are rare enough that the result set is
	// tiny.
	matches, err := s.collect(ctx, s.client.Collection(colOrders).Where("paymentCode", "==", code).Documents(ctx))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, order.ErrNotFound
	}
	earliest := matches[0]
	for _, o := range matches[1:] {
		if o.CreatedAt.Before(earliest.CreatedAt) {
			earliest = o
		}
	}
	return &earliest, nil
}

func (s *OrderStore) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]order.Order, error) {
	defer iter.Stop()
	orders := []order.Order{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var o order.Order
		if err := snap.DataTo(&o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *OrderStore) ListByStudent(ctx context.Context, pid types.ID) ([]order.Order, error) {
	orders, err := s.collect(ctx, s.client.Collection(colOrders).Where("pid", "==", string(pid)).Documents(ctx))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (s *OrderStore) List(ctx context.Context) ([]order.Order, error) {
	orders, err := s.collect(ctx, s.client.Collection(colOrders).Documents(ctx))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (s *OrderStore) ActiveCodes(ctx context.Context) (map[string]struct{}, error) {
	orders, err := s.collect(ctx, s.client.Collection(colOrders).Documents(ctx))
	if err != nil {
		return nil, err
	}
	codes := map[string]struct{}{}
	for _, o := range orders {
		if o.PaymentCode != "" && o.Status != order.StatusCancelled {
			codes[o.PaymentCode] = struct{}{}
		}
	}
	return codes, nil
}

func (s *OrderStore) AssignPaymentCode(ctx context.Context, id types.ID, code string, at time.Time) (bool, error) {
	return s.conditionalUpdate(ctx, id, order.StatusPendingPayment, func(o *order.Order) {
		o.PaymentCode = code
		o.Status = order.StatusPaidUnverified
		o.UpdatedAt = at
	})
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id types.ID, from, to order.Status, at time.Time) (bool, error) {
	return s.conditionalUpdate(ctx, id, from, func(o *order.Order) {
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
	})
}

// conditionalUpdate runs the read-check-write inside a transaction, which is
// the status guard the other backends express as WHERE status = from.
func (s *OrderStore) conditionalUpdate(ctx context.Context, id types.ID, from order.Status, mutate func(*order.Order)) (bool, error) {
	ref := s.doc(id)
	var applied bool
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// The transaction function may run more than once on contention;
		// reset the flag so a retried attempt cannot inherit a stale true.
		applied = false
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var o order.Order
		if err := snap.DataTo(&o); err != nil {
			return err
		}
		if o.Status != from {
			return nil
		}
		mutate(&o)
		applied = true
		return tx.Set(ref, &o)
	})
	if err != nil {
		if isNotFound(err) {
			return false, order.ErrNotFound
		}
		return false, err
	}
	return applied, nil
}

func (s *OrderStore) Delete(ctx context.Context, id types.ID) error {
	_, err := s.doc(id).Delete(ctx)
	return err
}

func (s *OrderStore) ReplaceAll(ctx context.Context, orders []order.Order) error {
	existing, err := s.client.Collection(colOrders).Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	bw := s.client.BulkWriter(ctx)
	for _, snap := range existing {
		_, _ = bw.Delete(snap.Ref)
	}
	for i := range orders {
		_, _ = bw.Set(s.doc(orders[i].ID), &orders[i])
	}
	bw.End()
	return nil
}

func sortNewestFirst(orders []order.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
