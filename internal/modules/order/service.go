// README: Order service: lifecycle transitions and the payment-code protocol.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"canteen/internal/events"
	"canteen/internal/types"
)

// Actor identifies who asked for a cancellation; only student cancellations
// feed the abuse policy.
type Actor string

const (
	ActorStudent Actor = "student"
	ActorStaff   Actor = "staff"
)

// Ledger is the slice of the student module the order flow needs: the
// placement veto and the cancellation record hook.
type Ledger interface {
	EnsureCanOrder(ctx context.Context, pid types.ID) error
	RecordCancellation(ctx context.Context, pid types.ID) error
}

// CatalogItem is the menu snapshot an order line is built from.
type CatalogItem struct {
	ID    string
	Name  string
	Price types.Money
}

// Catalog supplies the authoritative name and price for an item at call
// time. Unknown or unavailable items error.
type Catalog interface {
	Item(ctx context.Context, id string) (CatalogItem, error)
}

type Service struct {
	store    Store
	catalog  Catalog
	ledger   Ledger
	notifier events.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store Store, catalog Catalog, ledger Ledger, notifier events.Notifier, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		catalog:  catalog,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ItemRequest is one cart line at checkout: the menu item and a quantity.
type ItemRequest struct {
	ItemID   string
	Quantity int
}

// Place creates a PENDING_PAYMENT order for studentID. Line items snapshot
// the menu's name and price at call time and the total is computed once and
// frozen; later menu edits never touch historical orders. Every checkout
// yields a distinct order, concurrent ones included.
func (s *Service) Place(ctx context.Context, studentID string, items []ItemRequest) (*Order, error) {
	pid := types.NormalizePID(studentID)
	if pid == "" || len(items) == 0 {
		return nil, ErrInvalidInput
	}
	for _, it := range items {
		if it.ItemID == "" || it.Quantity < 1 {
			return nil, ErrInvalidInput
		}
	}
	if err := s.ledger.EnsureCanOrder(ctx, pid); err != nil {
		return nil, err
	}

	now := s.now()
	lines := make([]LineItem, 0, len(items))
	var total int64
	currency := types.DefaultCurrency
	for _, it := range items {
		snap, err := s.catalog.Item(ctx, it.ItemID)
		if err != nil {
			return nil, ErrInvalidInput
		}
		lines = append(lines, LineItem{
			ItemID:   snap.ID,
			Name:     snap.Name,
			Price:    snap.Price,
			Quantity: it.Quantity,
		})
		total += snap.Price.Amount * int64(it.Quantity)
		if snap.Price.Currency != "" {
			currency = snap.Price.Currency
		}
	}

	o := &Order{
		ID:        types.ID(uuid.NewString()),
		StudentID: pid,
		Items:     lines,
		Total:     types.Money{Amount: total, Currency: currency},
		Status:    StatusPendingPayment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}
	s.notifier.EntityChanged(ctx, events.KindOrder, string(o.ID))
	return o, nil
}

// RequestPaymentCode generates a fresh code, checks it against every code
// attached to a non-cancelled order, and attaches it to a PENDING_PAYMENT
// order, moving it to PAID_UNVERIFIED. The check-then-write window is a
// tolerated race; duplicates resolve at verify time by creation order.
// Asking again for an order that already carries a code returns that code
// unchanged.
func (s *Service) RequestPaymentCode(ctx context.Context, id types.ID) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusPaidUnverified && o.PaymentCode != "" {
		return o, nil
	}
	if o.Status != StatusPendingPayment {
		return o, ErrInvalidTransition
	}

	inUse, err := s.store.ActiveCodes(ctx)
	if err != nil {
		return nil, err
	}
	code := GeneratePaymentCode(inUse)

	ok, err := s.store.AssignPaymentCode(ctx, o.ID, code, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: re-read so the caller sees current truth.
		cur, gerr := s.store.Get(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if cur.Status == StatusPaidUnverified && cur.PaymentCode != "" {
			return cur, nil
		}
		return cur, ErrConflict
	}
	s.notifier.EntityChanged(ctx, events.KindOrder, string(o.ID))
	return s.store.Get(ctx, id)
}

// VerifyPaymentCode is the staff action: normalize the presented code, find
// the earliest-created order carrying it, and move it to VERIFIED. A miss
// and a match whose order is past PAID_UNVERIFIED both report
// ErrCodeNotFound; the caller must not learn which it was.
func (s *Service) VerifyPaymentCode(ctx context.Context, rawCode string) (*Order, error) {
	code := NormalizeCode(rawCode)
	if code == "" {
		return nil, ErrCodeNotFound
	}
	o, err := s.store.GetByPaymentCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	if o.Status != StatusPaidUnverified {
		return nil, ErrCodeNotFound
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, StatusPaidUnverified, StatusVerified, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent verify won; the code is spent either way.
		return nil, ErrCodeNotFound
	}
	s.notifier.EntityChanged(ctx, events.KindOrder, string(o.ID))
	s.logger.Debug("payment code verified", zap.String("order_id", string(o.ID)))
	return s.store.Get(ctx, o.ID)
}

// Fulfill moves a VERIFIED order to FULFILLED. Fulfilling an already
// fulfilled order is an idempotent no-op so UI retries stay harmless; any
// other state reports ErrInvalidTransition with the unchanged order.
func (s *Service) Fulfill(ctx context.Context, id types.ID) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusFulfilled {
		return o, nil
	}
	if !CanTransition(o.Status, StatusFulfilled) {
		return o, ErrInvalidTransition
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusFulfilled, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		cur, gerr := s.store.Get(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if cur.Status == StatusFulfilled {
			return cur, nil
		}
		return cur, ErrConflict
	}
	s.notifier.EntityChanged(ctx, events.KindOrder, string(o.ID))
	return s.store.Get(ctx, id)
}

// Cancel moves any non-terminal order to CANCELLED. Cancelling a cancelled
// order is an idempotent no-op; a fulfilled order is an immutable terminal
// record and rejects the cancel. Student-initiated cancellations feed the
// abuse policy synchronously after the transition commits.
func (s *Service) Cancel(ctx context.Context, id types.ID, actor Actor) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled {
		return o, nil
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return o, ErrInvalidTransition
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusCancelled, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		cur, gerr := s.store.Get(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if cur.Status == StatusCancelled {
			return cur, nil
		}
		return cur, ErrConflict
	}
	s.notifier.EntityChanged(ctx, events.KindOrder, string(o.ID))

	if actor == ActorStudent {
		if err := s.ledger.RecordCancellation(ctx, o.StudentID); err != nil {
			// The order is already cancelled; surface the ledger failure
			// without undoing the transition.
			s.logger.Error("record cancellation",
				zap.String("pid", string(o.StudentID)), zap.Error(err))
			return nil, err
		}
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

// ListByStudent returns the student's orders, newest first.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]Order, error) {
	return s.store.ListByStudent(ctx, types.NormalizePID(studentID))
}

// List returns all orders, newest first, for the staff board.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.store.List(ctx)
}

// Delete removes an order outright; staff housekeeping, not a transition.
func (s *Service) Delete(ctx context.Context, id types.ID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.EntityChanged(ctx, events.KindOrder, string(id))
	return nil
}
