// README: Persistence contract for orders; backends live under internal/storage.
package order

import (
	"context"
	"errors"
	"time"

	"canteen/internal/types"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidInput      = errors.New("invalid order input")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrCodeNotFound      = errors.New("code not found or already verified")
	ErrConflict          = errors.New("order state conflict")
)

// Store is the canonical persistence interface every backend adapts to.
// Writes to the same order are conditional on the current status so that
// concurrent transitions lose cleanly instead of interleaving.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id types.ID) (*Order, error)
	// GetByPaymentCode returns the earliest-created order carrying code,
	// or ErrNotFound. Codes are generated unique, but an inconsistent
	// import may produce duplicates; the earliest match wins.
	GetByPaymentCode(ctx context.Context, code string) (*Order, error)
	// ListByStudent returns the student's orders, newest first.
	ListByStudent(ctx context.Context, pid types.ID) ([]Order, error)
	// List returns all orders, newest first.
	List(ctx context.Context) ([]Order, error)
	// ActiveCodes returns every non-empty payment code attached to a
	// non-cancelled order.
	ActiveCodes(ctx context.Context) (map[string]struct{}, error)
	// AssignPaymentCode attaches code to order id provided it is still
	// PENDING_PAYMENT, moving it to PAID_UNVERIFIED. Returns false when
	// the guard fails.
	AssignPaymentCode(ctx context.Context, id types.ID, code string, at time.Time) (bool, error)
	// UpdateStatus moves order id from one status to another, stamping the
	// transition time (verifiedAt/fulfilledAt/cancelledAt) and refreshing
	// updatedAt. Returns false when the order is no longer in from.
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, at time.Time) (bool, error)
	Delete(ctx context.Context, id types.ID) error
	// ReplaceAll swaps the whole collection; used by import and reset.
	ReplaceAll(ctx context.Context, orders []Order) error
}
