// README: Order aggregate and status definitions.
package order

import (
	"time"

	"canteen/internal/types"
)

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaidUnverified Status = "PAID_UNVERIFIED"
	StatusVerified       Status = "VERIFIED"
	StatusFulfilled      Status = "FULFILLED"
	StatusCancelled      Status = "CANCELLED"
)

// LineItem is a snapshot of a menu item taken at checkout time. Later menu
// edits must not alter historical orders, so name and price are copied.
type LineItem struct {
	ItemID   string      `json:"itemId" firestore:"itemId"`
	Name     string      `json:"name" firestore:"name"`
	Price    types.Money `json:"price" firestore:"price"`
	Quantity int         `json:"qty" firestore:"qty"`
}

type Order struct {
	ID          types.ID    `json:"id" firestore:"id"`
	StudentID   types.ID    `json:"pid" firestore:"pid"`
	Items       []LineItem  `json:"items" firestore:"items"`
	Total       types.Money `json:"total" firestore:"total"`
	Status      Status      `json:"status" firestore:"status"`
	PaymentCode string      `json:"paymentCode" firestore:"paymentCode"`
	CreatedAt   time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" firestore:"updatedAt"`
	VerifiedAt  *time.Time  `json:"verifiedAt,omitempty" firestore:"verifiedAt"`
	FulfilledAt *time.Time  `json:"fulfilledAt,omitempty" firestore:"fulfilledAt"`
	CancelledAt *time.Time  `json:"cancelledAt,omitempty" firestore:"cancelledAt"`
}

// Terminal reports whether no further transitions are possible.
func (o *Order) Terminal() bool {
	return o.Status == StatusFulfilled || o.Status == StatusCancelled
}

// AllowedTransitions represents the order state flow (diagram) as code.
var AllowedTransitions = map[Status][]Status{
	StatusPendingPayment: {StatusPaidUnverified, StatusCancelled},
	StatusPaidUnverified: {StatusVerified, StatusCancelled},
	StatusVerified:       {StatusFulfilled, StatusCancelled},
	StatusFulfilled:      {},
	StatusCancelled:      {},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
