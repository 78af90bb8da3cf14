// README: Student ledger entity: block status and cancellation history.
package student

import (
	"errors"
	"fmt"
	"time"

	"canteen/internal/types"
)

var ErrNotFound = errors.New("student not found")

// Student is created lazily on first interaction and never deleted by the
// core. Cancellations is append-only; the window filter happens at query
// time, old entries are never pruned here.
type Student struct {
	PID           types.ID    `json:"pid" firestore:"pid"`
	Blocked       bool        `json:"blocked" firestore:"blocked"`
	BlockReason   string      `json:"blockReason" firestore:"blockReason"`
	Cancellations []time.Time `json:"cancellations" firestore:"cancellations"`
	CreatedAt     time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt" firestore:"updatedAt"`
}

// RecentCancellations counts entries strictly newer than now minus window.
func (s *Student) RecentCancellations(now time.Time, window time.Duration) int {
	since := now.Add(-window)
	n := 0
	for _, ts := range s.Cancellations {
		if ts.After(since) {
			n++
		}
	}
	return n
}

// BlockedError is returned when a blocked student attempts to order; the
// reason is shown to the student verbatim.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("student is blocked: %s", e.Reason)
}
