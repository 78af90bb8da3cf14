// README: Persistence contract for the student ledger.
package student

import (
	"context"
	"time"

	"canteen/internal/types"
)

type Store interface {
	// Get returns ErrNotFound for unknown students; callers that need
	// lazy creation use Ensure.
	Get(ctx context.Context, pid types.ID) (*Student, error)
	Ensure(ctx context.Context, pid types.ID, at time.Time) (*Student, error)
	// SetBlocked upserts the student with the new block state. Unblocking
	// clears the reason.
	SetBlocked(ctx context.Context, pid types.ID, blocked bool, reason string, at time.Time) (*Student, error)
	// AppendCancellation adds one timestamp to the history, creating the
	// student first if absent, and returns the updated record. The blocked
	// flag is left untouched.
	AppendCancellation(ctx context.Context, pid types.ID, at time.Time) (*Student, error)
	List(ctx context.Context) ([]Student, error)
	ReplaceAll(ctx context.Context, students []Student) error
}
