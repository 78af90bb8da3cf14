// README: Entity-changed notifications emitted after each successful mutation.
package events

import (
	"context"
	"sync"
	"time"
)

// Entity kinds carried in notifications.
const (
	KindOrder    = "order"
	KindStudent  = "student"
	KindMenu     = "menu"
	KindSettings = "settings"
)

// Envelope is the wire shape of a storage-update notification.
type Envelope struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Producer   string    `json:"producer"`
}

// Notifier receives exactly one notification per successful mutating call,
// never on failed ones. Implementations must not block the caller for long;
// delivery is best effort.
type Notifier interface {
	EntityChanged(ctx context.Context, kind, id string)
}

// Nop discards notifications; used when no subscriber is configured.
type Nop struct{}

func (Nop) EntityChanged(context.Context, string, string) {}

// Recorder collects notifications in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *Recorder) EntityChanged(_ context.Context, kind, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Envelope{Kind: kind, EntityID: id})
}

func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}
