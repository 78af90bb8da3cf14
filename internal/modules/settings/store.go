// README: Persistence contract for the single settings document.
package settings

import "context"

type Store interface {
	// Get returns ErrNotInitialized when the document was never written.
	Get(ctx context.Context) (*Settings, error)
	Put(ctx context.Context, s *Settings) error
}
