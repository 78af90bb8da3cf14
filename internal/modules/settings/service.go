// README: Settings service: bounded cancel threshold and staff password checks.
package settings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"canteen/internal/events"
)

type Service struct {
	store    Store
	notifier events.Notifier
	now      func() time.Time
}

func NewService(store Store, notifier events.Notifier) *Service {
	return &Service{store: store, notifier: notifier, now: time.Now}
}

// HashPassword is the sha256 hex digest used for the staff password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// EnsureInit seeds the settings document on first run.
func (s *Service) EnsureInit(ctx context.Context) (*Settings, error) {
	cur, err := s.store.Get(ctx)
	if err == nil {
		return cur, nil
	}
	if !errors.Is(err, ErrNotInitialized) {
		return nil, err
	}
	def := Defaults(s.now(), HashPassword(DefaultStaffPassword))
	if err := s.store.Put(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

// CancelThreshold always returns an in-range value, falling back to the
// default when the store was never initialized.
func (s *Service) CancelThreshold(ctx context.Context) (int, error) {
	cur, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotInitialized) {
			return DefaultCancelThreshold, nil
		}
		return 0, err
	}
	if cur.CancelThreshold == 0 {
		return DefaultCancelThreshold, nil
	}
	return ClampThreshold(cur.CancelThreshold), nil
}

// SetCancelThreshold clamps n into range before persisting.
func (s *Service) SetCancelThreshold(ctx context.Context, n int) (int, error) {
	cur, err := s.loadOrInit(ctx)
	if err != nil {
		return 0, err
	}
	cur.CancelThreshold = ClampThreshold(n)
	cur.UpdatedAt = s.now()
	if err := s.store.Put(ctx, cur); err != nil {
		return 0, err
	}
	s.notifier.EntityChanged(ctx, events.KindSettings, "main")
	return cur.CancelThreshold, nil
}

// SetCancelThresholdRaw parses staff input; non-numeric or missing input
// coerces to the default rather than erroring.
func (s *Service) SetCancelThresholdRaw(ctx context.Context, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = DefaultCancelThreshold
	}
	return s.SetCancelThreshold(ctx, n)
}

func (s *Service) CheckPassword(ctx context.Context, password string) (bool, error) {
	cur, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotInitialized) {
			return false, nil
		}
		return false, err
	}
	return HashPassword(password) == cur.AdminPasswordHash, nil
}

func (s *Service) SetPassword(ctx context.Context, password string) error {
	cur, err := s.loadOrInit(ctx)
	if err != nil {
		return err
	}
	cur.AdminPasswordHash = HashPassword(password)
	cur.UpdatedAt = s.now()
	if err := s.store.Put(ctx, cur); err != nil {
		return err
	}
	s.notifier.EntityChanged(ctx, events.KindSettings, "main")
	return nil
}

func (s *Service) loadOrInit(ctx context.Context) (*Settings, error) {
	cur, err := s.store.Get(ctx)
	if err == nil {
		return cur, nil
	}
	if errors.Is(err, ErrNotInitialized) {
		return Defaults(s.now(), HashPassword(DefaultStaffPassword)), nil
	}
	return nil, err
}
