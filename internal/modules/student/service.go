// README: Student ledger service and cancellation abuse-prevention policy.
package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"canteen/internal/events"
	"canteen/internal/types"
)

// WindowHours is the rolling lookback used to count recent cancellations.
// It is a fixed 24-hour window from "now", not a calendar day.
const WindowHours = 24

const defaultBlockReason = "Blocked by staff"

// ThresholdSource supplies the current cancel threshold at call time so the
// policy stays testable in isolation; there is no hidden global.
type ThresholdSource interface {
	CancelThreshold(ctx context.Context) (int, error)
}

// Standing is the advisory view surfaced before checkout and to staff. The
// count is taken before any pending cancellation, so the UI can warn a
// student before they cross the auto-block line.
type Standing struct {
	PID                 types.ID `json:"pid"`
	Blocked             bool     `json:"blocked"`
	Reason              string   `json:"reason"`
	RecentCancellations int      `json:"recentCancelCount"`
	TotalCancellations  int      `json:"totalCancelCount"`
	Threshold           int      `json:"threshold"`
}

type Service struct {
	store      Store
	thresholds ThresholdSource
	notifier   events.Notifier
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(store Store, thresholds ThresholdSource, notifier events.Notifier, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		thresholds: thresholds,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Standing reports block state and the recent cancellation count for pid.
// Unknown students have a clean standing; the record is not created yet.
func (s *Service) Standing(ctx context.Context, pid types.ID) (Standing, error) {
	pid = types.NormalizePID(string(pid))
	threshold, err := s.thresholds.CancelThreshold(ctx)
	if err != nil {
		return Standing{}, err
	}
	st, err := s.store.Get(ctx, pid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Standing{PID: pid, Threshold: threshold}, nil
		}
		return Standing{}, err
	}
	return Standing{
		PID:                 pid,
		Blocked:             st.Blocked,
		Reason:              st.BlockReason,
		RecentCancellations: st.RecentCancellations(s.now(), WindowHours*time.Hour),
		TotalCancellations:  len(st.Cancellations),
		Threshold:           threshold,
	}, nil
}

// EnsureCanOrder is the placement veto consulted by order creation. It
// re-reads the ledger immediately before the caller persists anything,
// creating the record on a student's first order.
func (s *Service) EnsureCanOrder(ctx context.Context, pid types.ID) error {
	st, err := s.store.Ensure(ctx, types.NormalizePID(string(pid)), s.now())
	if err != nil {
		return err
	}
	if st.Blocked {
		return &BlockedError{Reason: st.BlockReason}
	}
	return nil
}

// RecordCancellation appends one cancellation to the ledger and runs the
// auto-block policy synchronously: when the count of timestamps inside the
// rolling window reaches the current threshold, the student is blocked with
// a system-generated reason. A concurrent cancellation racing through the
// same sequence may under-count by one; double-blocking is idempotent, so
// the race is tolerated rather than locked out.
func (s *Service) RecordCancellation(ctx context.Context, pid types.ID) error {
	pid = types.NormalizePID(string(pid))
	now := s.now()

	st, err := s.store.AppendCancellation(ctx, pid, now)
	if err != nil {
		return err
	}
	s.notifier.EntityChanged(ctx, events.KindStudent, string(pid))

	threshold, err := s.thresholds.CancelThreshold(ctx)
	if err != nil {
		return err
	}
	recent := st.RecentCancellations(now, WindowHours*time.Hour)
	if recent < threshold {
		return nil
	}

	reason := fmt.Sprintf("Auto-blocked due to %d cancellations in last %dh", recent, WindowHours)
	if _, err := s.store.SetBlocked(ctx, pid, true, reason, s.now()); err != nil {
		return err
	}
	s.notifier.EntityChanged(ctx, events.KindStudent, string(pid))
	s.logger.Info("student auto-blocked",
		zap.String("pid", string(pid)),
		zap.Int("recent_cancellations", recent),
		zap.Int("threshold", threshold))
	return nil
}

// SetBlocked is the staff action. Blocking is idempotent; an empty reason
// gets a default. Unblocking clears the reason.
func (s *Service) SetBlocked(ctx context.Context, pid types.ID, blocked bool, reason string) (*Student, error) {
	pid = types.NormalizePID(string(pid))
	if blocked && reason == "" {
		reason = defaultBlockReason
	}
	if !blocked {
		reason = ""
	}
	st, err := s.store.SetBlocked(ctx, pid, blocked, reason, s.now())
	if err != nil {
		return nil, err
	}
	s.notifier.EntityChanged(ctx, events.KindStudent, string(pid))
	return st, nil
}

// Get returns the raw ledger record for staff lookup.
func (s *Service) Get(ctx context.Context, pid types.ID) (*Student, error) {
	return s.store.Get(ctx, types.NormalizePID(string(pid)))
}

// List returns every known student, sorted by PID.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.store.List(ctx)
}
