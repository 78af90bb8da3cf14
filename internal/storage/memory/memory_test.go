// README: Memory backend tests for the conditional-update contracts.
package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"canteen/internal/modules/order"
	"canteen/internal/modules/settings"
	"canteen/internal/modules/student"
)

func TestOrderConditionalUpdates(t *testing.T) {
	ctx := context.Background()
	store := New().Orders()
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, &order.Order{
		ID: "o1", StudentID: "S1", Status: order.StatusPendingPayment,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := store.AssignPaymentCode(ctx, "o1", "ABC-1234-XYZ", now.Add(time.Minute))
	if err != nil || !ok {
		t.Fatalf("assign = (%v, %v), want applied", ok, err)
	}

	// guard fails once the order left PENDING_PAYMENT
	ok, err = store.AssignPaymentCode(ctx, "o1", "DEF-5678-UVW", now.Add(2*time.Minute))
	if err != nil || ok {
		t.Fatalf("second assign = (%v, %v), want rejected", ok, err)
	}

	ok, err = store.UpdateStatus(ctx, "o1", order.StatusPaidUnverified, order.StatusVerified, now.Add(3*time.Minute))
	if err != nil || !ok {
		t.Fatalf("verify = (%v, %v), want applied", ok, err)
	}
	o, err := store.Get(ctx, "o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.Status != order.StatusVerified || o.VerifiedAt == nil {
		t.Fatalf("after verify: status=%s verifiedAt=%v", o.Status, o.VerifiedAt)
	}

	// stale from-status loses
	ok, err = store.UpdateStatus(ctx, "o1", order.StatusPaidUnverified, order.StatusCancelled, now.Add(4*time.Minute))
	if err != nil || ok {
		t.Fatalf("stale update = (%v, %v), want rejected", ok, err)
	}

	if _, err := store.UpdateStatus(ctx, "ghost", order.StatusPendingPayment, order.StatusCancelled, now); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("unknown order err = %v, want ErrNotFound", err)
	}
}

func TestGetByPaymentCodePicksEarliest(t *testing.T) {
	ctx := context.Background()
	store := New().Orders()
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	for _, o := range []order.Order{
		{ID: "late", Status: order.StatusPaidUnverified, PaymentCode: "AAA-1111-BBB", CreatedAt: base.Add(time.Hour)},
		{ID: "early", Status: order.StatusPaidUnverified, PaymentCode: "AAA-1111-BBB", CreatedAt: base},
	} {
		o := o
		if err := store.Create(ctx, &o); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := store.GetByPaymentCode(ctx, "AAA-1111-BBB")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got.ID != "early" {
		t.Fatalf("got %s, want early", got.ID)
	}

	if _, err := store.GetByPaymentCode(ctx, ""); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("empty code err = %v, want ErrNotFound", err)
	}
}

func TestActiveCodesExcludesCancelled(t *testing.T) {
	ctx := context.Background()
	store := New().Orders()
	now := time.Now()

	for _, o := range []order.Order{
		{ID: "a", Status: order.StatusPaidUnverified, PaymentCode: "AAA-1111-AAA", CreatedAt: now},
		{ID: "b", Status: order.StatusCancelled, PaymentCode: "BBB-2222-BBB", CreatedAt: now},
		{ID: "c", Status: order.StatusPendingPayment, CreatedAt: now},
	} {
		o := o
		if err := store.Create(ctx, &o); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	codes, err := store.ActiveCodes(ctx)
	if err != nil {
		t.Fatalf("active codes: %v", err)
	}
	if _, ok := codes["AAA-1111-AAA"]; !ok {
		t.Fatalf("live code missing")
	}
	if _, ok := codes["BBB-2222-BBB"]; ok {
		t.Fatalf("cancelled order's code still active")
	}
	if len(codes) != 1 {
		t.Fatalf("codes = %v, want one entry", codes)
	}
}

func TestStudentUpserts(t *testing.T) {
	ctx := context.Background()
	store := New().Students()
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	// AppendCancellation creates the record on first touch
	st, err := store.AppendCancellation(ctx, "S1", now)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(st.Cancellations) != 1 || !st.Cancellations[0].Equal(now) {
		t.Fatalf("cancellations = %v", st.Cancellations)
	}

	// blocking does not touch the history, appending does not touch the flag
	if _, err := store.SetBlocked(ctx, "S1", true, "misconduct", now.Add(time.Minute)); err != nil {
		t.Fatalf("block: %v", err)
	}
	st, err = store.AppendCancellation(ctx, "S1", now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !st.Blocked || st.BlockReason != "misconduct" {
		t.Fatalf("append disturbed block state: %+v", st)
	}
	if len(st.Cancellations) != 2 {
		t.Fatalf("cancellations = %d, want 2", len(st.Cancellations))
	}

	if _, err := store.Get(ctx, "ghost"); !errors.Is(err, student.ErrNotFound) {
		t.Fatalf("unknown pid err = %v, want ErrNotFound", err)
	}
}

func TestSettingsLifecycle(t *testing.T) {
	ctx := context.Background()
	store := New().Settings()

	if _, err := store.Get(ctx); !errors.Is(err, settings.ErrNotInitialized) {
		t.Fatalf("fresh store err = %v, want ErrNotInitialized", err)
	}

	doc := settings.Defaults(time.Now(), settings.HashPassword("pw"))
	if err := store.Put(ctx, doc); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CancelThreshold != settings.DefaultCancelThreshold {
		t.Fatalf("threshold = %d", got.CancelThreshold)
	}

	// the returned document is a copy
	got.CancelThreshold = 9
	again, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.CancelThreshold == 9 {
		t.Fatalf("store leaked its internal document")
	}
}
