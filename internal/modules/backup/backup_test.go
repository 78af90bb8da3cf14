// README: Export/import round-trip and bootstrap tests over the memory backend.
package backup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canteen/internal/events"
	"canteen/internal/modules/order"
	"canteen/internal/modules/settings"
	"canteen/internal/modules/student"
	"canteen/internal/storage/memory"
	"canteen/internal/types"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	mem := memory.New()
	svc := NewService(mem.Orders(), mem.Students(), mem.Menu(), mem.Settings(), events.Nop{}, zap.NewNop())
	return svc, mem
}

func TestBootstrapSeedsOnce(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx))

	cfg, err := mem.Settings().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, settings.DefaultCancelThreshold, cfg.CancelThreshold)
	require.Equal(t, settings.HashPassword(settings.DefaultStaffPassword), cfg.AdminPasswordHash)

	items, err := mem.Menu().List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)

	// a second bootstrap must not reseed over live data
	require.NoError(t, mem.Menu().ReplaceAll(ctx, nil))
	require.NoError(t, svc.Bootstrap(ctx))
	items, err = mem.Menu().List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Bootstrap(ctx))
	require.NoError(t, mem.Orders().Create(ctx, &order.Order{
		ID:          "o1",
		StudentID:   "S1",
		Status:      order.StatusPaidUnverified,
		PaymentCode: "ABC-1234-XYZ",
		Total:       types.Money{Amount: 52, Currency: "INR"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
	_, err := mem.Students().AppendCancellation(ctx, "S1", now)
	require.NoError(t, err)

	raw, err := svc.Export(ctx)
	require.NoError(t, err)

	// import into a fresh store
	svc2, mem2 := newTestService(t)
	require.NoError(t, svc2.Import(ctx, raw))

	o, err := mem2.Orders().Get(ctx, "o1")
	require.NoError(t, err)
	require.Equal(t, order.StatusPaidUnverified, o.Status)
	require.Equal(t, "ABC-1234-XYZ", o.PaymentCode)

	st, err := mem2.Students().Get(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, st.Cancellations, 1)

	items, err := mem2.Menu().List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
}

func TestImportNormalizesStudentKeys(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	raw := []byte(`{"menu":[],"orders":[],"students":{" s9 ":{"blocked":true,"blockReason":"misconduct","cancellations":[]}}}`)
	require.NoError(t, svc.Import(ctx, raw))

	st, err := mem.Students().Get(ctx, "S9")
	require.NoError(t, err)
	require.True(t, st.Blocked)
	require.Equal(t, "misconduct", st.BlockReason)
}

func TestImportRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Import(context.Background(), []byte("not json"))
	require.ErrorIs(t, err, ErrInvalidDump)
}

func TestResetWipesAndReseeds(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx))
	require.NoError(t, mem.Orders().Create(ctx, &order.Order{ID: "o1", StudentID: "S1", Status: order.StatusPendingPayment}))
	_, err := mem.Students().SetBlocked(ctx, "S1", true, "misconduct", time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	orders, err := mem.Orders().List(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)

	_, err = mem.Students().Get(ctx, "S1")
	require.ErrorIs(t, err, student.ErrNotFound)

	items, err := mem.Menu().List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
}
