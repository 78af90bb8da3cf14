// README: Emulator-backed tests for the Firestore order store. Skipped without an emulator.
package firestore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"canteen/internal/modules/order"
	"canteen/internal/types"
)

func setupTestClient(t *testing.T) *firestore.Client {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping emulator-backed store tests")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "canteen-test")
	if err != nil {
		t.Fatalf("connect emulator: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// The emulator keeps data between tests in a run, so every test uses ids
// unique to its invocation.
func uniqueID(prefix string) types.ID {
	return types.ID(fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano()))
}

func emulatorOrder(id types.ID, status order.Status, at time.Time) *order.Order {
	return &order.Order{
		ID:        id,
		StudentID: "S1",
		Items: []order.LineItem{
			{ItemID: "tea", Name: "Tea", Price: types.Money{Amount: 12, Currency: types.DefaultCurrency}, Quantity: 1},
		},
		Total:     types.Money{Amount: 12, Currency: types.DefaultCurrency},
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestConditionalUpdateRejectsWrongFrom(t *testing.T) {
	s := NewOrderStore(setupTestClient(t))
	ctx := context.Background()

	id := uniqueID("ord")
	now := time.Now().UTC()
	if err := s.Create(ctx, emulatorOrder(id, order.StatusVerified, now)); err != nil {
		t.Fatalf("create order: %v", err)
	}

	ok, err := s.UpdateStatus(ctx, id, order.StatusPaidUnverified, order.StatusVerified, now)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if ok {
		t.Fatal("update must be rejected when the order is not in the from status")
	}

	ok, err = s.AssignPaymentCode(ctx, id, "ABC-1234-XYZ", now)
	if err != nil {
		t.Fatalf("assign code: %v", err)
	}
	if ok {
		t.Fatal("assign must be rejected once the order left PENDING_PAYMENT")
	}

	if _, err := s.UpdateStatus(ctx, uniqueID("missing"), order.StatusVerified, order.StatusFulfilled, now); err != order.ErrNotFound {
		t.Fatalf("missing order: want ErrNotFound, got %v", err)
	}
}

// Contending transactions get aborted and retried by the client; a retried
// attempt that finds the status already advanced must report false, so the
// verification race has exactly one winner.
func TestConcurrentVerifySingleWinner(t *testing.T) {
	s := NewOrderStore(setupTestClient(t))
	ctx := context.Background()

	id := uniqueID("ord")
	now := time.Now().UTC()
	o := emulatorOrder(id, order.StatusPaidUnverified, now)
	o.PaymentCode = "RAC-0001-ECO"
	if err := s.Create(ctx, o); err != nil {
		t.Fatalf("create order: %v", err)
	}

	const workers = 6
	wins := make(chan bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.UpdateStatus(ctx, id, order.StatusPaidUnverified, order.StatusVerified, time.Now().UTC())
			if err != nil {
				t.Errorf("update status: %v", err)
				return
			}
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", won)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.Status != order.StatusVerified {
		t.Fatalf("unexpected final status: %s", got.Status)
	}
}
