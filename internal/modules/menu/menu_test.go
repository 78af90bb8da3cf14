// README: Menu service tests.
package menu

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"canteen/internal/events"
	"canteen/internal/types"
)

type fakeStore struct {
	items map[string]*Item
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]*Item{}}
}

func (f *fakeStore) List(context.Context) ([]Item, error) {
	out := make([]Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeStore) Put(_ context.Context, it *Item) error {
	cp := *it
	f.items[it.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStore) ReplaceAll(_ context.Context, items []Item) error {
	f.items = map[string]*Item{}
	for i := range items {
		cp := items[i]
		f.items[cp.ID] = &cp
	}
	return nil
}

func TestUpsertCreatesAndUpdates(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, events.Nop{})
	ctx := context.Background()

	created, err := svc.Upsert(ctx, Item{Name: "  Samosa ", Price: types.Money{Amount: 20}, Available: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("no id assigned")
	}
	if created.Name != "Samosa" {
		t.Fatalf("name = %q, want trimmed Samosa", created.Name)
	}
	if created.Price.Currency != types.DefaultCurrency {
		t.Fatalf("currency = %q, want default", created.Price.Currency)
	}

	updated, err := svc.Upsert(ctx, Item{ID: created.ID, Name: "Samosa", Price: types.Money{Amount: 25, Currency: "INR"}, Available: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price.Amount != 25 {
		t.Fatalf("price not updated: %d", updated.Price.Amount)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("update changed CreatedAt")
	}
}

func TestUpsertValidation(t *testing.T) {
	svc := NewService(newFakeStore(), events.Nop{})
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, Item{Name: "   ", Price: types.Money{Amount: 10}}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("blank name err = %v, want ErrBadRequest", err)
	}
	if _, err := svc.Upsert(ctx, Item{Name: "Tea", Price: types.Money{Amount: -1}}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("negative price err = %v, want ErrBadRequest", err)
	}
	if _, err := svc.Upsert(ctx, Item{ID: "ghost", Name: "Tea", Price: types.Money{Amount: 10}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestListFiltersUnavailable(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, events.Nop{})
	ctx := context.Background()

	tea, err := svc.Upsert(ctx, Item{Name: "Tea", Price: types.Money{Amount: 12}, Available: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Upsert(ctx, Item{Name: "Coffee", Price: types.Money{Amount: 18}, Available: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetAvailability(ctx, tea.ID, false); err != nil {
		t.Fatalf("set availability: %v", err)
	}

	visible, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 1 || visible[0].Name != "Coffee" {
		t.Fatalf("visible = %+v, want only Coffee", visible)
	}

	all, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d items, want 2", len(all))
	}
}

func TestDefaultItems(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	items := DefaultItems(now, func() string { n++; return string(rune('a' + n - 1)) })

	if len(items) != 4 {
		t.Fatalf("seed = %d items, want 4", len(items))
	}
	want := map[string]int64{"Samosa": 20, "Tea": 12, "Veg Puff": 25, "Coffee": 18}
	for _, it := range items {
		price, ok := want[it.Name]
		if !ok {
			t.Fatalf("unexpected seed item %q", it.Name)
		}
		if it.Price.Amount != price {
			t.Errorf("%s price = %d, want %d", it.Name, it.Price.Amount, price)
		}
		if !it.Available {
			t.Errorf("%s seeded unavailable", it.Name)
		}
	}
}
