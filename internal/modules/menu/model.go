// README: Menu item entity and default seed data.
package menu

import (
	"errors"
	"time"

	"canteen/internal/types"
)

var ErrNotFound = errors.New("menu item not found")

type Item struct {
	ID        string      `json:"id" firestore:"id"`
	Name      string      `json:"name" firestore:"name"`
	Price     types.Money `json:"price" firestore:"price"`
	ImageURL  string      `json:"imageUrl" firestore:"imageUrl"`
	Available bool        `json:"available" firestore:"available"`
	CreatedAt time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" firestore:"updatedAt"`
}

// DefaultItems is the first-run menu seed.
func DefaultItems(now time.Time, newID func() string) []Item {
	seed := []struct {
		name  string
		price int64
	}{
		{"Samosa", 20},
		{"Tea", 12},
		{"Veg Puff", 25},
		{"Coffee", 18},
	}
	items := make([]Item, 0, len(seed))
	for _, s := range seed {
		items = append(items, Item{
			ID:        newID(),
			Name:      s.name,
			Price:     types.Money{Amount: s.price, Currency: types.DefaultCurrency},
			Available: true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return items
}
