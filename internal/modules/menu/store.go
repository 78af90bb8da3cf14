// README: Persistence contract for the menu collection.
package menu

import "context"

type Store interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	Put(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, items []Item) error
}
