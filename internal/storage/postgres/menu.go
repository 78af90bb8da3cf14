// README: Postgres implementation of the menu store contract.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"canteen/internal/modules/menu"
)

const menuColumns = `id, name, price_amount, currency, image_url, available, created_at, updated_at`

const (
	selectMenuQuery = `
		SELECT ` + menuColumns + ` FROM menu_items ORDER BY name`

	selectMenuItemQuery = `
		SELECT ` + menuColumns + ` FROM menu_items WHERE id = $1`

	upsertMenuItemQuery = `
		INSERT INTO menu_items (id, name, price_amount, currency, image_url, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, price_amount = $3, currency = $4, image_url = $5,
		    available = $6, updated_at = $8`

	deleteMenuItemQuery = `DELETE FROM menu_items WHERE id = $1`
)

type MenuStore struct {
	db *DB
}

func NewMenuStore(db *DB) *MenuStore {
	return &MenuStore{db: db}
}

var _ menu.Store = (*MenuStore)(nil)

func scanMenuItem(row pgx.Row) (*menu.Item, error) {
	var it menu.Item
	err := row.Scan(&it.ID, &it.Name, &it.Price.Amount, &it.Price.Currency,
		&it.ImageURL, &it.Available, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (s *MenuStore) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := s.db.Pool.Query(ctx, selectMenuQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []menu.Item{}
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *MenuStore) Get(ctx context.Context, id string) (*menu.Item, error) {
	return scanMenuItem(s.db.Pool.QueryRow(ctx, selectMenuItemQuery, id))
}

func (s *MenuStore) Put(ctx context.Context, item *menu.Item) error {
	_, err := s.db.Pool.Exec(ctx, upsertMenuItemQuery,
		item.ID, item.Name, item.Price.Amount, item.Price.Currency,
		item.ImageURL, item.Available, item.CreatedAt, item.UpdatedAt)
	return err
}

func (s *MenuStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Pool.Exec(ctx, deleteMenuItemQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

func (s *MenuStore) ReplaceAll(ctx context.Context, items []menu.Item) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM menu_items`); err != nil {
		return err
	}
	for i := range items {
		it := &items[i]
		if _, err := tx.Exec(ctx, upsertMenuItemQuery,
			it.ID, it.Name, it.Price.Amount, it.Price.Currency,
			it.ImageURL, it.Available, it.CreatedAt, it.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
