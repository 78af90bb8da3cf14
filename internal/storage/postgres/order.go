// README: Postgres implementation of the order store contract.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"canteen/internal/modules/order"
	"canteen/internal/types"
)

const orderColumns = `id, pid, items, total_amount, currency, status, payment_code,
       created_at, updated_at, verified_at, fulfilled_at, cancelled_at`

const (
	insertOrderQuery = `
		INSERT INTO orders (id, pid, items, total_amount, currency, status, payment_code,
		                    created_at, updated_at, verified_at, fulfilled_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	selectOrderQuery = `
		SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	selectOrderByCodeQuery = `
		SELECT ` + orderColumns + ` FROM orders
		WHERE payment_code = $1
		ORDER BY created_at ASC
		LIMIT 1`

	selectOrdersByStudentQuery = `
		SELECT ` + orderColumns + ` FROM orders
		WHERE pid = $1
		ORDER BY created_at DESC`

	selectOrdersQuery = `
		SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	selectActiveCodesQuery = `
		SELECT payment_code FROM orders
		WHERE payment_code <> '' AND status <> 'CANCELLED'`

	assignCodeQuery = `
		UPDATE orders
		SET payment_code = $2, status = 'PAID_UNVERIFIED', updated_at = $3
		WHERE id = $1 AND status = 'PENDING_PAYMENT'`

	updateStatusQuery = `
		UPDATE orders
		SET status = $2,
		    updated_at = $3,
		    verified_at  = CASE WHEN $2 = 'VERIFIED'  THEN $3 ELSE verified_at  END,
		    fulfilled_at = CASE WHEN $2 = 'FULFILLED' THEN $3 ELSE fulfilled_at END,
		    cancelled_at = CASE WHEN $2 = 'CANCELLED' THEN $3 ELSE cancelled_at END
		WHERE id = $1 AND status = $4`

	deleteOrderQuery = `DELETE FROM orders WHERE id = $1`
)

type OrderStore struct {
	db *DB
}

func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

var _ order.Store = (*OrderStore)(nil)

func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, insertOrderQuery,
		string(o.ID), string(o.StudentID), items, o.Total.Amount, o.Total.Currency,
		string(o.Status), o.PaymentCode,
		o.CreatedAt, o.UpdatedAt, o.VerifiedAt, o.FulfilledAt, o.CancelledAt)
	return err
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	var items []byte
	err := row.Scan(&o.ID, &o.StudentID, &items, &o.Total.Amount, &o.Total.Currency,
		&o.Status, &o.PaymentCode,
		&o.CreatedAt, &o.UpdatedAt, &o.VerifiedAt, &o.FulfilledAt, &o.CancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) Get(ctx context.Context, id types.ID) (*order.Order, error) {
	return scanOrder(s.db.Pool.QueryRow(ctx, selectOrderQuery, string(id)))
}

func (s *OrderStore) GetByPaymentCode(ctx context.Context, code string) (*order.Order, error) {
	if code == "" {
		return nil, order.ErrNotFound
	}
	return scanOrder(s.db.Pool.QueryRow(ctx, selectOrderByCodeQuery, code))
}

func (s *OrderStore) listQuery(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *OrderStore) ListByStudent(ctx context.Context, pid types.ID) ([]order.Order, error) {
	return s.listQuery(ctx, selectOrdersByStudentQuery, string(pid))
}

func (s *OrderStore) List(ctx context.Context) ([]order.Order, error) {
	return s.listQuery(ctx, selectOrdersQuery)
}

func (s *OrderStore) ActiveCodes(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.Pool.Query(ctx, selectActiveCodesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := map[string]struct{}{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes[code] = struct{}{}
	}
	return codes, rows.Err()
}

func (s *OrderStore) AssignPaymentCode(ctx context.Context, id types.ID, code string, at time.Time) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, assignCodeQuery, string(id), code, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id types.ID, from, to order.Status, at time.Time) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, updateStatusQuery, string(id), string(to), at, string(from))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *OrderStore) Delete(ctx context.Context, id types.ID) error {
	tag, err := s.db.Pool.Exec(ctx, deleteOrderQuery, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (s *OrderStore) ReplaceAll(ctx context.Context, orders []order.Order) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM orders`); err != nil {
		return err
	}
	for i := range orders {
		o := &orders[i]
		items, err := json.Marshal(o.Items)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertOrderQuery,
			string(o.ID), string(o.StudentID), items, o.Total.Amount, o.Total.Currency,
			string(o.Status), o.PaymentCode,
			o.CreatedAt, o.UpdatedAt, o.VerifiedAt, o.FulfilledAt, o.CancelledAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
