// internal/adapters/out/db/order_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	orderdom "storefront/internal/domain/order"
)

// OrderRepositoryPG is the PostgreSQL implementation of order.Repository.
type OrderRepositoryPG struct {
	DB  *sql.DB
	now func() time.Time
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db, now: time.Now}
}

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
  id               UUID PRIMARY KEY,
  user_id          TEXT        NOT NULL,
  items            JSONB       NOT NULL,
  total            NUMERIC     NOT NULL,
  shipping_details JSONB       NOT NULL,
  status           TEXT        NOT NULL,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id);`

// EnsureSchema creates the orders table when missing.
func (r *OrderRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, ordersSchema); err != nil {
		return fmt.Errorf("db: ensure orders schema: %w", err)
	}
	return nil
}

// ========================
// Repository impl
// ========================

func (r *OrderRepositoryPG) Create(ctx context.Context, o orderdom.Order) (string, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return "", err
	}
	shipJSON, err := json.Marshal(o.ShippingDetails)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now().UTC()
	}

	const q = `
INSERT INTO orders (id, user_id, items, total, shipping_details, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.DB.ExecContext(ctx, q,
		id,
		strings.TrimSpace(o.UserID),
		itemsJSON,
		o.Total,
		shipJSON,
		string(o.Status),
		createdAt,
	)
	if err != nil {
		return "", mapPGError("create order", err)
	}
	return id, nil
}

func (r *OrderRepositoryPG) ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error) {
	const q = `
SELECT id, user_id, items, total, shipping_details, status, created_at
FROM orders
WHERE user_id = $1`
	rows, err := r.DB.QueryContext(ctx, q, strings.TrimSpace(userID))
	if err != nil {
		return nil, mapPGError("list orders", err)
	}
	defer rows.Close()

	out := []orderdom.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ========================
// helpers
// ========================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (orderdom.Order, error) {
	var (
		o         orderdom.Order
		itemsRaw  []byte
		shipRaw   []byte
		total     decimal.Decimal
		status    string
		createdAt time.Time
	)
	if err := s.Scan(&o.ID, &o.UserID, &itemsRaw, &total, &shipRaw, &status, &createdAt); err != nil {
		return orderdom.Order{}, err
	}
	if err := json.Unmarshal(itemsRaw, &o.Items); err != nil {
		return orderdom.Order{}, fmt.Errorf("db: decode items of order %s: %w", o.ID, err)
	}
	if err := json.Unmarshal(shipRaw, &o.ShippingDetails); err != nil {
		return orderdom.Order{}, fmt.Errorf("db: decode shipping of order %s: %w", o.ID, err)
	}
	o.Total = total
	o.Status = orderdom.Status(status)
	o.CreatedAt = createdAt.UTC()
	return o, nil
}

func mapPGError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
		return fmt.Errorf("db: %s: orders table missing: %w", op, err)
	}
	return fmt.Errorf("db: %s: %w", op, err)
}
