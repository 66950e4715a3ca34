package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Order mirrors an orders table row.
type Order struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Status        Status
	Currency      string
	Subtotal      int64
	ShippingPrice int64
	DistanceKm    float64
	NearestStore  string
	Stores        []string
	Total         int64
	Address       json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Item mirrors an order_items table row.
type Item struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Title     string
	Qty       int32
	UnitPrice int64
	Subtotal  int64
}

// CreateParams carries everything needed to insert an order row.
type CreateParams struct {
	UserID        uuid.UUID
	Currency      string
	Subtotal      int64
	ShippingPrice int64
	DistanceKm    float64
	NearestStore  string
	Stores        []string
	Total         int64
	Address       json.RawMessage
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo persists orders in PostgreSQL. DB may be a pool or a transaction.
type Repo struct {
	DB querier
}

// NewRepo builds a pool-backed Repo.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{DB: pool}
}

// WithTx returns a Repo bound to the given transaction.
func (r *Repo) WithTx(tx pgx.Tx) *Repo {
	return &Repo{DB: tx}
}

const orderColumns = `id, user_id, status, currency, subtotal, shipping_price,
	distance_km, nearest_store, stores, total, shipping_address, created_at, updated_at`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.Status, &o.Currency, &o.Subtotal, &o.ShippingPrice,
		&o.DistanceKm, &o.NearestStore, &o.Stores, &o.Total, &o.Address, &o.CreatedAt, &o.UpdatedAt)
}

// Create inserts an order row.
func (r *Repo) Create(ctx context.Context, p CreateParams) (Order, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO orders (user_id, currency, subtotal, shipping_price, distance_km,
			nearest_store, stores, total, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+orderColumns,
		p.UserID, p.Currency, p.Subtotal, p.ShippingPrice, p.DistanceKm,
		p.NearestStore, p.Stores, p.Total, p.Address)
	var o Order
	if err := scanOrder(row, &o); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

// CreateItem inserts an order line.
func (r *Repo) CreateItem(ctx context.Context, orderID, productID uuid.UUID, title string, qty int32, unitPrice, subtotal int64) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO order_items (order_id, product_id, title, qty, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		orderID, productID, title, qty, unitPrice, subtotal)
	if err != nil {
		return fmt.Errorf("create order item: %w", err)
	}
	return nil
}

// ListByUser returns a page of the user's orders, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CountByUser returns the user's total order count.
func (r *Repo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.DB.QueryRow(ctx, `SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// GetByID fetches a single order.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Order, error) {
	var o Order
	if err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), &o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ListItems returns the lines of an order.
func (r *Repo) ListItems(ctx context.Context, orderID uuid.UUID) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, title, qty, unit_price, subtotal
		FROM order_items WHERE order_id = $1 ORDER BY title`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Title, &it.Qty, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateStatusIf sets the order status only while the row still holds the
// expected current status, guarding concurrent transitions.
func (r *Repo) UpdateStatusIf(ctx context.Context, id uuid.UUID, current, target Status) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, current, target)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
