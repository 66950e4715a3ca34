package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Cart mirrors a carts table row.
type Cart struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	AnonID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt *time.Time
}

// Item mirrors a cart_items table row.
type Item struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Title     string
	Slug      string
	Qty       int32
	UnitPrice int64
	Subtotal  int64
}

// Product carries the product fields the cart needs.
type Product struct {
	ID       uuid.UUID
	Title    string
	Slug     string
	Price    int64
	IsActive bool
}

// Repo persists carts in PostgreSQL.
type Repo struct {
	Pool *pgxpool.Pool
}

// CreateCart inserts a new cart for either a user or an anonymous session.
func (r *Repo) CreateCart(ctx context.Context, userID *uuid.UUID, anonID *string, expiresAt time.Time) (Cart, error) {
	var c Cart
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO carts (user_id, anon_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, anon_id, created_at, updated_at, expires_at`,
		userID, anonID, expiresAt).
		Scan(&c.ID, &c.UserID, &c.AnonID, &c.CreatedAt, &c.UpdatedAt, &c.ExpiresAt)
	if err != nil {
		return Cart{}, fmt.Errorf("create cart: %w", err)
	}
	return c, nil
}

// GetCartByID fetches a cart by identifier.
func (r *Repo) GetCartByID(ctx context.Context, id uuid.UUID) (Cart, error) {
	var c Cart
	err := r.Pool.QueryRow(ctx, `
		SELECT id, user_id, anon_id, created_at, updated_at, expires_at
		FROM carts WHERE id = $1`, id).
		Scan(&c.ID, &c.UserID, &c.AnonID, &c.CreatedAt, &c.UpdatedAt, &c.ExpiresAt)
	if err != nil {
		return Cart{}, err
	}
	return c, nil
}

// GetActiveCartByUser fetches the newest unexpired cart for a user.
func (r *Repo) GetActiveCartByUser(ctx context.Context, userID uuid.UUID) (Cart, error) {
	var c Cart
	err := r.Pool.QueryRow(ctx, `
		SELECT id, user_id, anon_id, created_at, updated_at, expires_at
		FROM carts
		WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC LIMIT 1`, userID).
		Scan(&c.ID, &c.UserID, &c.AnonID, &c.CreatedAt, &c.UpdatedAt, &c.ExpiresAt)
	if err != nil {
		return Cart{}, err
	}
	return c, nil
}

// GetActiveCartByAnon fetches the newest unexpired cart for an anonymous session.
func (r *Repo) GetActiveCartByAnon(ctx context.Context, anonID string) (Cart, error) {
	var c Cart
	err := r.Pool.QueryRow(ctx, `
		SELECT id, user_id, anon_id, created_at, updated_at, expires_at
		FROM carts
		WHERE anon_id = $1 AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC LIMIT 1`, anonID).
		Scan(&c.ID, &c.UserID, &c.AnonID, &c.CreatedAt, &c.UpdatedAt, &c.ExpiresAt)
	if err != nil {
		return Cart{}, err
	}
	return c, nil
}

// TouchCart extends the cart expiry and bumps updated_at.
func (r *Repo) TouchCart(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE carts SET expires_at = $2, updated_at = now() WHERE id = $1`, id, expiresAt)
	return err
}

// ListItems returns all items in a cart with product title and slug attached.
func (r *Repo) ListItems(ctx context.Context, cartID uuid.UUID) ([]Item, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, p.title, p.slug, ci.qty, ci.unit_price, ci.subtotal
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY p.title`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Title, &it.Slug,
			&it.Qty, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// FindItemByProduct locates an existing line for the product in the cart.
func (r *Repo) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (Item, error) {
	var it Item
	err := r.Pool.QueryRow(ctx, `
		SELECT id, cart_id, product_id, qty, unit_price, subtotal
		FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID).
		Scan(&it.ID, &it.CartID, &it.ProductID, &it.Qty, &it.UnitPrice, &it.Subtotal)
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

// GetItemByID fetches a single cart item.
func (r *Repo) GetItemByID(ctx context.Context, id uuid.UUID) (Item, error) {
	var it Item
	err := r.Pool.QueryRow(ctx, `
		SELECT id, cart_id, product_id, qty, unit_price, subtotal
		FROM cart_items WHERE id = $1`, id).
		Scan(&it.ID, &it.CartID, &it.ProductID, &it.Qty, &it.UnitPrice, &it.Subtotal)
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

// CreateItem inserts a cart line.
func (r *Repo) CreateItem(ctx context.Context, cartID, productID uuid.UUID, qty int32, unitPrice int64) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO cart_items (cart_id, product_id, qty, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5)`,
		cartID, productID, qty, unitPrice, int64(qty)*unitPrice)
	if err != nil {
		return fmt.Errorf("create cart item: %w", err)
	}
	return nil
}

// UpdateItemQty sets the quantity and recomputed subtotal for a line.
func (r *Repo) UpdateItemQty(ctx context.Context, id uuid.UUID, qty int32, subtotal int64) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE cart_items SET qty = $2, subtotal = $3 WHERE id = $1`, id, qty, subtotal)
	return err
}

// DeleteItem removes a line scoped to its cart.
func (r *Repo) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	_, err := r.Pool.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	return err
}

// GetProductForCart loads the fields needed to price a line.
func (r *Repo) GetProductForCart(ctx context.Context, id uuid.UUID) (Product, error) {
	var p Product
	err := r.Pool.QueryRow(ctx,
		`SELECT id, title, slug, price, is_active FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Slug, &p.Price, &p.IsActive)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// ClearItems empties a cart after a successful checkout.
func (r *Repo) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}
