package delivery

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo provides persistence for store locations and delivery settings.
type Repo struct {
	Pool *pgxpool.Pool
}

// GetSettings loads the delivery settings row. ok is false when no row has
// been saved yet and the caller should fall back to configured defaults.
func (r Repo) GetSettings(ctx context.Context) (Settings, bool, error) {
	var s Settings
	err := r.Pool.QueryRow(ctx,
		`SELECT price_per_km, base_charge, free_delivery_threshold FROM delivery_settings WHERE id = 1`,
	).Scan(&s.PricePerKm, &s.BaseCharge, &s.FreeDeliveryThreshold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, false, nil
		}
		return Settings{}, false, err
	}
	return s, true, nil
}

// UpsertSettings saves the delivery settings row.
func (r Repo) UpsertSettings(ctx context.Context, s Settings) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO delivery_settings (id, price_per_km, base_charge, free_delivery_threshold, updated_at)
		 VALUES (1, $1, $2, $3, now())
		 ON CONFLICT (id) DO UPDATE
		 SET price_per_km = EXCLUDED.price_per_km,
		     base_charge = EXCLUDED.base_charge,
		     free_delivery_threshold = EXCLUDED.free_delivery_threshold,
		     updated_at = now()`,
		s.PricePerKm, s.BaseCharge, s.FreeDeliveryThreshold,
	)
	return err
}

// ListStores returns every store location, active or not, ordered by name.
func (r Repo) ListStores(ctx context.Context) ([]StoreLocation, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT name, latitude, longitude, is_active FROM store_locations ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []StoreLocation
	for rows.Next() {
		var s StoreLocation
		if err := rows.Scan(&s.Name, &s.Latitude, &s.Longitude, &s.IsActive); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// CreateStore inserts a new store location.
func (r Repo) CreateStore(ctx context.Context, s StoreLocation) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO store_locations (name, latitude, longitude, is_active) VALUES ($1, $2, $3, $4)`,
		s.Name, s.Latitude, s.Longitude, s.IsActive,
	)
	return err
}

// UpdateStore updates a store by its case-insensitive name. Reports whether
// a row was affected.
func (r Repo) UpdateStore(ctx context.Context, name string, s StoreLocation) (bool, error) {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE store_locations
		 SET name = $2, latitude = $3, longitude = $4, is_active = $5, updated_at = now()
		 WHERE LOWER(name) = LOWER($1)`,
		name, s.Name, s.Latitude, s.Longitude, s.IsActive,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteStore removes a store by its case-insensitive name.
func (r Repo) DeleteStore(ctx context.Context, name string) (bool, error) {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM store_locations WHERE LOWER(name) = LOWER($1)`, name,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CartItemsForQuote loads the cart's line items together with the store
// locations holding any inventory record for each product.
func (r Repo) CartItemsForQuote(ctx context.Context, cartID string) ([]CartItem, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT p.title, ci.qty, COALESCE(array_agg(pi.location) FILTER (WHERE pi.location IS NOT NULL), '{}')
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 LEFT JOIN product_inventory pi ON pi.product_id = p.id
		 WHERE ci.cart_id = $1
		 GROUP BY ci.id, p.title, ci.qty
		 ORDER BY ci.id`,
		cartID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(&item.ProductName, &item.Qty, &item.InventoryLocations); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
