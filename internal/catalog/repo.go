package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRow mirrors a categories table row.
type CategoryRow struct {
	ID   uuid.UUID
	Slug string
	Name string
}

// ProductRow mirrors a products table row joined with its inventory locations.
type ProductRow struct {
	ID           uuid.UUID
	Slug         string
	Title        string
	Description  string
	Price        int64
	CategoryID   *uuid.UUID
	CategorySlug *string
	IsActive     bool
	Locations    []string
	CreatedAt    time.Time
}

// ListFilter narrows product listing queries.
type ListFilter struct {
	Query    string
	Category string
	Limit    int
	Offset   int
}

// ErrProductNotFound reports a missing product slug.
var ErrProductNotFound = errors.New("catalog: product not found")

// Repo reads catalog data from PostgreSQL.
type Repo struct {
	Pool *pgxpool.Pool
}

// ListCategories returns all categories ordered by name.
func (r *Repo) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, slug, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []CategoryRow
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountProducts returns the number of active products matching the filter.
func (r *Repo) CountProducts(ctx context.Context, f ListFilter) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `
		SELECT count(*)
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_active
		  AND ($1 = '' OR p.title ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR c.slug = $2)`,
		f.Query, f.Category).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// ListProducts returns active products matching the filter, newest first,
// with inventory locations aggregated per product.
func (r *Repo) ListProducts(ctx context.Context, f ListFilter) ([]ProductRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT p.id, p.slug, p.title, p.description, p.price, p.category_id, c.slug,
		       p.is_active, p.created_at,
		       COALESCE(array_agg(i.location ORDER BY i.location) FILTER (WHERE i.location IS NOT NULL), '{}')
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN product_inventory i ON i.product_id = p.id
		WHERE p.is_active
		  AND ($1 = '' OR p.title ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR c.slug = $2)
		GROUP BY p.id, c.slug
		ORDER BY p.created_at DESC, p.id
		LIMIT $3 OFFSET $4`,
		f.Query, f.Category, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// GetProductBySlug returns a single active product with its inventory locations.
func (r *Repo) GetProductBySlug(ctx context.Context, slug string) (ProductRow, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT p.id, p.slug, p.title, p.description, p.price, p.category_id, c.slug,
		       p.is_active, p.created_at,
		       COALESCE(array_agg(i.location ORDER BY i.location) FILTER (WHERE i.location IS NOT NULL), '{}')
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN product_inventory i ON i.product_id = p.id
		WHERE p.slug = $1 AND p.is_active
		GROUP BY p.id, c.slug`, slug)
	var p ProductRow
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductRow{}, ErrProductNotFound
		}
		return ProductRow{}, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *ProductRow) error {
	return row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.Price,
		&p.CategoryID, &p.CategorySlug, &p.IsActive, &p.CreatedAt, &p.Locations)
}

func scanProducts(rows pgx.Rows) ([]ProductRow, error) {
	var out []ProductRow
	for rows.Next() {
		var p ProductRow
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
