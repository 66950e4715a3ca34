package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound indicates the requested cart or item could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

type store interface {
	CreateCart(ctx context.Context, userID *uuid.UUID, anonID *string, expiresAt time.Time) (Cart, error)
	GetCartByID(ctx context.Context, id uuid.UUID) (Cart, error)
	GetActiveCartByUser(ctx context.Context, userID uuid.UUID) (Cart, error)
	GetActiveCartByAnon(ctx context.Context, anonID string) (Cart, error)
	TouchCart(ctx context.Context, id uuid.UUID, expiresAt time.Time) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]Item, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (Item, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (Item, error)
	CreateItem(ctx context.Context, cartID, productID uuid.UUID, qty int32, unitPrice int64) error
	UpdateItemQty(ctx context.Context, id uuid.UUID, qty int32, subtotal int64) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	GetProductForCart(ctx context.Context, id uuid.UUID) (Product, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

// Service encapsulates cart domain operations.
type Service struct {
	Repo store
	TTL  time.Duration
	Now  func() time.Time
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// EnsureCart loads or creates a cart for the provided identifiers.
func (s *Service) EnsureCart(ctx context.Context, userID *uuid.UUID, anonID *string) (Cart, error) {
	if s == nil || s.Repo == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	expires := s.now().Add(s.ttl())

	if userID != nil {
		cart, err := s.Repo.GetActiveCartByUser(ctx, *userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return s.Repo.CreateCart(ctx, userID, nil, expires)
			}
			return Cart{}, err
		}
		_ = s.Repo.TouchCart(ctx, cart.ID, expires)
		return cart, nil
	}

	if anonID != nil && *anonID != "" {
		cart, err := s.Repo.GetActiveCartByAnon(ctx, *anonID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return s.Repo.CreateCart(ctx, nil, anonID, expires)
			}
			return Cart{}, err
		}
		_ = s.Repo.TouchCart(ctx, cart.ID, expires)
		return cart, nil
	}

	return Cart{}, ErrInvalidInput
}

// Get loads a cart plus its items, rejecting expired carts.
func (s *Service) Get(ctx context.Context, cartID uuid.UUID) (Cart, []Item, error) {
	cart, err := s.Repo.GetCartByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cart{}, nil, ErrNotFound
		}
		return Cart{}, nil, err
	}
	if cart.ExpiresAt != nil && cart.ExpiresAt.Before(s.now()) {
		return Cart{}, nil, ErrNotFound
	}
	items, err := s.Repo.ListItems(ctx, cartID)
	if err != nil {
		return Cart{}, nil, err
	}
	return cart, items, nil
}

// AddItem inserts or increments a cart line at the product's current price.
func (s *Service) AddItem(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	expires := s.now().Add(s.ttl())

	item, err := s.Repo.FindItemByProduct(ctx, cartID, productID)
	if err == nil {
		newQty := item.Qty + int32(qty)
		if err := s.Repo.UpdateItemQty(ctx, item.ID, newQty, int64(newQty)*item.UnitPrice); err != nil {
			return err
		}
		_ = s.Repo.TouchCart(ctx, cartID, expires)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	product, err := s.Repo.GetProductForCart(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("product not found: %w", ErrInvalidInput)
		}
		return err
	}
	if !product.IsActive {
		return fmt.Errorf("product not available: %w", ErrInvalidInput)
	}
	if err := s.Repo.CreateItem(ctx, cartID, productID, int32(qty), product.Price); err != nil {
		return err
	}
	_ = s.Repo.TouchCart(ctx, cartID, expires)
	return nil
}

// UpdateQty sets the quantity for a cart line.
func (s *Service) UpdateQty(ctx context.Context, cartID, itemID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	item, err := s.Repo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if item.CartID != cartID {
		return ErrNotFound
	}
	if err := s.Repo.UpdateItemQty(ctx, item.ID, int32(qty), int64(qty)*item.UnitPrice); err != nil {
		return err
	}
	_ = s.Repo.TouchCart(ctx, cartID, s.now().Add(s.ttl()))
	return nil
}

// RemoveItem deletes a cart line.
func (s *Service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	if err := s.Repo.DeleteItem(ctx, cartID, itemID); err != nil {
		return err
	}
	_ = s.Repo.TouchCart(ctx, cartID, s.now().Add(s.ttl()))
	return nil
}

// Subtotal sums line subtotals for a cart.
func Subtotal(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal
	}
	return total
}
