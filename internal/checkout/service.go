package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kiranahq/backend-kirana/internal/cart"
	"github.com/kiranahq/backend-kirana/internal/delivery"
	"github.com/kiranahq/backend-kirana/internal/jobs"
	"github.com/kiranahq/backend-kirana/internal/obs"
	"github.com/kiranahq/backend-kirana/internal/order"
	"github.com/kiranahq/backend-kirana/internal/pricing"
)

// ErrEmptyCart is returned when the cart has no lines to check out.
var ErrEmptyCart = errors.New("cart is empty")

// ErrCartOwnership is returned when the cart belongs to another user.
var ErrCartOwnership = errors.New("cart does not belong to user")

// Address is the free-form delivery address stored with the order.
type Address struct {
	ReceiverName string `json:"receiverName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	Landmark     string `json:"landmark,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
}

// Input is the checkout payload.
type Input struct {
	CartID          string   `json:"cartId" validate:"required,uuid4"`
	Latitude        *float64 `json:"latitude" validate:"required"`
	Longitude       *float64 `json:"longitude" validate:"required"`
	AllowMultiStore bool     `json:"allowMultiStore"`
	Address         Address  `json:"address"`
}

// Output summarises the created order.
type Output struct {
	OrderID       string   `json:"orderId"`
	Status        string   `json:"status"`
	Subtotal      int64    `json:"subtotal"`
	ShippingPrice int64    `json:"shippingPrice"`
	DistanceKm    float64  `json:"distanceKm"`
	NearestStore  string   `json:"nearestStore"`
	Stores        []string `json:"stores"`
	Total         int64    `json:"total"`
	Currency      string   `json:"currency"`
}

type quoter interface {
	QuoteCart(ctx context.Context, cartID string, userLat, userLon *float64, allowMultiStore bool) (delivery.Result, error)
	EffectiveSettings(ctx context.Context) (delivery.Settings, error)
}

type orderWriter interface {
	Create(ctx context.Context, p order.CreateParams) (order.Order, error)
	CreateItem(ctx context.Context, orderID, productID uuid.UUID, title string, qty int32, unitPrice, subtotal int64) error
	WithTx(tx pgx.Tx) *order.Repo
}

// Service turns a cart plus coordinates into an order. The delivery quote is
// recomputed server-side from the stored cart; client-supplied charges are
// never trusted.
type Service struct {
	Pool     *pgxpool.Pool
	CartSvc  *cart.Service
	Delivery quoter
	Orders   orderWriter
	Tasks    jobs.Enqueuer
	Currency string
}

// Create places an order from the user's cart.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (Output, error) {
	out, err := s.create(ctx, userID, in)
	s.recordResult(err)
	return out, err
}

func (s *Service) create(ctx context.Context, userID uuid.UUID, in Input) (Output, error) {
	if s == nil || s.Pool == nil || s.CartSvc == nil || s.Delivery == nil || s.Orders == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	cartID, err := uuid.Parse(in.CartID)
	if err != nil {
		return Output{}, fmt.Errorf("invalid cart id: %w", cart.ErrInvalidInput)
	}
	cr, items, err := s.CartSvc.Get(ctx, cartID)
	if err != nil {
		return Output{}, err
	}
	if cr.UserID != nil && *cr.UserID != userID {
		return Output{}, ErrCartOwnership
	}
	if len(items) == 0 {
		return Output{}, ErrEmptyCart
	}

	quote, err := s.Delivery.QuoteCart(ctx, cartID.String(), in.Latitude, in.Longitude, in.AllowMultiStore)
	if err != nil {
		return Output{}, err
	}
	settings, err := s.Delivery.EffectiveSettings(ctx)
	if err != nil {
		return Output{}, err
	}

	pricingItems := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		pricingItems = append(pricingItems, pricing.Item{Qty: int(it.Qty), UnitPrice: it.UnitPrice})
	}
	summary := pricing.Compute(pricingItems, toPaise(quote.Charge), toPaise(settings.FreeDeliveryThreshold))

	address, err := json.Marshal(in.Address)
	if err != nil {
		return Output{}, fmt.Errorf("marshal address: %w", err)
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Output{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	txOrders := s.Orders.WithTx(tx)
	o, err := txOrders.Create(ctx, order.CreateParams{
		UserID:        userID,
		Currency:      s.Currency,
		Subtotal:      summary.Subtotal,
		ShippingPrice: summary.Delivery,
		DistanceKm:    quote.TotalKm,
		NearestStore:  quote.Stores[0],
		Stores:        quote.Stores,
		Total:         summary.Total,
		Address:       address,
	})
	if err != nil {
		return Output{}, err
	}
	for _, it := range items {
		if err := txOrders.CreateItem(ctx, o.ID, it.ProductID, it.Title, it.Qty, it.UnitPrice, it.Subtotal); err != nil {
			return Output{}, err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return Output{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Output{}, err
	}

	// the order is committed; a failed notification enqueue must not fail checkout
	_ = jobs.EnqueueOrderConfirmation(ctx, s.Tasks, jobs.OrderConfirmationPayload{
		OrderID:      o.ID.String(),
		UserID:       userID.String(),
		Total:        o.Total,
		Currency:     o.Currency,
		NearestStore: o.NearestStore,
		Stores:       o.Stores,
	})

	return Output{
		OrderID:       o.ID.String(),
		Status:        string(o.Status),
		Subtotal:      o.Subtotal,
		ShippingPrice: o.ShippingPrice,
		DistanceKm:    o.DistanceKm,
		NearestStore:  o.NearestStore,
		Stores:        o.Stores,
		Total:         o.Total,
		Currency:      o.Currency,
	}, nil
}

func (s *Service) recordResult(err error) {
	if obs.CheckoutTotal == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrEmptyCart):
		result = "empty_cart"
	case errors.Is(err, delivery.ErrMultiStoreDeclined):
		result = "multi_store_declined"
	case errors.Is(err, delivery.ErrNoDeliverableStore), errors.Is(err, delivery.ErrUnresolvableAllocation):
		result = "undeliverable"
	default:
		result = "error"
	}
	obs.CheckoutTotal.WithLabelValues(result).Inc()
}

// toPaise converts a rupee amount to minor units.
func toPaise(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}
