package delivery

import (
	"context"
	"errors"
	"strconv"

	"github.com/kiranahq/backend-kirana/internal/obs"
)

type settingsProvider interface {
	GetSettings(ctx context.Context) (Settings, bool, error)
	ListStores(ctx context.Context) ([]StoreLocation, error)
	CartItemsForQuote(ctx context.Context, cartID string) ([]CartItem, error)
}

// Service loads delivery configuration and computes quotes for carts.
type Service struct {
	Repo  settingsProvider
	Cache Cache
	// Defaults apply until an admin saves a settings row.
	Defaults Settings
}

// EffectiveSettings returns the settings used for quoting, preferring the
// cache, then the database, then configured defaults.
func (s *Service) EffectiveSettings(ctx context.Context) (Settings, error) {
	if cached, ok := s.Cache.GetSettings(ctx); ok {
		return cached, nil
	}
	settings, found, err := s.Repo.GetSettings(ctx)
	if err != nil {
		return Settings{}, err
	}
	if !found {
		settings = s.Defaults
	}
	s.Cache.SetSettings(ctx, settings)
	return settings, nil
}

// Stores returns all store locations, cached.
func (s *Service) Stores(ctx context.Context) ([]StoreLocation, error) {
	if cached, ok := s.Cache.GetStores(ctx); ok {
		return cached, nil
	}
	stores, err := s.Repo.ListStores(ctx)
	if err != nil {
		return nil, err
	}
	s.Cache.SetStores(ctx, stores)
	return stores, nil
}

// QuoteCart computes the delivery charge for the stored cart at the given
// customer coordinates. It is invoked both from the quote endpoint and from
// checkout; identical inputs yield identical results.
func (s *Service) QuoteCart(ctx context.Context, cartID string, userLat, userLon *float64, allowMultiStore bool) (Result, error) {
	if s == nil || s.Repo == nil {
		return Result{}, errors.New("delivery service not configured")
	}
	settings, err := s.EffectiveSettings(ctx)
	if err != nil {
		return Result{}, err
	}
	stores, err := s.Stores(ctx)
	if err != nil {
		return Result{}, err
	}
	items, err := s.Repo.CartItemsForQuote(ctx, cartID)
	if err != nil {
		return Result{}, err
	}

	res, err := Quote(QuoteInput{
		UserLat:         userLat,
		UserLon:         userLon,
		Stores:          stores,
		Items:           items,
		Settings:        settings,
		AllowMultiStore: allowMultiStore,
	})
	recordQuoteMetrics(res, err)
	return res, err
}

func recordQuoteMetrics(res Result, err error) {
	if obs.DeliveryQuoteTotal == nil {
		return
	}
	switch {
	case err == nil:
		obs.DeliveryQuoteTotal.WithLabelValues("ok", strconv.Itoa(len(res.Stores))).Inc()
		if obs.DeliveryQuoteKm != nil {
			obs.DeliveryQuoteKm.Observe(res.TotalKm)
		}
	case errors.Is(err, ErrNoDeliverableStore):
		obs.DeliveryQuoteTotal.WithLabelValues("no_store", "0").Inc()
	case errors.Is(err, ErrMultiStoreDeclined):
		obs.DeliveryQuoteTotal.WithLabelValues("declined", "0").Inc()
	case errors.Is(err, ErrUnresolvableAllocation):
		obs.DeliveryQuoteTotal.WithLabelValues("unresolvable", "0").Inc()
	default:
		obs.DeliveryQuoteTotal.WithLabelValues("error", "0").Inc()
	}
}
