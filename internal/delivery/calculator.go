package delivery

import "github.com/kiranahq/backend-kirana/internal/geo"

// QuoteInput carries everything a quote needs. AllowMultiStore is the
// customer's up-front consent to a pricier two-store route; without it a
// route that needs a second store fails with ErrMultiStoreDeclined.
type QuoteInput struct {
	UserLat         *float64
	UserLon         *float64
	Stores          []StoreLocation
	Items           []CartItem
	Settings        Settings
	AllowMultiStore bool
}

// Quote computes the delivery route and charge for a cart.
//
// The nearest active store always anchors the route. When it can serve the
// whole cart the charge covers the single customer leg. Otherwise the
// second-nearest store is added and the route becomes a courier relay:
// customer to nearest store, then nearest store to second store. The charge
// is BaseCharge + TotalKm*PricePerKm in both cases.
//
// Quote is pure and deterministic: identical inputs produce identical
// results, and it performs no I/O.
func Quote(in QuoteInput) (Result, error) {
	if in.UserLat == nil || in.UserLon == nil {
		return Result{}, ErrMissingCoordinates
	}

	ranked := RankStores(*in.UserLat, *in.UserLon, in.Stores)
	if len(ranked) == 0 {
		return Result{}, ErrNoDeliverableStore
	}

	nearest := ranked[0]
	_, unservable := PartitionByStore(in.Items, nearest.Name)

	if len(unservable) == 0 {
		totalKm := nearest.DistanceKm
		return Result{
			Stores:  []string{nearest.Name},
			TotalKm: totalKm,
			Charge:  in.Settings.BaseCharge + totalKm*in.Settings.PricePerKm,
		}, nil
	}

	if len(ranked) < 2 {
		return Result{}, ErrUnresolvableAllocation
	}
	second := ranked[1]

	// The remaining items must actually exist at the second store; the
	// engine never considers a third.
	_, stillMissing := PartitionByStore(missingItems(in.Items, unservable), second.Name)
	if len(stillMissing) > 0 {
		return Result{}, ErrUnresolvableAllocation
	}

	if !in.AllowMultiStore {
		return Result{}, ErrMultiStoreDeclined
	}

	relayLeg := geo.Distance(nearest.Coord(), second.Coord())
	totalKm := nearest.DistanceKm + relayLeg
	return Result{
		Stores:  []string{nearest.Name, second.Name},
		TotalKm: totalKm,
		Charge:  in.Settings.BaseCharge + totalKm*in.Settings.PricePerKm,
	}, nil
}

func missingItems(items []CartItem, names []string) []CartItem {
	index := make(map[string]struct{}, len(names))
	for _, n := range names {
		index[n] = struct{}{}
	}
	out := make([]CartItem, 0, len(names))
	for _, item := range items {
		if _, ok := index[item.ProductName]; ok {
			out = append(out, item)
		}
	}
	return out
}
