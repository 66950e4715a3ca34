// Package delivery implements store resolution and delivery charge
// calculation for checkout. Orders ship from the active store nearest to
// the customer; items the nearest store cannot serve are picked up from
// the second-nearest store on the same courier run. The engine never
// spans more than two stores.
package delivery

import (
	"errors"

	"github.com/kiranahq/backend-kirana/internal/geo"
)

var (
	// ErrNoDeliverableStore is returned when no active store exists to serve the order.
	ErrNoDeliverableStore = errors.New("no deliverable store available")
	// ErrMultiStoreDeclined is returned when a two-store route is required but the caller withheld consent.
	ErrMultiStoreDeclined = errors.New("multi-store delivery not confirmed")
	// ErrUnresolvableAllocation is returned when the two nearest active stores cannot jointly cover the cart.
	ErrUnresolvableAllocation = errors.New("cannot fulfill all items from available stores")
	// ErrMissingCoordinates is returned when the customer location is absent or incomplete.
	ErrMissingCoordinates = errors.New("customer coordinates are required")
)

// StoreLocation describes a fulfilment store. Name is the unique key and is
// compared case-insensitively against product inventory locations.
type StoreLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsActive  bool    `json:"isActive"`
}

// Coord returns the store's position for distance calculations.
func (s StoreLocation) Coord() geo.Coordinate {
	return geo.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// RankedStore is a store annotated with its distance from the customer.
type RankedStore struct {
	StoreLocation
	DistanceKm float64 `json:"distanceKm"`
}

// Settings holds the delivery pricing configuration in effect for a quote.
type Settings struct {
	PricePerKm            float64 `json:"pricePerKm"`
	BaseCharge            float64 `json:"baseCharge"`
	FreeDeliveryThreshold float64 `json:"freeDeliveryThreshold"`
}

// CartItem is the projection of a cart line the engine needs: the product
// name and the store locations holding any inventory record for it.
// Quantity per location is deliberately not consulted.
type CartItem struct {
	ProductName        string
	InventoryLocations []string
	Qty                int
}

// Result is the outcome of a successful quote. Stores holds one or two
// store names ordered by visit sequence; TotalKm sums the route legs and
// Charge is always BaseCharge + TotalKm*PricePerKm.
type Result struct {
	Stores  []string `json:"stores"`
	TotalKm float64  `json:"totalKm"`
	Charge  float64  `json:"charge"`
}
