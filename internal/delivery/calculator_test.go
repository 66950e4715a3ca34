package delivery

import (
	"errors"
	"math"
	"testing"

	"github.com/kiranahq/backend-kirana/internal/geo"
)

func ptr(v float64) *float64 { return &v }

var testSettings = Settings{PricePerKm: 10, BaseCharge: 20}

func TestQuoteSingleStore(t *testing.T) {
	stores := []StoreLocation{
		{Name: "Koramangala", Latitude: 12.9352, Longitude: 77.6146, IsActive: true},
	}
	items := []CartItem{
		{ProductName: "Basmati Rice 5kg", InventoryLocations: []string{"Koramangala"}, Qty: 1},
		{ProductName: "Ghee 1L", InventoryLocations: []string{"koramangala", "Indiranagar"}, Qty: 2},
	}
	res, err := Quote(QuoteInput{
		UserLat:  ptr(12.9716),
		UserLon:  ptr(77.5946),
		Stores:   stores,
		Items:    items,
		Settings: testSettings,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Stores) != 1 || res.Stores[0] != "Koramangala" {
		t.Fatalf("expected single store Koramangala, got %v", res.Stores)
	}
	wantKm := geo.DistanceKm(12.9716, 77.5946, 12.9352, 77.6146)
	if math.Abs(res.TotalKm-wantKm) > 1e-9 {
		t.Fatalf("expected totalKm %f, got %f", wantKm, res.TotalKm)
	}
	if res.TotalKm < 4.3 || res.TotalKm > 4.7 {
		t.Fatalf("totalKm out of expected range: %f", res.TotalKm)
	}
	if math.Abs(res.Charge-(20+res.TotalKm*10)) > 1e-9 {
		t.Fatalf("charge formula violated: charge=%f totalKm=%f", res.Charge, res.TotalKm)
	}
}

func TestQuoteMultiStoreConfirmed(t *testing.T) {
	stores := []StoreLocation{
		{Name: "A", Latitude: 12.9352, Longitude: 77.6146, IsActive: true},
		{Name: "B", Latitude: 12.9141, Longitude: 77.6460, IsActive: true},
	}
	items := []CartItem{
		{ProductName: "Milk 1L", InventoryLocations: []string{"A"}, Qty: 1},
		{ProductName: "Filter Coffee 500g", InventoryLocations: []string{"B"}, Qty: 1},
	}
	res, err := Quote(QuoteInput{
		UserLat:         ptr(12.9716),
		UserLon:         ptr(77.5946),
		Stores:          stores,
		Items:           items,
		Settings:        testSettings,
		AllowMultiStore: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Stores) != 2 || res.Stores[0] != "A" || res.Stores[1] != "B" {
		t.Fatalf("expected stores [A B], got %v", res.Stores)
	}
	// Relay route: user to A plus A to B, not user to B.
	legUserA := geo.DistanceKm(12.9716, 77.5946, 12.9352, 77.6146)
	legAB := geo.DistanceKm(12.9352, 77.6146, 12.9141, 77.6460)
	if math.Abs(res.TotalKm-(legUserA+legAB)) > 1e-9 {
		t.Fatalf("expected relay distance %f, got %f", legUserA+legAB, res.TotalKm)
	}
	if math.Abs(res.Charge-(testSettings.BaseCharge+res.TotalKm*testSettings.PricePerKm)) > 1e-9 {
		t.Fatalf("charge formula violated: %f", res.Charge)
	}
}

func TestQuoteMultiStoreDeclined(t *testing.T) {
	stores := []StoreLocation{
		{Name: "A", Latitude: 12.9352, Longitude: 77.6146, IsActive: true},
		{Name: "B", Latitude: 12.9141, Longitude: 77.6460, IsActive: true},
	}
	items := []CartItem{
		{ProductName: "Milk 1L", InventoryLocations: []string{"A"}, Qty: 1},
		{ProductName: "Filter Coffee 500g", InventoryLocations: []string{"B"}, Qty: 1},
	}
	_, err := Quote(QuoteInput{
		UserLat:  ptr(12.9716),
		UserLon:  ptr(77.5946),
		Stores:   stores,
		Items:    items,
		Settings: testSettings,
	})
	if !errors.Is(err, ErrMultiStoreDeclined) {
		t.Fatalf("expected ErrMultiStoreDeclined, got %v", err)
	}
}

func TestQuoteNoActiveStores(t *testing.T) {
	_, err := Quote(QuoteInput{
		UserLat:  ptr(12.9716),
		UserLon:  ptr(77.5946),
		Stores:   []StoreLocation{},
		Items:    []CartItem{{ProductName: "Milk 1L", Qty: 1}},
		Settings: testSettings,
	})
	if !errors.Is(err, ErrNoDeliverableStore) {
		t.Fatalf("expected ErrNoDeliverableStore, got %v", err)
	}

	_, err = Quote(QuoteInput{
		UserLat: ptr(12.9716),
		UserLon: ptr(77.5946),
		Stores: []StoreLocation{
			{Name: "Closed", Latitude: 12.97, Longitude: 77.59, IsActive: false},
		},
		Items:    []CartItem{{ProductName: "Milk 1L", Qty: 1}},
		Settings: testSettings,
	})
	if !errors.Is(err, ErrNoDeliverableStore) {
		t.Fatalf("expected ErrNoDeliverableStore for all-inactive stores, got %v", err)
	}
}

func TestQuoteInactiveNearestStoreSkipped(t *testing.T) {
	stores := []StoreLocation{
		// Geometrically nearest, but inactive.
		{Name: "CityCenter", Latitude: 12.9716, Longitude: 77.5946, IsActive: false},
		{Name: "Koramangala", Latitude: 12.9352, Longitude: 77.6146, IsActive: true},
	}
	items := []CartItem{
		{ProductName: "Milk 1L", InventoryLocations: []string{"CityCenter", "Koramangala"}, Qty: 1},
	}
	res, err := Quote(QuoteInput{
		UserLat:  ptr(12.9716),
		UserLon:  ptr(77.5946),
		Stores:   stores,
		Items:    items,
		Settings: testSettings,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stores[0] != "Koramangala" {
		t.Fatalf("inactive store must never be selected, got %v", res.Stores)
	}
}

func TestQuoteUnresolvableAllocationSingleActiveStore(t *testing.T) {
	stores := []StoreLocation{
		{Name: "A", Latitude: 12.9352, Longitude: 77.6146, IsActive: true},
	}
	items := []CartItem{
		{ProductName: "Milk 1L", InventoryLocations: []string{"A"}, Qty: 1},
		{ProductName: "Imported Cheese", InventoryLocations: []string{"Whitefield"}, Qty: 1},
	}
	_, err := Quote(QuoteInput{
		UserLat:         ptr(12.9716),
		UserLon:         ptr(77.5946),
		Stores:          stores,
		Items:           items,
		Settings:        testSettings,
		AllowMultiStore: true,
	})
	if !errors.Is(err, ErrUnresolvableAllocation) {
		t.Fatalf("expected ErrUnresolvableAllocation, got %v", err)
	}
}

func TestQuoteUnresolvableWhenSecondStoreLacksItems(t *testing.T) {
	stores := []StoreLocation{
		{Name: "A", Latitude: 12.9352, Longitude: 77.6146, IsActive: true},
		{Name: "B", Latitude: 12.9141, Longitude: 77.6460, IsActive: true},
	}
	items := []CartItem{
		{ProductName: "Milk 1L", InventoryLocations: []string{"A"}, Qty: 1},
		{ProductName: "Imported Cheese", InventoryLocations: []string{"Whitefield"}, Qty: 1},
	}
	_, err := Quote(QuoteInput{
		UserLat:         ptr(12.9716),
		UserLon:         ptr(77.5946),
		Stores:          stores,
		Items:           items,
		Settings:        testSettings,
		AllowMultiStore: true,
	})
	if !errors.Is(err, ErrUnresolvableAllocation) {
		t.Fatalf("expected ErrUnresolvableAllocation, got %v", err)
	}
}

func TestQuoteMissingCoordinates(t *testing.T) {
	_, err := Quote(QuoteInput{
		UserLat:  ptr(12.9716),
		Stores:   []StoreLocation{{Name: "A", IsActive: true}},
		Settings: testSettings,
	})
	if !errors.Is(err, ErrMissingCoordinates) {
		t.Fatalf("expected ErrMissingCoordinates, got %v", err)
	}
}

func TestQuoteDeterminism(t *testing.T) {
	in := QuoteInput{
		UserLat: ptr(12.9716),
		UserLon: ptr(77.5946),
		Stores: []StoreLocation{
			{Name: "A", Latitude: 12.9352, Longitude: 77.6146, IsActive: true},
			{Name: "B", Latitude: 12.9141, Longitude: 77.6460, IsActive: true},
		},
		Items: []CartItem{
			{ProductName: "Milk 1L", InventoryLocations: []string{"A"}, Qty: 1},
			{ProductName: "Filter Coffee 500g", InventoryLocations: []string{"B"}, Qty: 1},
		},
		Settings:        testSettings,
		AllowMultiStore: true,
	}
	first, err := Quote(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Quote(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalKm != second.TotalKm || first.Charge != second.Charge {
		t.Fatalf("quote must be deterministic: %+v vs %+v", first, second)
	}
	if len(first.Stores) != len(second.Stores) {
		t.Fatalf("store lists differ: %v vs %v", first.Stores, second.Stores)
	}
	for i := range first.Stores {
		if first.Stores[i] != second.Stores[i] {
			t.Fatalf("store lists differ: %v vs %v", first.Stores, second.Stores)
		}
	}
}

func TestQuoteEmptyCartIsSingleStore(t *testing.T) {
	res, err := Quote(QuoteInput{
		UserLat: ptr(12.9716),
		UserLon: ptr(77.5946),
		Stores: []StoreLocation{
			{Name: "A", Latitude: 12.9352, Longitude: 77.6146, IsActive: true},
		},
		Settings: testSettings,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Stores) != 1 {
		t.Fatalf("empty cart should quote against the nearest store, got %v", res.Stores)
	}
}
