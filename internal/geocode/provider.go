// Package geocode resolves street addresses to coordinates and back via a
// pluggable provider. The delivery engine only ever sees coordinates; this
// package owns the translation at the API edge.
package geocode

import (
	"context"
	"errors"
)

// ErrNoResult is returned when the provider found nothing for the query.
var ErrNoResult = errors.New("geocode: no result for query")

// Location is a forward-geocoding result.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Address is a reverse-geocoding result. City and PostalCode are the fields
// checkout needs; the rest is forwarded verbatim when the provider has it.
type Address struct {
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	Display    string `json:"display,omitempty"`
}

// Provider models a geocoding backend.
type Provider interface {
	Forward(ctx context.Context, query string) (Location, error)
	Reverse(ctx context.Context, lat, lon float64) (Address, error)
}
