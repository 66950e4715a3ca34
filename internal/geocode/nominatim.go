package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Nominatim talks to a Nominatim-compatible geocoding API.
type Nominatim struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewNominatim constructs a Nominatim provider with a traced HTTP client.
func NewNominatim(baseURL, apiKey string, timeout time.Duration) *Nominatim {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Nominatim{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type nominatimResult struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Display string `json:"display_name"`
	Address struct {
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		State    string `json:"state"`
		Postcode string `json:"postcode"`
		Country  string `json:"country"`
	} `json:"address"`
}

// Forward resolves a free-text address to coordinates using /search.
func (n *Nominatim) Forward(ctx context.Context, query string) (Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	var results []nominatimResult
	if err := n.get(ctx, "/search", params, &results); err != nil {
		return Location{}, err
	}
	if len(results) == 0 {
		return Location{}, ErrNoResult
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("geocode: parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("geocode: parse longitude: %w", err)
	}
	return Location{Latitude: lat, Longitude: lon}, nil
}

// Reverse resolves coordinates to an address using /reverse.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (Address, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	var result nominatimResult
	if err := n.get(ctx, "/reverse", params, &result); err != nil {
		return Address{}, err
	}
	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	if city == "" {
		city = result.Address.Village
	}
	if city == "" && result.Display == "" {
		return Address{}, ErrNoResult
	}
	return Address{
		City:       city,
		PostalCode: result.Address.Postcode,
		State:      result.Address.State,
		Country:    result.Address.Country,
		Display:    result.Display,
	}, nil
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values, dst any) error {
	if n.APIKey != "" {
		params.Set("key", n.APIKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("geocode: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("geocode: decode response: %w", err)
	}
	return nil
}
