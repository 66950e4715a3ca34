package geo

import (
	"math"
	"testing"
)

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	if d := DistanceKm(12.9716, 77.5946, 12.9716, 77.5946); d != 0 {
		t.Fatalf("expected 0 distance for identical points, got %f", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{12.9716, 77.5946, 12.9352, 77.6146},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{0, 0, 0, 180},
		{89.9, 10, -89.9, -170},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
	}{
		// Bengaluru city center to Koramangala.
		{"bengaluru-koramangala", 12.9716, 77.5946, 12.9352, 77.6146, 4.591},
		// One degree of latitude at the equator.
		{"one-degree-lat", 0, 0, 1, 0, 111.195},
		// London to Paris.
		{"london-paris", 51.5074, -0.1278, 48.8566, 2.3522, 343.556},
	}
	for _, tc := range cases {
		got := DistanceKm(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if relErr := math.Abs(got-tc.wantKm) / tc.wantKm; relErr > 1e-3 {
			t.Fatalf("%s: expected ~%f km, got %f km", tc.name, tc.wantKm, got)
		}
	}
}

func TestDistanceMatchesCoordinateWrapper(t *testing.T) {
	from := Coordinate{Latitude: 12.9716, Longitude: 77.5946}
	to := Coordinate{Latitude: 12.9352, Longitude: 77.6146}
	if Distance(from, to) != DistanceKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude) {
		t.Fatal("Distance wrapper must delegate to DistanceKm")
	}
}
