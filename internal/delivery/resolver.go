package delivery

import (
	"sort"

	"github.com/kiranahq/backend-kirana/internal/geo"
)

// RankStores filters the provided stores to active ones and orders them by
// ascending haversine distance from the customer. The sort is stable so
// equidistant stores keep their input order. An empty result means no
// deliverable store exists.
func RankStores(userLat, userLon float64, stores []StoreLocation) []RankedStore {
	customer := geo.Coordinate{Latitude: userLat, Longitude: userLon}
	ranked := make([]RankedStore, 0, len(stores))
	for _, s := range stores {
		if !s.IsActive {
			continue
		}
		ranked = append(ranked, RankedStore{
			StoreLocation: s,
			DistanceKm:    geo.Distance(customer, s.Coord()),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}
