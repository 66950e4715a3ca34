package delivery

import "strings"

// PartitionByStore splits cart items into product names servable from the
// given store and those that are not. An item is servable when any of its
// inventory locations matches the store name, compared case-insensitively.
// The check is presence-only: a location entry with zero stock still counts
// as servable, mirroring how the storefront decides availability.
func PartitionByStore(items []CartItem, storeName string) (servable, unservable []string) {
	servable = make([]string, 0, len(items))
	unservable = make([]string, 0)
	target := strings.ToLower(strings.TrimSpace(storeName))
	for _, item := range items {
		if hasLocation(item.InventoryLocations, target) {
			servable = append(servable, item.ProductName)
		} else {
			unservable = append(unservable, item.ProductName)
		}
	}
	return servable, unservable
}

func hasLocation(locations []string, target string) bool {
	for _, loc := range locations {
		if strings.ToLower(strings.TrimSpace(loc)) == target {
			return true
		}
	}
	return false
}
