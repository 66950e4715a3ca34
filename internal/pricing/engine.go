package pricing

// Money represents a monetary value stored in minor units (paise).
type Money = int64

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice Money
}

// Summary aggregates computed cart totals.
type Summary struct {
	Subtotal Money
	Delivery Money
	Total    Money
}

// Compute calculates cart totals. Delivery is waived when freeThreshold is
// positive and the subtotal meets it.
func Compute(items []Item, delivery Money, freeThreshold Money) Summary {
	var subtotal Money
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += Money(it.Qty) * it.UnitPrice
	}
	if delivery < 0 {
		delivery = 0
	}
	if freeThreshold > 0 && subtotal >= freeThreshold {
		delivery = 0
	}
	return Summary{
		Subtotal: subtotal,
		Delivery: delivery,
		Total:    subtotal + delivery,
	}
}
