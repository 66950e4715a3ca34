package pricing

import "testing"

func TestComputeSubtotalAndDelivery(t *testing.T) {
	items := []Item{
		{Qty: 2, UnitPrice: 4500},
		{Qty: 1, UnitPrice: 16000},
		{Qty: 0, UnitPrice: 99999},
	}
	got := Compute(items, 6360, 0)
	if got.Subtotal != 25000 {
		t.Fatalf("subtotal = %d, want 25000", got.Subtotal)
	}
	if got.Delivery != 6360 {
		t.Fatalf("delivery = %d, want 6360", got.Delivery)
	}
	if got.Total != 31360 {
		t.Fatalf("total = %d, want 31360", got.Total)
	}
}

func TestComputeFreeDeliveryThreshold(t *testing.T) {
	items := []Item{{Qty: 1, UnitPrice: 50000}}

	got := Compute(items, 6360, 50000)
	if got.Delivery != 0 {
		t.Fatalf("delivery = %d, want 0 at threshold", got.Delivery)
	}
	if got.Total != 50000 {
		t.Fatalf("total = %d, want 50000", got.Total)
	}

	got = Compute(items, 6360, 50001)
	if got.Delivery != 6360 {
		t.Fatalf("delivery = %d, want 6360 below threshold", got.Delivery)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	got := Compute(nil, 2000, 0)
	if got.Subtotal != 0 {
		t.Fatalf("subtotal = %d, want 0", got.Subtotal)
	}
	if got.Total != 2000 {
		t.Fatalf("total = %d, want 2000", got.Total)
	}
}

func TestComputeNegativeDeliveryClamped(t *testing.T) {
	got := Compute([]Item{{Qty: 1, UnitPrice: 100}}, -500, 0)
	if got.Delivery != 0 {
		t.Fatalf("delivery = %d, want 0", got.Delivery)
	}
	if got.Total != 100 {
		t.Fatalf("total = %d, want 100", got.Total)
	}
}
