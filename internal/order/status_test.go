package order

import "testing"

func TestCanTransitionForwardOnly(t *testing.T) {
	cases := []struct {
		current Status
		target  Status
		want    bool
	}{
		{StatusPlaced, StatusPacked, true},
		{StatusPlaced, StatusOutForDelivery, true},
		{StatusPacked, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusPacked, StatusPlaced, false},
		{StatusDelivered, StatusPacked, false},
		{StatusOutForDelivery, StatusPacked, false},
		{StatusPlaced, StatusPlaced, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.current, tc.target); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.current, tc.target, got, tc.want)
		}
	}
}

func TestCanTransitionCancellation(t *testing.T) {
	if !CanTransition(StatusPlaced, StatusCancelled) {
		t.Fatal("placed order should be cancellable")
	}
	if !CanTransition(StatusOutForDelivery, StatusCancelled) {
		t.Fatal("out-for-delivery order should be cancellable by admin")
	}
	if CanTransition(StatusDelivered, StatusCancelled) {
		t.Fatal("delivered order must not be cancellable")
	}
	if CanTransition(StatusCancelled, StatusPacked) {
		t.Fatal("cancelled is terminal")
	}
}

func TestAdminTargets(t *testing.T) {
	if isAllowedAdminTarget(StatusPlaced) {
		t.Fatal("admins cannot reset an order to placed")
	}
	for _, s := range []Status{StatusPacked, StatusOutForDelivery, StatusDelivered, StatusCancelled} {
		if !isAllowedAdminTarget(s) {
			t.Fatalf("expected %s to be an allowed admin target", s)
		}
	}
}
