package order

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPlaced         Status = "PLACED"
	StatusPacked         Status = "PACKED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// statusRank orders the forward lifecycle. Cancelled is terminal and sits
// outside the forward chain.
func statusRank(s Status) int {
	switch s {
	case StatusPlaced:
		return 0
	case StatusPacked:
		return 1
	case StatusOutForDelivery:
		return 2
	case StatusDelivered:
		return 3
	case StatusCancelled:
		return -1
	default:
		return -2
	}
}

// isAllowedAdminTarget reports whether an admin may set the given status.
func isAllowedAdminTarget(s Status) bool {
	switch s {
	case StatusPacked, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from current to target.
// Forward moves only; cancellation is allowed from any non-terminal state.
func CanTransition(current, target Status) bool {
	if current == StatusCancelled || current == StatusDelivered {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	return statusRank(target) > statusRank(current) && statusRank(current) >= 0
}
