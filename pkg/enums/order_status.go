package enums

import "fmt"

// OrderStatus tracks the lifecycle of a fuel order.
type OrderStatus string

const (
	OrderStatusPendingVerification OrderStatus = "pending_verification"
	OrderStatusPlaced              OrderStatus = "placed"
	OrderStatusDispatched          OrderStatus = "dispatched"
	OrderStatusDelivered           OrderStatus = "delivered"
	OrderStatusCanceled            OrderStatus = "canceled"
	OrderStatusExpired             OrderStatus = "expired"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingVerification,
	OrderStatusPlaced,
	OrderStatusDispatched,
	OrderStatusDelivered,
	OrderStatusCanceled,
	OrderStatusExpired,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
