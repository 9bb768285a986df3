package enums

import (
	"fmt"
	"strings"
)

// OrderStatus is the seeded name of a row in the statuses table.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusArchived  OrderStatus = "archived"
	OrderStatusRetrieved OrderStatus = "retrieved"
)

// SeededOrderStatuses lists the statuses in seeded id order.
var SeededOrderStatuses = []OrderStatus{
	OrderStatusConfirmed,
	OrderStatusCancelled,
	OrderStatusPaid,
	OrderStatusArchived,
	OrderStatusRetrieved,
}

// ActiveOrderStatuses are the statuses an order can be picked up in.
var ActiveOrderStatuses = []OrderStatus{OrderStatusConfirmed, OrderStatusPaid}

// ArchivedOrderStatuses are listed in a user's archive regardless of pickup date.
var ArchivedOrderStatuses = []OrderStatus{OrderStatusCancelled, OrderStatusArchived, OrderStatusRetrieved}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is one of the seeded names.
func (s OrderStatus) IsValid() bool {
	return containsStatus(SeededOrderStatuses, s)
}

func (s OrderStatus) IsActive() bool {
	return containsStatus(ActiveOrderStatuses, s)
}

func (s OrderStatus) IsArchived() bool {
	return containsStatus(ArchivedOrderStatuses, s)
}

// ParseOrderStatus normalizes a status name read from storage or input.
func ParseOrderStatus(value string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// StatusNames converts a status set into plain strings for IN queries.
func StatusNames(statuses []OrderStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func containsStatus(set []OrderStatus, s OrderStatus) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}
