package payloads

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreatedEvent carries enough for a machine to prepare the pickup.
type OrderCreatedEvent struct {
	OrderID          uint            `json:"orderId"`
	UserID           uint            `json:"userId"`
	VendingMachineID uint            `json:"vendingMachineId"`
	StatusID         uint            `json:"statusId"`
	Price            decimal.Decimal `json:"price"`
	PickupDate       time.Time       `json:"pickupDate"`
	ProductIDs       []uint          `json:"productIds"`
}

// OrderStatusChangedEvent is emitted when an order moves to another status.
// Active and Archived place the new status in the pickup or archive list.
type OrderStatusChangedEvent struct {
	OrderID      uint   `json:"orderId"`
	UserID       uint   `json:"userId"`
	FromStatusID uint   `json:"fromStatusId"`
	ToStatusID   uint   `json:"toStatusId"`
	ToStatusName string `json:"toStatusName,omitempty"`
	Active       bool   `json:"active"`
	Archived     bool   `json:"archived"`
}

// VendingMachineCreatedEvent announces a new machine and its QR code key.
type VendingMachineCreatedEvent struct {
	VendingMachineID uint   `json:"vendingMachineId"`
	UUID             string `json:"uuid"`
	CityID           uint   `json:"cityId"`
	QRCodeKey        string `json:"qrCodeKey"`
}
