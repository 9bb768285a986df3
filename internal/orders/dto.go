package orders

import "time"

// CreateInput is the order placement request. Products holds one id per unit.
type CreateInput struct {
	UserID           uint      `json:"userId" validate:"required"`
	StatusID         uint      `json:"statusId" validate:"required"`
	VendingMachineID uint      `json:"vendingMachineId" validate:"required"`
	PickupDate       time.Time `json:"pickupDate" validate:"required"`
	Products         []uint    `json:"products" validate:"required,min=1,dive,min=1"`
}

// UpdateInput covers the only mutable fields; the price is a snapshot.
type UpdateInput struct {
	StatusID   *uint      `json:"statusId" validate:"omitempty,min=1"`
	PickupDate *time.Time `json:"pickupDate"`
}
