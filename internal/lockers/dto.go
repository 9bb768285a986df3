package lockers

import "time"

// CreateInput addresses the cell either by id or by its grid label.
type CreateInput struct {
	ProductID         uint       `json:"productId" validate:"required"`
	VendingMachineID  uint       `json:"vendingMachineId" validate:"required"`
	MatrixElementID   uint       `json:"matrixElementId" validate:"required_without=MatrixElementRef"`
	MatrixElementRef  string     `json:"matrixElementRef" validate:"omitempty,max=8"`
	IsFull            bool       `json:"isFull"`
	LastRefill        *time.Time `json:"lastRefill"`
	NextPlannedRefill *time.Time `json:"nextPlannedRefill"`
}

// UpdateInput cannot move a locker to another machine.
type UpdateInput struct {
	ProductID         *uint      `json:"productId" validate:"omitempty,min=1"`
	MatrixElementID   *uint      `json:"matrixElementId" validate:"omitempty,min=1"`
	MatrixElementRef  *string    `json:"matrixElementRef" validate:"omitempty,max=8"`
	IsFull            *bool      `json:"isFull"`
	LastRefill        *time.Time `json:"lastRefill"`
	NextPlannedRefill *time.Time `json:"nextPlannedRefill"`
}
