package models

import "time"

// Locker is one product slot in a machine cell. IsFull=false means it must be
// refilled before dispensing.
type Locker struct {
	Base
	ProductID         uint            `json:"productId" gorm:"column:product_id;not null;index"`
	MatrixElementID   uint            `json:"matrixElementId" gorm:"column:matrix_element_id;not null;uniqueIndex:idx_lockers_machine_cell,priority:2,where:deleted_at IS NULL"`
	VendingMachineID  uint            `json:"vendingMachineId" gorm:"column:vending_machine_id;not null;uniqueIndex:idx_lockers_machine_cell,priority:1,where:deleted_at IS NULL"`
	IsFull            bool            `json:"isFull" gorm:"column:is_full;not null;default:false"`
	LastRefill        *time.Time      `json:"lastRefill" gorm:"column:last_refill"`
	NextPlannedRefill *time.Time      `json:"nextPlannedRefill" gorm:"column:next_planned_refill"`
	Product           *Product        `json:"product,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	MatrixElement     *MatrixElement  `json:"matrixElement,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	VendingMachine    *VendingMachine `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	// Column and Row locate the cell in the machine grid; filled on read.
	Column int `json:"column,omitempty" gorm:"-"`
	Row    int `json:"row,omitempty" gorm:"-"`
}

func (Locker) TableName() string { return "lockers" }
