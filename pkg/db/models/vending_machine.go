package models

import "github.com/google/uuid"

// VendingMachine owns a grid of lockers. UUID is the public identity printed
// in its QR code and never changes.
type VendingMachine struct {
	Base
	UUID            uuid.UUID `json:"uuid" gorm:"column:uuid;type:uuid;not null;uniqueIndex"`
	Ref             string    `json:"ref" gorm:"column:ref;not null;default:'thx-1138'"`
	Latitude        *float64  `json:"latitude" gorm:"column:latitude"`
	Longitude       *float64  `json:"longitude" gorm:"column:longitude"`
	Street          string    `json:"street" gorm:"column:street"`
	MaxLineCapacity int       `json:"maxLineCapacity" gorm:"column:max_line_capacity;not null;default:6"`
	MaxRowCapacity  int       `json:"maxRowCapacity" gorm:"column:max_row_capacity;not null;default:5"`
	CityID          uint      `json:"cityId" gorm:"column:city_id;not null;index"`
	City            *City     `json:"city,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Lockers         []Locker  `json:"lockers,omitempty" gorm:"foreignKey:VendingMachineID"`
}

func (VendingMachine) TableName() string { return "vending_machines" }

const DefaultMachineRef = "thx-1138"

const (
	DefaultMaxLineCapacity = 6
	DefaultMaxRowCapacity  = 5
)
