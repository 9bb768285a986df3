package models

import (
	"time"

	"gorm.io/gorm"
)

// Base carries the identity and soft-delete lifecycle shared by every entity.
type Base struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

// GetID exposes the primary key to generic helpers.
func (b Base) GetID() uint {
	return b.ID
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&City{},
		&ProductCategory{},
		&Producer{},
		&Product{},
		&Status{},
		&MatrixElement{},
		&User{},
		&VendingMachine{},
		&Locker{},
		&Order{},
		&OrderProduct{},
		&OutboxEvent{},
	}
}
