package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order price is a snapshot taken at creation and never recomputed.
type Order struct {
	Base
	UserID           uint            `json:"userId" gorm:"column:user_id;not null;index"`
	StatusID         uint            `json:"statusId" gorm:"column:status_id;not null;index"`
	VendingMachineID uint            `json:"vendingMachineId" gorm:"column:vending_machine_id;not null;index"`
	Price            decimal.Decimal `json:"price" gorm:"column:price;type:numeric(10,2);not null"`
	PickupDate       time.Time       `json:"pickupDate" gorm:"column:pickup_date;not null"`
	Status           *Status         `json:"status,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	User             *User           `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	VendingMachine   *VendingMachine `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	// ProductIDs lists one id per ordered unit; filled by the order engine.
	ProductIDs []uint `json:"products,omitempty" gorm:"-"`
}

func (Order) TableName() string { return "orders" }

// OrderProduct records one ordered unit; ordering a product twice yields two rows.
type OrderProduct struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"orderId" gorm:"column:order_id;not null;index"`
	ProductID uint      `json:"productId" gorm:"column:product_id;not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	Order     *Order    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Product   *Product  `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}

func (OrderProduct) TableName() string { return "order_products" }
