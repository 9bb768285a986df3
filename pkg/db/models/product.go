package models

import "github.com/shopspring/decimal"

// Product is a sellable item; (name, ref) is unique.
type Product struct {
	Base
	Name              string           `json:"name" gorm:"column:name;not null;uniqueIndex:idx_products_name_ref"`
	Ref               string           `json:"ref" gorm:"column:ref;not null;default:'';uniqueIndex:idx_products_name_ref"`
	Price             decimal.Decimal  `json:"price" gorm:"column:price;type:numeric(10,2);not null"`
	DaysBeforeExpire  int              `json:"daysBeforeExpire" gorm:"column:days_before_expire;not null;default:1"`
	ProductCategoryID uint             `json:"productCategoryId" gorm:"column:product_category_id;not null;index"`
	ProductCategory   *ProductCategory `json:"productCategory,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
}

func (Product) TableName() string { return "products" }
