package models

type ProductCategory struct {
	Base
	Name     string    `json:"name" gorm:"column:name;not null;uniqueIndex"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:ProductCategoryID"`
}

func (ProductCategory) TableName() string { return "product_categories" }
