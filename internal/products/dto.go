package products

import "github.com/shopspring/decimal"

// CreateInput accepts the price as a JSON number or string.
type CreateInput struct {
	Name              string           `json:"name" validate:"required,max=255"`
	Ref               string           `json:"ref" validate:"omitempty,max=64"`
	Price             *decimal.Decimal `json:"price" validate:"required"`
	DaysBeforeExpire  *int             `json:"daysBeforeExpire"`
	ProductCategoryID uint             `json:"productCategoryId" validate:"required"`
}

type UpdateInput struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Ref               *string          `json:"ref" validate:"omitempty,max=64"`
	Price             *decimal.Decimal `json:"price"`
	DaysBeforeExpire  *int             `json:"daysBeforeExpire"`
	ProductCategoryID *uint            `json:"productCategoryId" validate:"omitempty,min=1"`
}
