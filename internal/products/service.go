package products

import (
	"context"
	"strings"

	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service manages the product catalog.
type Service struct {
	*repo.Store[models.Product]
}

func NewService(conn *gorm.DB) *Service {
	return &Service{Store: repo.NewStore[models.Product](conn, "product")}
}

// Get loads a product with its category.
func (s *Service) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.GetWith(ctx, id, "ProductCategory")
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if input.Price == nil {
		return nil, fieldError("price", "is required")
	}
	if err := checkPrice(*input.Price); err != nil {
		return nil, err
	}

	days := 1
	if input.DaysBeforeExpire != nil {
		days = *input.DaysBeforeExpire
	}
	if err := checkDays(days); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:              strings.TrimSpace(input.Name),
		Ref:               strings.TrimSpace(input.Ref),
		Price:             *input.Price,
		DaysBeforeExpire:  days,
		ProductCategoryID: input.ProductCategoryID,
	}
	if err := s.Insert(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Product, error) {
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Ref != nil {
		fields["ref"] = strings.TrimSpace(*input.Ref)
	}
	if input.Price != nil {
		if err := checkPrice(*input.Price); err != nil {
			return nil, err
		}
		fields["price"] = *input.Price
	}
	if input.DaysBeforeExpire != nil {
		if err := checkDays(*input.DaysBeforeExpire); err != nil {
			return nil, err
		}
		fields["days_before_expire"] = *input.DaysBeforeExpire
	}
	if input.ProductCategoryID != nil {
		fields["product_category_id"] = *input.ProductCategoryID
	}
	return s.Patch(ctx, id, fields)
}

func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fieldError("price", "must be at least 0")
	}
	return nil
}

func checkDays(days int) error {
	if days < 1 {
		return fieldError("daysBeforeExpire", "must be at least 1")
	}
	return nil
}

func fieldError(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{field: msg})
}
