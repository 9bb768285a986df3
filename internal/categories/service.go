package categories

import (
	"context"
	"strings"

	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Service manages product categories.
type Service struct {
	*repo.Store[models.ProductCategory]
}

func NewService(conn *gorm.DB) *Service {
	return &Service{Store: repo.NewStore[models.ProductCategory](conn, "product category")}
}

type CreateInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

type UpdateInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=255"`
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.ProductCategory, error) {
	category := models.ProductCategory{Name: strings.TrimSpace(input.Name)}
	if err := s.Insert(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.ProductCategory, error) {
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	return s.Patch(ctx, id, fields)
}

// Products lists the live products of a category.
func (s *Service) Products(ctx context.Context, id uint) ([]models.Product, error) {
	if err := s.Exists(ctx, id); err != nil {
		return nil, err
	}
	var products []models.Product
	if err := s.DB(ctx).Where("product_category_id = ?", id).Order("id ASC").Find(&products).Error; err != nil {
		return nil, s.Translate(err, "list products of")
	}
	return products, nil
}
