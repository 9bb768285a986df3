package cities

import (
	"context"
	"strings"

	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Service manages city reference data.
type Service struct {
	*repo.Store[models.City]
}

func NewService(conn *gorm.DB) *Service {
	return &Service{Store: repo.NewStore[models.City](conn, "city")}
}

type CreateInput struct {
	Name       string `json:"name" validate:"required,max=255"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=16"`
	InseeCode  string `json:"inseeCode" validate:"omitempty,max=16"`
}

type UpdateInput struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	PostalCode *string `json:"postalCode" validate:"omitempty,max=16"`
	InseeCode  *string `json:"inseeCode" validate:"omitempty,max=16"`
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.City, error) {
	city := models.City{
		Name:       strings.TrimSpace(input.Name),
		PostalCode: strings.TrimSpace(input.PostalCode),
		InseeCode:  strings.TrimSpace(input.InseeCode),
	}
	if err := s.Insert(ctx, &city); err != nil {
		return nil, err
	}
	return &city, nil
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.City, error) {
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.PostalCode != nil {
		fields["postal_code"] = strings.TrimSpace(*input.PostalCode)
	}
	if input.InseeCode != nil {
		fields["insee_code"] = strings.TrimSpace(*input.InseeCode)
	}
	return s.Patch(ctx, id, fields)
}
