package statuses

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service manages order statuses. Names are normalized to lowercase so the
// order engine can classify by name.
type Service struct {
	*repo.Store[models.Status]
}

func NewService(conn *gorm.DB) *Service {
	return &Service{Store: repo.NewStore[models.Status](conn, "status")}
}

type CreateInput struct {
	Name    string `json:"name" validate:"required,max=64"`
	Message string `json:"message" validate:"omitempty,max=255"`
}

type UpdateInput struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=64"`
	Message *string `json:"message" validate:"omitempty,max=255"`
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Status, error) {
	status := models.Status{
		Name:    normalizeName(input.Name),
		Message: strings.TrimSpace(input.Message),
	}
	if err := s.Insert(ctx, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Status, error) {
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = normalizeName(*input.Name)
	}
	if input.Message != nil {
		fields["message"] = strings.TrimSpace(*input.Message)
	}
	return s.Patch(ctx, id, fields)
}

// ByName returns the live status with the given name.
func (s *Service) ByName(ctx context.Context, name enums.OrderStatus) (*models.Status, error) {
	var status models.Status
	if err := s.DB(ctx).Where("name = ?", string(name)).First(&status).Error; err != nil {
		err = s.Translate(err, "get")
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("status %q not found", name))
		}
		return nil, err
	}
	return &status, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
