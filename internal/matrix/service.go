package matrix

import (
	"context"

	"github.com/angelmondragon/lockerbox-backend/internal/grid"
	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service manages the grid cell labels lockers are addressed by.
type Service struct {
	*repo.Store[models.MatrixElement]
}

func NewService(conn *gorm.DB) *Service {
	return &Service{Store: repo.NewStore[models.MatrixElement](conn, "matrix element")}
}

type CreateInput struct {
	Ref string `json:"ref" validate:"required,max=8"`
}

type UpdateInput struct {
	Ref *string `json:"ref" validate:"omitempty,min=2,max=8"`
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.MatrixElement, error) {
	ref, err := canonicalRef(input.Ref)
	if err != nil {
		return nil, err
	}
	element := models.MatrixElement{Ref: ref}
	if err := s.Insert(ctx, &element); err != nil {
		return nil, err
	}
	return &element, nil
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.MatrixElement, error) {
	fields := map[string]any{}
	if input.Ref != nil {
		ref, err := canonicalRef(*input.Ref)
		if err != nil {
			return nil, err
		}
		fields["ref"] = ref
	}
	return s.Patch(ctx, id, fields)
}

// ByRef finds a live element by label in any case.
func (s *Service) ByRef(ctx context.Context, ref string) (*models.MatrixElement, error) {
	var element models.MatrixElement
	if err := s.DB(ctx).Where("ref = ?", grid.Normalize(ref)).First(&element).Error; err != nil {
		return nil, s.Translate(err, "get")
	}
	return &element, nil
}

func canonicalRef(ref string) (string, error) {
	if _, _, err := grid.ParseRef(ref); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid matrix reference").
			WithDetails(map[string]string{"ref": "must be letters followed by a row number, e.g. A1"})
	}
	return grid.Normalize(ref), nil
}
