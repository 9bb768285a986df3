package producers

import (
	"context"
	"strings"

	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"gorm.io/gorm"
)

const joinTable = "producer_categories"

// Service manages producers and their category links.
type Service struct {
	*repo.Store[models.Producer]
}

func NewService(conn *gorm.DB) *Service {
	return &Service{Store: repo.NewStore[models.Producer](conn, "producer")}
}

type CreateInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	Presentation string `json:"presentation"`
	Street       string `json:"street" validate:"omitempty,max=255"`
	Verified     bool   `json:"verified"`
	CityID       uint   `json:"cityId" validate:"required"`
	CategoryIDs  []uint `json:"categoryIds" validate:"omitempty,dive,required"`
}

// UpdateInput replaces the category links when CategoryIDs is present.
type UpdateInput struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	Presentation *string `json:"presentation"`
	Street       *string `json:"street" validate:"omitempty,max=255"`
	Verified     *bool   `json:"verified"`
	CityID       *uint   `json:"cityId" validate:"omitempty,min=1"`
	CategoryIDs  *[]uint `json:"categoryIds" validate:"omitempty,dive,required"`
}

// Get loads a producer with its city and categories.
func (s *Service) Get(ctx context.Context, id uint) (*models.Producer, error) {
	return s.GetWith(ctx, id, "City", "Categories")
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Producer, error) {
	producer := models.Producer{
		Name:         strings.TrimSpace(input.Name),
		Presentation: input.Presentation,
		Street:       strings.TrimSpace(input.Street),
		Verified:     input.Verified,
		CityID:       input.CityID,
	}

	err := s.DB(ctx).Transaction(func(tx *gorm.DB) error {
		store := s.WithTx(tx)
		if err := store.Insert(ctx, &producer); err != nil {
			return err
		}
		return replaceCategories(ctx, tx, producer.ID, input.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, producer.ID)
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Producer, error) {
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Presentation != nil {
		fields["presentation"] = *input.Presentation
	}
	if input.Street != nil {
		fields["street"] = strings.TrimSpace(*input.Street)
	}
	if input.Verified != nil {
		fields["verified"] = *input.Verified
	}
	if input.CityID != nil {
		fields["city_id"] = *input.CityID
	}

	err := s.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.WithTx(tx).Patch(ctx, id, fields); err != nil {
			return err
		}
		if input.CategoryIDs == nil {
			return nil
		}
		return replaceCategories(ctx, tx, id, *input.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Purge drops the category links before removing the producer.
func (s *Service) Purge(ctx context.Context, id uint) error {
	return s.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+joinTable+" WHERE producer_id = ?", id).Error; err != nil {
			return s.Translate(err, "purge")
		}
		return s.WithTx(tx).Purge(ctx, id)
	})
}

func replaceCategories(ctx context.Context, tx *gorm.DB, producerID uint, categoryIDs []uint) error {
	ids := dedupe(categoryIDs)
	if len(ids) > 0 {
		var found int64
		if err := tx.WithContext(ctx).Model(&models.ProductCategory{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
			return repo.TranslateError(err, "product category", "lookup")
		}
		if int(found) != len(ids) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown product category").
				WithDetails(map[string]any{"categoryIds": ids})
		}
	}

	if err := tx.WithContext(ctx).Exec("DELETE FROM "+joinTable+" WHERE producer_id = ?", producerID).Error; err != nil {
		return repo.TranslateError(err, "producer", "update")
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]any{"producer_id": producerID, "product_category_id": id})
	}
	if err := tx.WithContext(ctx).Table(joinTable).Create(rows).Error; err != nil {
		return repo.TranslateError(err, "producer", "update")
	}
	return nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
