package machines

import (
	"context"
	"strings"

	"github.com/angelmondragon/lockerbox-backend/internal/grid"
	"github.com/angelmondragon/lockerbox-backend/internal/qrcodes"
	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"github.com/angelmondragon/lockerbox-backend/pkg/maps"
	"github.com/angelmondragon/lockerbox-backend/pkg/outbox"
	"github.com/angelmondragon/lockerbox-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Geocoder turns a street address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*maps.Place, error)
}

type ServiceParams struct {
	DB       *gorm.DB
	QRCodes  qrcodes.Publisher
	Geocoder Geocoder
	Outbox   outbox.Emitter
	Logger   *logger.Logger
}

// Service manages vending machines and their public QR identity.
type Service struct {
	*repo.Store[models.VendingMachine]
	qr       qrcodes.Publisher
	geocoder Geocoder
	outbox   outbox.Emitter
	logg     *logger.Logger
	newUUID  func() uuid.UUID
}

func NewService(params ServiceParams) *Service {
	return &Service{
		Store:    repo.NewStore[models.VendingMachine](params.DB, "vending machine"),
		qr:       params.QRCodes,
		geocoder: params.Geocoder,
		outbox:   params.Outbox,
		logg:     params.Logger,
		newUUID:  uuid.New,
	}
}

// Create persists the machine and publishes its QR code in one transaction;
// a QR or outbox failure leaves no machine behind.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.VendingMachine, error) {
	machine := models.VendingMachine{
		UUID:            s.newUUID(),
		Ref:             strings.TrimSpace(input.Ref),
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Street:          strings.TrimSpace(input.Street),
		MaxLineCapacity: input.MaxLineCapacity,
		MaxRowCapacity:  input.MaxRowCapacity,
		CityID:          input.CityID,
	}
	if machine.Ref == "" {
		machine.Ref = models.DefaultMachineRef
	}
	if machine.MaxLineCapacity == 0 {
		machine.MaxLineCapacity = models.DefaultMaxLineCapacity
	}
	if machine.MaxRowCapacity == 0 {
		machine.MaxRowCapacity = models.DefaultMaxRowCapacity
	}
	s.locate(ctx, &machine)

	err := s.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.WithTx(tx).Insert(ctx, &machine); err != nil {
			return err
		}
		key, err := s.qr.Publish(ctx, machine.UUID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "qr code could not be stored")
		}
		if s.outbox == nil {
			return nil
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:   enums.EventVendingMachineCreated,
			AggregateID: machine.ID,
			Data: payloads.VendingMachineCreatedEvent{
				VendingMachineID: machine.ID,
				UUID:             machine.UUID.String(),
				CityID:           machine.CityID,
				QRCodeKey:        key,
			},
		})
	})
	if err != nil {
		return nil, repo.TranslateError(err, s.Label(), "create")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithMachineID(ctx, machine.ID), "vending machine created")
	}
	return &machine, nil
}

// locate fills missing coordinates from the street when a geocoder is wired.
func (s *Service) locate(ctx context.Context, machine *models.VendingMachine) {
	if s.geocoder == nil || machine.Street == "" || (machine.Latitude != nil && machine.Longitude != nil) {
		return
	}
	place, err := s.geocoder.Geocode(ctx, machine.Street)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "vending machine street could not be geocoded")
		}
		return
	}
	machine.Latitude = &place.Latitude
	machine.Longitude = &place.Longitude
}

// Update rejects grid shrinks that would strand an existing locker.
func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.VendingMachine, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.CityID != nil {
		fields["city_id"] = *input.CityID
	}
	if input.Ref != nil {
		ref := strings.TrimSpace(*input.Ref)
		if ref == "" {
			ref = models.DefaultMachineRef
		}
		fields["ref"] = ref
	}
	if input.Latitude != nil {
		fields["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		fields["longitude"] = *input.Longitude
	}
	if input.Street != nil {
		fields["street"] = strings.TrimSpace(*input.Street)
	}

	lines, rows := current.MaxLineCapacity, current.MaxRowCapacity
	if input.MaxLineCapacity != nil {
		lines = *input.MaxLineCapacity
		fields["max_line_capacity"] = lines
	}
	if input.MaxRowCapacity != nil {
		rows = *input.MaxRowCapacity
		fields["max_row_capacity"] = rows
	}
	if lines < current.MaxLineCapacity || rows < current.MaxRowCapacity {
		if err := s.checkShrink(ctx, id, lines, rows); err != nil {
			return nil, err
		}
	}
	return s.Patch(ctx, id, fields)
}

func (s *Service) checkShrink(ctx context.Context, id uint, lines, rows int) error {
	lockers, err := s.ListLockers(ctx, id)
	if err != nil {
		return err
	}
	var stranded []string
	for _, locker := range lockers {
		if locker.MatrixElement == nil {
			continue
		}
		column, row, err := grid.ParseRef(locker.MatrixElement.Ref)
		if err != nil || !grid.IsWithinBounds(column, row, lines, rows) {
			stranded = append(stranded, locker.MatrixElement.Ref)
		}
	}
	if len(stranded) > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "grid would no longer contain existing lockers").
			WithDetails(map[string]any{"cells": stranded})
	}
	return nil
}

// GetByUUID is the public lookup used by scanned QR codes.
func (s *Service) GetByUUID(ctx context.Context, raw string) (*models.VendingMachine, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vending machine uuid")
	}
	var machine models.VendingMachine
	if err := s.DB(ctx).Where("uuid = ?", id).First(&machine).Error; err != nil {
		return nil, s.Translate(err, "get")
	}
	return &machine, nil
}

// ListLockers returns the machine's live lockers with product and cell.
func (s *Service) ListLockers(ctx context.Context, id uint) ([]models.Locker, error) {
	if err := s.Exists(ctx, id); err != nil {
		return nil, err
	}
	var lockers []models.Locker
	err := s.DB(ctx).
		Preload("Product").
		Preload("MatrixElement").
		Where("vending_machine_id = ?", id).
		Order("id ASC").
		Find(&lockers).Error
	if err != nil {
		return nil, s.Translate(err, "list lockers of")
	}
	return lockers, nil
}
