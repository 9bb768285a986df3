package lockers

import (
	"context"

	"github.com/angelmondragon/lockerbox-backend/internal/grid"
	"github.com/angelmondragon/lockerbox-backend/internal/matrix"
	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

const preloadCell = "MatrixElement"

// Service manages lockers and keeps each one inside its machine's grid.
type Service struct {
	*repo.Store[models.Locker]
	machines *repo.Store[models.VendingMachine]
	cells    *matrix.Service
}

func NewService(conn *gorm.DB) *Service {
	return &Service{
		Store:    repo.NewStore[models.Locker](conn, "locker"),
		machines: repo.NewStore[models.VendingMachine](conn, "vending machine"),
		cells:    matrix.NewService(conn),
	}
}

func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[models.Locker], error) {
	page, err := s.ListWhere(ctx, params, func(db *gorm.DB) *gorm.DB { return db.Preload(preloadCell) })
	if err != nil {
		return page, err
	}
	for i := range page.Items {
		Locate(&page.Items[i])
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Locker, error) {
	locker, err := s.GetWith(ctx, id, preloadCell, "Product")
	if err != nil {
		return nil, err
	}
	Locate(locker)
	return locker, nil
}

func (s *Service) Restore(ctx context.Context, id uint) (*models.Locker, error) {
	if _, err := s.Store.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Locker, error) {
	machine, err := s.machines.Get(ctx, input.VendingMachineID)
	if err != nil {
		return nil, asReference(err, "vendingMachineId")
	}
	cell, err := s.resolveCell(ctx, input.MatrixElementID, input.MatrixElementRef)
	if err != nil {
		return nil, err
	}
	if err := checkBounds(machine, cell); err != nil {
		return nil, err
	}

	locker := models.Locker{
		ProductID:         input.ProductID,
		MatrixElementID:   cell.ID,
		VendingMachineID:  machine.ID,
		IsFull:            input.IsFull,
		LastRefill:        input.LastRefill,
		NextPlannedRefill: input.NextPlannedRefill,
	}
	if err := s.Insert(ctx, &locker); err != nil {
		return nil, cellConflict(err, cell.Ref)
	}
	return s.Get(ctx, locker.ID)
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Locker, error) {
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.ProductID != nil {
		fields["product_id"] = *input.ProductID
	}
	if input.IsFull != nil {
		fields["is_full"] = *input.IsFull
	}
	if input.LastRefill != nil {
		fields["last_refill"] = *input.LastRefill
	}
	if input.NextPlannedRefill != nil {
		fields["next_planned_refill"] = *input.NextPlannedRefill
	}

	ref := ""
	if input.MatrixElementID != nil || input.MatrixElementRef != nil {
		var cellID uint
		var cellRef string
		if input.MatrixElementID != nil {
			cellID = *input.MatrixElementID
		}
		if input.MatrixElementRef != nil {
			cellRef = *input.MatrixElementRef
		}
		cell, err := s.resolveCell(ctx, cellID, cellRef)
		if err != nil {
			return nil, err
		}
		machine, err := s.machines.Get(ctx, current.VendingMachineID)
		if err != nil {
			return nil, err
		}
		if err := checkBounds(machine, cell); err != nil {
			return nil, err
		}
		fields["matrix_element_id"] = cell.ID
		ref = cell.Ref
	}

	if _, err := s.Patch(ctx, id, fields); err != nil {
		return nil, cellConflict(err, ref)
	}
	return s.Get(ctx, id)
}

// resolveCell prefers the id; the label is looked up case-insensitively.
func (s *Service) resolveCell(ctx context.Context, id uint, ref string) (*models.MatrixElement, error) {
	var (
		cell *models.MatrixElement
		err  error
	)
	switch {
	case id != 0:
		cell, err = s.cells.Get(ctx, id)
	case ref != "":
		if _, _, perr := grid.ParseRef(ref); perr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "invalid matrix reference").
				WithDetails(map[string]string{"matrixElementRef": "must be letters followed by a row number, e.g. A1"})
		}
		cell, err = s.cells.ByRef(ctx, ref)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "matrixElementId or matrixElementRef is required")
	}
	if err != nil {
		return nil, asReference(err, "matrixElementId")
	}
	return cell, nil
}

func checkBounds(machine *models.VendingMachine, cell *models.MatrixElement) error {
	pos, err := grid.ParseCell(cell.Ref)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid matrix reference")
	}
	if !grid.IsWithinBounds(pos.Column, pos.Row, machine.MaxLineCapacity, machine.MaxRowCapacity) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cell is outside the vending machine grid").
			WithDetails(map[string]any{
				"ref":             cell.Ref,
				"lastCell":        grid.FormatRef(machine.MaxLineCapacity, machine.MaxRowCapacity),
				"maxLineCapacity": machine.MaxLineCapacity,
				"maxRowCapacity":  machine.MaxRowCapacity,
			})
	}
	return nil
}

// Locate fills the grid coordinates from the preloaded cell.
func Locate(locker *models.Locker) {
	if locker == nil || locker.MatrixElement == nil {
		return
	}
	pos, err := grid.ParseCell(locker.MatrixElement.Ref)
	if err != nil {
		return
	}
	locker.Column, locker.Row = pos.Column, pos.Row
}

// asReference reports a missing referenced row as a validation failure.
func asReference(err error, field string) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced record does not exist").
			WithDetails(map[string]string{field: "not found"})
	}
	return err
}

func cellConflict(err error, ref string) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		msg := "cell already holds a locker in this vending machine"
		if ref != "" {
			msg = "cell " + ref + " already holds a locker in this vending machine"
		}
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msg)
	}
	return err
}
