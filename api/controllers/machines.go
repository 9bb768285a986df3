package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/lockerbox-backend/api/responses"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
)

type MachineReader interface {
	GetByUUID(ctx context.Context, raw string) (*models.VendingMachine, error)
	ListLockers(ctx context.Context, id uint) ([]models.Locker, error)
}

type CategoryReader interface {
	Products(ctx context.Context, id uint) ([]models.Product, error)
}

// MachineByUUID is the public lookup used by the scanned QR code.
func MachineByUUID(svc MachineReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vending machine service unavailable"))
			return
		}
		machine, err := svc.GetByUUID(r.Context(), chi.URLParam(r, "uuid"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, machine)
	}
}

func MachineLockers(svc MachineReader, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, svc == nil, "vending machine", func(ctx context.Context, id uint) (any, error) {
		return svc.ListLockers(ctx, id)
	})
}

func CategoryProducts(svc CategoryReader, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, svc == nil, "product category", func(ctx context.Context, id uint) (any, error) {
		return svc.Products(ctx, id)
	})
}
