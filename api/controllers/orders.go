package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/lockerbox-backend/api/responses"
	"github.com/angelmondragon/lockerbox-backend/api/validators"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
)

// OrderReader covers the order reads beyond the standard CRUD routes.
type OrderReader interface {
	Products(ctx context.Context, orderID uint) ([]models.Product, error)
	Fulfillment(ctx context.Context, orderID uint) ([]models.Locker, error)
	ForUser(ctx context.Context, userID uint) ([]models.Order, error)
	Active(ctx context.Context, userID uint) ([]models.Order, error)
	Archive(ctx context.Context, userID uint) ([]models.Order, error)
}

// OrderProducts lists the products of an order, one entry per unit.
func OrderProducts(svc OrderReader, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, svc == nil, "order", func(ctx context.Context, id uint) (any, error) {
		return svc.Products(ctx, id)
	})
}

// OrderLockers lists the lockers that can serve an order at its machine.
func OrderLockers(svc OrderReader, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, svc == nil, "order", func(ctx context.Context, id uint) (any, error) {
		return svc.Fulfillment(ctx, id)
	})
}

func UserOrders(svc OrderReader, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, svc == nil, "order", func(ctx context.Context, id uint) (any, error) {
		return svc.ForUser(ctx, id)
	})
}

func UserActiveOrders(svc OrderReader, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, svc == nil, "order", func(ctx context.Context, id uint) (any, error) {
		return svc.Active(ctx, id)
	})
}

func UserArchivedOrders(svc OrderReader, logg *logger.Logger) http.HandlerFunc {
	return byID(logg, svc == nil, "order", func(ctx context.Context, id uint) (any, error) {
		return svc.Archive(ctx, id)
	})
}

// byID parses {id} and writes whatever fetch returns.
func byID(logg *logger.Logger, missing bool, name string, fetch func(context.Context, uint) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if missing {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		data, err := fetch(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, data)
	}
}
