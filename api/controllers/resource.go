package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/lockerbox-backend/api/responses"
	"github.com/angelmondragon/lockerbox-backend/api/validators"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"github.com/angelmondragon/lockerbox-backend/pkg/pagination"
)

// CRUDService is the surface every catalog service exposes through repo.Store.
type CRUDService[T any, C any, U any] interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[T], error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, input C) (*T, error)
	Update(ctx context.Context, id uint, input U) (*T, error)
	Trash(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) (*T, error)
	Purge(ctx context.Context, id uint) error
}

// Resource serves the seven standard routes for one entity.
type Resource[T any, C any, U any] struct {
	name string
	svc  CRUDService[T, C, U]
	logg *logger.Logger
}

func NewResource[T any, C any, U any](name string, svc CRUDService[T, C, U], logg *logger.Logger) *Resource[T, C, U] {
	return &Resource[T, C, U]{name: name, svc: svc, logg: logg}
}

// Mount registers the routes on r, which is already scoped to the resource path.
func (h *Resource[T, C, U]) Mount(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Purge)
	r.Post("/untrash/{id}", h.Restore)
	r.Delete("/trash/{id}", h.Trash)
}

func (h *Resource[T, C, U]) available(w http.ResponseWriter, r *http.Request) bool {
	if h.svc != nil {
		return true
	}
	responses.WriteError(r.Context(), h.logg, w, pkgerrors.New(pkgerrors.CodeInternal, h.name+" service unavailable"))
	return false
}

func (h *Resource[T, C, U]) List(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	params, err := validators.ParsePagination(r)
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	page, err := h.svc.List(r.Context(), params)
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	responses.WriteSuccess(w, page)
}

func (h *Resource[T, C, U]) Get(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	id, err := validators.ParseIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	entity, err := h.svc.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	responses.WriteSuccess(w, entity)
}

func (h *Resource[T, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	var body C
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	entity, err := h.svc.Create(r.Context(), body)
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	responses.WriteSuccess(w, entity)
}

func (h *Resource[T, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	id, err := validators.ParseIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	var body U
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	entity, err := h.svc.Update(r.Context(), id, body)
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	responses.WriteSuccess(w, entity)
}

func (h *Resource[T, C, U]) Trash(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, id uint) error {
		return h.svc.Trash(ctx, id)
	})
}

func (h *Resource[T, C, U]) Restore(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, id uint) error {
		_, err := h.svc.Restore(ctx, id)
		return err
	})
}

func (h *Resource[T, C, U]) Purge(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, id uint) error {
		return h.svc.Purge(ctx, id)
	})
}

func (h *Resource[T, C, U]) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, uint) error) {
	if !h.available(w, r) {
		return
	}
	id, err := validators.ParseIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	if err := op(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	responses.WriteNoContent(w)
}
