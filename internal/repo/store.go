package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/lockerbox-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Model is satisfied by every entity embedding models.Base.
type Model interface {
	GetID() uint
}

const opPurge = "purge"

// Scope narrows a query before it runs.
type Scope = func(*gorm.DB) *gorm.DB

// Store implements the soft-delete lifecycle shared by every entity:
// list, get, insert, patch, trash, restore and purge.
type Store[T Model] struct {
	Base
	label string
}

// NewStore builds a store for T; label names the entity in error messages.
func NewStore[T Model](conn *gorm.DB, label string) *Store[T] {
	return &Store[T]{Base: NewBase(conn), label: label}
}

// WithTx rebinds the store to tx.
func (s *Store[T]) WithTx(tx *gorm.DB) *Store[T] {
	return &Store[T]{Base: NewBase(tx), label: s.label}
}

func (s *Store[T]) Label() string {
	return s.label
}

// List returns live rows ordered by id, starting after the cursor.
func (s *Store[T]) List(ctx context.Context, params pagination.Params) (pagination.Page[T], error) {
	return s.ListWhere(ctx, params)
}

// ListWhere is List narrowed by scopes.
func (s *Store[T]) ListWhere(ctx context.Context, params pagination.Params, scopes ...Scope) (pagination.Page[T], error) {
	after, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[T]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := s.DB(ctx).Model(new(T)).Scopes(scopes...)
	if after > 0 {
		query = query.Where("id > ?", after)
	}

	var rows []T
	if err := query.Order("id ASC").Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error; err != nil {
		return pagination.Page[T]{}, s.Translate(err, "list")
	}
	return pagination.Build(rows, params.Limit, func(row T) uint { return row.GetID() }), nil
}

// Get loads a live row by id.
func (s *Store[T]) Get(ctx context.Context, id uint) (*T, error) {
	return s.GetWith(ctx, id)
}

// GetWith loads a live row by id with the named associations preloaded.
func (s *Store[T]) GetWith(ctx context.Context, id uint, preloads ...string) (*T, error) {
	query := s.DB(ctx)
	for _, p := range preloads {
		query = query.Preload(p)
	}

	var row T
	if err := query.First(&row, id).Error; err != nil {
		return nil, s.Translate(err, "get")
	}
	return &row, nil
}

// Exists returns NOT_FOUND when no live row carries id.
func (s *Store[T]) Exists(ctx context.Context, id uint) error {
	var count int64
	if err := s.DB(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return s.Translate(err, "lookup")
	}
	if count == 0 {
		return s.notFound()
	}
	return nil
}

func (s *Store[T]) Insert(ctx context.Context, entity *T) error {
	if err := s.DB(ctx).Create(entity).Error; err != nil {
		return s.Translate(err, "create")
	}
	return nil
}

// Patch applies column updates to a live row and returns the fresh copy.
func (s *Store[T]) Patch(ctx context.Context, id uint, fields map[string]any) (*T, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.DB(ctx).Model(new(T)).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, s.Translate(err, "update")
		}
	}
	return s.Get(ctx, id)
}

// Trash soft-deletes a live row.
func (s *Store[T]) Trash(ctx context.Context, id uint) error {
	res := s.DB(ctx).Delete(new(T), id)
	if res.Error != nil {
		return s.Translate(res.Error, "trash")
	}
	if res.RowsAffected == 0 {
		return s.notFound()
	}
	return nil
}

// Restore clears deleted_at. Restoring a live row is a no-op; a purged or
// unknown id is NOT_FOUND.
func (s *Store[T]) Restore(ctx context.Context, id uint) (*T, error) {
	res := s.DB(ctx).Unscoped().Model(new(T)).Where("id = ?", id).UpdateColumn("deleted_at", nil)
	if res.Error != nil {
		return nil, s.Translate(res.Error, "restore")
	}
	if res.RowsAffected == 0 {
		return nil, s.notFound()
	}
	return s.Get(ctx, id)
}

// Purge removes the row permanently, trashed or not.
func (s *Store[T]) Purge(ctx context.Context, id uint) error {
	res := s.DB(ctx).Unscoped().Delete(new(T), id)
	if res.Error != nil {
		return s.Translate(res.Error, opPurge)
	}
	if res.RowsAffected == 0 {
		return s.notFound()
	}
	return nil
}

// Translate maps a store failure onto the API error taxonomy.
func (s *Store[T]) Translate(err error, op string) error {
	return TranslateError(err, s.label, op)
}

func (s *Store[T]) notFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", s.label))
}

// TranslateError maps gorm and driver errors onto pkg/errors codes.
func TranslateError(err error, label, op string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", label))
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("%s already exists", label))
	case db.IsForeignKeyViolation(err) && op == opPurge:
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("%s is still referenced by other records", label))
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("%s references a record that does not exist", label))
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("%s %s failed", op, label))
	}
}
