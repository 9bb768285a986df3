// Package uploads serves the public images kept in the blob store.
package uploads

import (
	"context"
	"errors"

	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/storage"
)

// Service opens files by public folder and name.
type Service struct {
	store storage.BlobStore
}

func NewService(store storage.BlobStore) *Service {
	return &Service{store: store}
}

// Open returns the object; the caller closes its body.
func (s *Service) Open(ctx context.Context, folder, name string) (*storage.Object, error) {
	parsed, err := enums.ParseUploadFolder(folder)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown upload folder").
			WithDetails(map[string]any{"folder": folder})
	}
	key, err := storage.ObjectKey(parsed, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file name")
	}

	obj, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "file not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "file could not be read")
	}
	if obj.ContentType == "" {
		obj.ContentType = storage.ContentTypeFor(name)
	}
	return obj, nil
}
