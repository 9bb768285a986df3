package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/lockerbox-backend/api/responses"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"github.com/angelmondragon/lockerbox-backend/pkg/storage"
)

type UploadOpener interface {
	Open(ctx context.Context, folder, name string) (*storage.Object, error)
}

// ServeUpload streams a stored visual, logo or QR code.
func ServeUpload(svc UploadOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		obj, err := svc.Open(r.Context(), chi.URLParam(r, "folder"), chi.URLParam(r, "name"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer obj.Body.Close()

		w.Header().Set("Content-Type", obj.ContentType)
		if obj.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, obj.Body); err != nil && logg != nil {
			logg.Warn(r.Context(), "upload stream interrupted")
		}
	}
}
