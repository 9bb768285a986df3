package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/storage"
)

type stubOpener struct {
	files map[string]string
}

func (s stubOpener) Open(ctx context.Context, folder, name string) (*storage.Object, error) {
	if folder != "qrcodes" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown upload folder")
	}
	body, ok := s.files[name]
	if !ok {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, errors.New("missing"), "file not found")
	}
	return &storage.Object{
		Body:        io.NopCloser(strings.NewReader(body)),
		ContentType: "image/png",
		Size:        int64(len(body)),
	}, nil
}

func TestServeUpload(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/upload/{folder}/{name}", ServeUpload(stubOpener{files: map[string]string{"m1.png": "png-bytes"}}, nil))

	rec := serve(r, http.MethodGet, "/upload/qrcodes/m1.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = serve(r, http.MethodGet, "/upload/qrcodes/none.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, http.MethodGet, "/upload/secrets/m1.png", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
