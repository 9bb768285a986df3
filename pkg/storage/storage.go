// Package storage defines the blob store QR codes and uploaded images live in.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// ErrInvalidName is returned for object names that could escape their folder.
var ErrInvalidName = errors.New("invalid object name")

// Object is an open blob; callers close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// BlobStore is implemented by the local disk and GCS backends.
type BlobStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// ObjectKey joins a public folder and a file name into a store key.
func ObjectKey(folder enums.UploadFolder, name string) (string, error) {
	if !folder.IsValid() {
		return "", fmt.Errorf("unknown folder %q", folder)
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return path.Join(string(folder), name), nil
}

// ContentTypeFor guesses an image content type from the file extension.
func ContentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
