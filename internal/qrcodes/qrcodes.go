// Package qrcodes renders and stores the QR code printed on each machine.
package qrcodes

import (
	"context"
	"fmt"

	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	"github.com/angelmondragon/lockerbox-backend/pkg/storage"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultSize = 256
	contentType = "image/png"
)

// Publisher stores a PNG for a machine uuid under qrcodes/<uuid>.png.
type Publisher interface {
	Publish(ctx context.Context, machineUUID uuid.UUID) (string, error)
}

// Generator encodes the machine uuid and writes the image to the blob store.
type Generator struct {
	store storage.BlobStore
	size  int
	level qrcode.RecoveryLevel
}

func NewGenerator(store storage.BlobStore) *Generator {
	return &Generator{store: store, size: defaultSize, level: qrcode.Medium}
}

// Key returns the object key of a machine's QR code.
func Key(machineUUID uuid.UUID) string {
	key, _ := storage.ObjectKey(enums.UploadFolderQRCodes, FileName(machineUUID))
	return key
}

// FileName is the public name the upload route serves the image under.
func FileName(machineUUID uuid.UUID) string {
	return machineUUID.String() + ".png"
}

// Render returns the PNG bytes encoding content.
func (g *Generator) Render(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, g.level, g.size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}

func (g *Generator) Publish(ctx context.Context, machineUUID uuid.UUID) (string, error) {
	if machineUUID == uuid.Nil {
		return "", fmt.Errorf("machine uuid is required")
	}
	png, err := g.Render(machineUUID.String())
	if err != nil {
		return "", err
	}
	key := Key(machineUUID)
	if err := g.store.Put(ctx, key, png, contentType); err != nil {
		return "", fmt.Errorf("storing qr code: %w", err)
	}
	return key, nil
}
