package storage

import (
	"errors"
	"testing"

	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
)

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey(enums.UploadFolderQRCodes, "abc.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "qrcodes/abc.png" {
		t.Fatalf("unexpected key %q", key)
	}

	for _, name := range []string{"", "..", "../secret", `a\b`} {
		if _, err := ObjectKey(enums.UploadFolderLogos, name); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("ObjectKey(%q) expected ErrInvalidName, got %v", name, err)
		}
	}

	if _, err := ObjectKey(enums.UploadFolder("tmp"), "a.png"); err == nil {
		t.Fatal("expected unknown folder to fail")
	}
}

func TestContentTypeFor(t *testing.T) {
	if got := ContentTypeFor("x.PNG"); got != "image/png" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := ContentTypeFor("x.bin"); got != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
}
