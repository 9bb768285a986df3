package gcs

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/storage"
)

type fakeGCS struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeGCS(t *testing.T) (*fakeGCS, *httptest.Server) {
	t.Helper()
	fake := &fakeGCS{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/upload/storage/v1/b/qr-bucket/o":
			if r.URL.Query().Get("uploadType") != "media" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			name := r.URL.Query().Get("name")
			body, _ := io.ReadAll(r.Body)
			fake.objects[name] = body
			fake.types[name] = r.Header.Get("Content-Type")
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodGet && r.URL.Path == "/storage/v1/b/qr-bucket/o":
			_, _ = w.Write([]byte(`{"items":[]}`))
		case strings.HasPrefix(r.URL.Path, "/storage/v1/b/qr-bucket/o/"):
			name := strings.TrimPrefix(r.URL.Path, "/storage/v1/b/qr-bucket/o/")
			body, ok := fake.objects[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			if r.Method == http.MethodDelete {
				delete(fake.objects, name)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.Header().Set("Content-Type", fake.types[name])
			_, _ = w.Write(body)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return fake, srv
}

func TestClientUploadDownloadDelete(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeGCS(t)

	client, err := NewClient(ctx, config.GCSConfig{BucketName: "qr-bucket"}, config.GCPConfig{}, nil,
		WithBaseURL(srv.URL), WithStaticToken("test-token"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.Bucket() != "qr-bucket" {
		t.Fatalf("unexpected bucket %q", client.Bucket())
	}

	if err := client.Put(ctx, "qrcodes/abc.png", []byte("png"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if string(fake.objects["qrcodes/abc.png"]) != "png" {
		t.Fatalf("object not stored: %v", fake.objects)
	}

	obj, err := client.Get(ctx, "qrcodes/abc.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, _ := io.ReadAll(obj.Body)
	_ = obj.Body.Close()
	if string(body) != "png" || obj.ContentType != "image/png" {
		t.Fatalf("unexpected object %q (%s)", body, obj.ContentType)
	}

	if err := client.Delete(ctx, "qrcodes/abc.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := client.Get(ctx, "qrcodes/abc.png"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewClientFailsWhenBucketUnreachable(t *testing.T) {
	_, srv := newFakeGCS(t)

	_, err := NewClient(context.Background(), config.GCSConfig{BucketName: "qr-bucket"}, config.GCPConfig{}, nil,
		WithBaseURL(srv.URL), WithStaticToken("wrong-token"))
	if err == nil {
		t.Fatal("expected ping failure with bad token")
	}
}

func TestNewClientRequiresBucket(t *testing.T) {
	if _, err := NewClient(context.Background(), config.GCSConfig{}, config.GCPConfig{}, nil); err == nil {
		t.Fatal("expected missing bucket to fail")
	}
}

func TestTokenSourceForRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	if _, err := tokenSourceFor(ctx, config.GCPConfig{CredentialsJSON: "{not json"}); err == nil {
		t.Fatal("expected malformed inline credentials to fail")
	}
	if _, err := tokenSourceFor(ctx, config.GCPConfig{ApplicationCredentials: t.TempDir() + "/missing.json"}); err == nil {
		t.Fatal("expected missing credentials file to fail")
	}
}

func TestStaticTokenSourceSetsBearer(t *testing.T) {
	tok, err := staticTokenSource("emulator").Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	tok.SetAuthHeader(req)
	if got := req.Header.Get("Authorization"); got != "Bearer emulator" {
		t.Fatalf("unexpected auth header %q", got)
	}
}
