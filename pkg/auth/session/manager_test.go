package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) GetDel(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	delete(m.data, key)
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

func newTestManager() (*Manager, *mockStore) {
	store := newMockStore()
	return &Manager{store: store, ttl: time.Hour}, store
}

func TestManagerGenerateStoresDigest(t *testing.T) {
	manager, store := newTestManager()

	token, err := manager.Generate(context.Background(), "access-123", 9)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	stored := store.data["sess:access-123"]
	if stored != "9:"+tokenDigest(token) {
		t.Fatalf("expected digest bound to user 9, got %q", stored)
	}
	if stored == "9:"+token {
		t.Fatal("refresh token stored in clear")
	}
}

func TestManagerRotateIssuesNewSession(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()

	token, err := manager.Generate(ctx, "access-123", 9)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	newAccessID, newToken, err := manager.Rotate(ctx, "access-123", 9, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, exists := store.data["sess:access-123"]; exists {
		t.Fatal("old session left behind")
	}
	if store.data["sess:"+newAccessID] != "9:"+tokenDigest(newToken) {
		t.Fatalf("expected new session stored, got %q", store.data["sess:"+newAccessID])
	}
	if _, _, err := manager.Rotate(ctx, "access-123", 9, token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected replay to fail, got %v", err)
	}
}

func TestManagerRotateRejectsAndConsumes(t *testing.T) {
	cases := map[string]struct {
		userID   uint
		provided func(token string) string
	}{
		"wrong token": {userID: 9, provided: func(string) string { return "wrong" }},
		"other user":  {userID: 10, provided: func(token string) string { return token }},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			manager, store := newTestManager()
			ctx := context.Background()
			token, err := manager.Generate(ctx, "access-1", 9)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if _, _, err := manager.Rotate(ctx, "access-1", tc.userID, tc.provided(token)); !errors.Is(err, ErrInvalidRefreshToken) {
				t.Fatalf("expected invalid refresh token, got %v", err)
			}
			if _, exists := store.data["sess:access-1"]; exists {
				t.Fatal("failed rotation should end the session")
			}
		})
	}
}

func TestManagerRevokeEndsSession(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	if _, err := manager.Generate(ctx, "access-1", 3); err != nil {
		t.Fatalf("generate: %v", err)
	}
	ok, err := manager.HasSession(ctx, "access-1")
	if err != nil || !ok {
		t.Fatalf("expected live session, ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(ctx, "access-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, "access-1")
	if err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}
	if _, _, err := manager.Rotate(ctx, "access-1", 3, "anything"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected rotate after revoke to fail, got %v", err)
	}
}

func TestManagerRequiresAccessID(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()
	if _, err := manager.Generate(ctx, " ", 1); err == nil {
		t.Fatal("expected generate without access id to fail")
	}
	if err := manager.Revoke(ctx, ""); err == nil {
		t.Fatal("expected revoke without access id to fail")
	}
	if _, err := manager.HasSession(ctx, ""); err == nil {
		t.Fatal("expected lookup without access id to fail")
	}
}
