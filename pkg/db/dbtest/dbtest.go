// Package dbtest opens isolated in-memory SQLite databases for package tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/angelmondragon/lockerbox-backend/pkg/db"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Open returns a fresh database with every model migrated and foreign keys on.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, seq.Add(1))

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// Client wraps Open in the shared db client.
func Client(t testing.TB) *db.Client {
	t.Helper()
	return db.NewFromGorm(Open(t))
}

// SeedStatuses inserts the five order statuses with their conventional ids.
func SeedStatuses(t testing.TB, conn *gorm.DB) map[string]models.Status {
	t.Helper()

	out := make(map[string]models.Status, len(enums.SeededOrderStatuses))
	for i, s := range enums.SeededOrderStatuses {
		name := s.String()
		status := models.Status{Base: models.Base{ID: uint(i + 1)}, Name: name, Message: name}
		if err := conn.Create(&status).Error; err != nil {
			t.Fatalf("failed to seed status %s: %v", name, err)
		}
		out[name] = status
	}
	return out
}
