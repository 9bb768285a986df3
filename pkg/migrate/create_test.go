package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Add locker grid":         "add_locker_grid",
		"  orders -> statuses  ":  "orders_statuses",
		"vending_machines__index": "vending_machines_index",
		"!!!":                     "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add locker grid", now)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Base(path) != "20260304050607_add_locker_grid.sql" {
		t.Fatalf("unexpected file name %s", filepath.Base(path))
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.HasPrefix(string(body), "-- +goose Up") || !strings.Contains(string(body), "-- +goose Down") {
		t.Fatalf("missing goose annotations:\n%s", body)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}

	if _, err := CreateSQLMigration(dir, "add locker grid", now); err == nil {
		t.Fatalf("expected duplicate version to fail")
	}
	if _, err := CreateSQLMigration(dir, "???", now); err == nil {
		t.Fatalf("expected empty slug to fail")
	}
}
