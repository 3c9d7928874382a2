package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_OrdersByVersion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, sql string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("0002_directory.sql", "CREATE TABLE specialist();")
	write("0001_patients.sql", "CREATE TABLE patient();")
	write("README.md", "not a migration")

	m := NewMigrator(nil, dir)
	migrations, err := m.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "patients" {
		t.Errorf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 {
		t.Errorf("expected version 2 second, got %d", migrations[1].Version)
	}
}

func TestLoad_RejectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0001_a.sql", "0001_b.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := NewMigrator(nil, dir).Load(); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestParseMigrationName(t *testing.T) {
	version, name, err := parseMigrationName("0012_add_subscription.sql")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 12 || name != "add_subscription" {
		t.Errorf("got %d %q", version, name)
	}
	if _, _, err := parseMigrationName("nope.sql"); err == nil {
		t.Error("expected error for missing version prefix")
	}
}
