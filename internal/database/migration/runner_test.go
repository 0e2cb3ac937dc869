package migration

import (
	"strings"
	"testing"
	"testing/fstest"

	"hirelane/migrations"
)

func TestLoadMigrations_OrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"V10__later.sql":   {Data: []byte("SELECT 10;")},
		"V2__second.sql":   {Data: []byte("SELECT 2;")},
		"V1__first.sql":    {Data: []byte("  SELECT 1;  ")},
		"README.md":        {Data: []byte("ignored")},
		"v3__lower.sql":    {Data: []byte("ignored")},
		"V4__nested/x.sql": {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	for i, want := range []int64{1, 2, 10} {
		if migs[i].Version != want {
			t.Fatalf("position %d: expected version %d, got %d", i, want, migs[i].Version)
		}
	}
	if migs[0].SQL != "SELECT 1;" || migs[0].Name != "first" {
		t.Fatalf("unexpected first migration: %+v", migs[0])
	}
	if migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("expected distinct checksums")
	}
}

func TestLoadMigrations_RejectsDuplicatesAndEmpty(t *testing.T) {
	dup := fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := loadMigrations(dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	empty := fstest.MapFS{"V1__a.sql": {Data: []byte("   ")}}
	if _, err := loadMigrations(empty); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migs, err := loadMigrations(migrations.FS)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) < 3 {
		t.Fatalf("expected embedded schema, got %d files", len(migs))
	}
	if !strings.Contains(migs[len(migs)-1].SQL, "application_status_history") {
		t.Fatalf("expected history table in latest migration")
	}
}

func TestRunner_RequiresSource(t *testing.T) {
	if _, err := (Runner{}).source(); err == nil {
		t.Fatalf("expected error without FS or Dir")
	}
}
