package db

import (
	"context"
	"os"
	"testing"
	"testing/fstest"
	"time"
)

func TestMigrationFilesSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql":   {Data: []byte("SELECT 2")},
		"0001_a.sql":   {Data: []byte("SELECT 1")},
		"README.md":    {Data: []byte("notes")},
		"old/0000.sql": {Data: []byte("SELECT 0")},
	}
	files, err := migrationFiles(fsys)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(files) != 2 || files[0] != "0001_a.sql" || files[1] != "0002_b.sql" {
		t.Fatalf("unexpected files %v", files)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := migrationFiles(Migrations())
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(files) == 0 || files[0] != "0001_registros.sql" {
		t.Fatalf("expected registros migration first, got %v", files)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, pool, Migrations()); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = '0001_registros'").Scan(&count); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected migration recorded once, got %d", count)
	}
}
