package db

import (
	"context"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
)

func TestRunMigrationsNilDatabase(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	sub, err := fs.Sub(Migrations(), "migrations")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	goose.SetBaseFS(sub)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("collect migrations: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	for i, m := range migrations {
		if m.Version != int64(i+1) {
			t.Fatalf("migration %d has version %d", i, m.Version)
		}
	}
}
