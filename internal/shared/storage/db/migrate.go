package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"analysis-backend/internal/shared/telemetry"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema files.
func Migrations() fs.FS {
	return migrationFiles
}

func withGoose(database *sql.DB, run func() error) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return run()
}

// RunMigrations brings the schema up to date. A nil database is a no-op,
// which is what the in-memory dev mode relies on.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	return withGoose(database, func() error {
		if err := goose.UpContext(ctx, database, migrationsDir); err != nil {
			return err
		}
		return logVersion(ctx, database)
	})
}

// RollbackLast reverts the most recent migration.
func RollbackLast(ctx context.Context, database *sql.DB) error {
	return withGoose(database, func() error {
		if err := goose.DownContext(ctx, database, migrationsDir); err != nil {
			return err
		}
		return logVersion(ctx, database)
	})
}

// MigrationStatus prints applied and pending migrations.
func MigrationStatus(ctx context.Context, database *sql.DB) error {
	return withGoose(database, func() error {
		return goose.StatusContext(ctx, database, migrationsDir)
	})
}

func logVersion(ctx context.Context, database *sql.DB) error {
	version, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	telemetry.Info("db.schema_version", map[string]any{"version": version})
	return nil
}
