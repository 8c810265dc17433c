package main

// Run database migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate status
//   go run ./cmd/migrate down

import (
	"context"
	"log"
	"os"

	"analysis-backend/internal/shared/config"
	"analysis-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "down":
		err = db.RollbackLast(ctx, sqlDB)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB)
	default:
		log.Printf("unknown command %q (want up, down or status)", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Printf("migrate %s failed: %v", cmd, err)
		os.Exit(1)
	}
}
