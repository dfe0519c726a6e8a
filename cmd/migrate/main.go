package main

import (
	"tokenbank/internal/config" // Environment configuration
	"tokenbank/internal/db"     // Database connection and migration

	"github.com/sirupsen/logrus"
)

// Main entry point for migration. Only the database-backed store drivers
// have a schema; the file store needs no migration.
func main() {
	cfg := config.LoadConfig() // Load configuration

	if cfg.StoreDriver == config.DriverFile {
		logrus.Info("File store selected, nothing to migrate.")
		return
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed.")
}
