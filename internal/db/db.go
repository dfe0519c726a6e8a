package db

import (
	"fmt"

	"gorm.io/driver/mysql"  // MySQL driver for GORM
	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM library

	"tokenbank/internal/config"
	"tokenbank/internal/domain"
)

// Open connects to the database selected by the store driver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	case config.DriverMySQL:
		dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("store driver %q is not database-backed", cfg.StoreDriver)
	}
}

// Migrate creates or updates the ledger tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&domain.User{}, &domain.Transaction{})
}
