package main

import (
	"context" // context package is needed for Redis operations

	"tokenbank/internal/api"    // HTTP handlers and router
	"tokenbank/internal/cache"  // Optional Redis read cache
	"tokenbank/internal/config" // Environment configuration
	"tokenbank/internal/db"     // Database-backed store connection
	"tokenbank/internal/ledger" // Ledger core
	"tokenbank/internal/store"  // Persistence backends

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Open the persistence backend selected by STORE_DRIVER
	var (
		st  ledger.Store
		err error
	)
	switch cfg.StoreDriver {
	case config.DriverFile:
		st, err = store.OpenFile(cfg.DataDir)
		if err != nil {
			logrus.Fatalf("failed to open file store: %v", err)
		}
	case config.DriverSQLite, config.DriverMySQL:
		gdb, dbErr := db.Open(cfg)
		if dbErr != nil {
			logrus.Fatalf("failed to connect to DB: %v", dbErr)
		}
		// AutoMigrate is idempotent; cmd/migrate covers managed setups.
		if err := db.Migrate(gdb); err != nil {
			logrus.Fatalf("failed to migrate DB: %v", err)
		}
		st = store.NewGorm(gdb)
	default:
		logrus.Fatalf("unknown store driver %q", cfg.StoreDriver)
	}

	// Rebuild the ledger from persisted state
	l, err := ledger.New(st)
	if err != nil {
		logrus.Fatalf("failed to load ledger: %v", err)
	}

	// Setup the optional Redis read cache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}
	ca := cache.New(rdb)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(l, ca)

	logrus.WithFields(logrus.Fields{
		"port":   cfg.AppPort,
		"store":  cfg.StoreDriver,
		"cached": ca.Enabled(),
	}).Info("Server starting")
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
