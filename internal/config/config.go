package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverFile   = "file"   // users.json + transactions.log in DATA_DIR (default)
	DriverSQLite = "sqlite" // Embedded sqlite database
	DriverMySQL  = "mysql"  // Networked mysql database
)

// Config holds the application configuration
type Config struct {
	AppPort     string // HTTP port, PORT env, default 5000
	StoreDriver string // Persistence backend: file, sqlite or mysql
	DataDir     string // Data directory for the file store
	SQLitePath  string // Database file for the sqlite store
	DBUser      string // Database user (mysql)
	DBPassword  string // Database password (mysql)
	DBHost      string // Database host (mysql)
	DBPort      string // Database port (mysql)
	DBName      string // Database name (mysql)
	RedisAddr   string // Redis server address; empty disables the read cache
	RedisPass   string // Redis password
	RedisDB     int    // Redis database number
	IsProd      bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:     getEnv("PORT", "5000"),
		StoreDriver: getEnv("STORE_DRIVER", DriverFile),
		DataDir:     getEnv("DATA_DIR", "data"),
		SQLitePath:  getEnv("SQLITE_PATH", "data/ledger.db"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBName:      os.Getenv("DB_NAME"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPass:   os.Getenv("REDIS_PASS"),
		RedisDB:     redisDB,
		IsProd:      os.Getenv("IS_PROD") == "true",
	}
}

// getEnv returns the value of key or a default when unset.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
