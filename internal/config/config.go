// README: process configuration loaded from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres  = "postgres"
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
)

type Config struct {
	HTTPAddr string
	Storage  string

	DatabaseDSN string

	FirebaseProjectID   string
	FirebaseCredentials string

	RedisAddr string

	// StaffToken guards the staff API surface. Empty disables the staff
	// routes entirely.
	StaffToken string

	LogLevel string
}

// Load reads configuration from the environment, after sourcing an optional
// .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:            envOrDefault("CANTEEN_HTTP_ADDR", ":8080"),
		Storage:             envOrDefault("CANTEEN_STORAGE", StorageMemory),
		DatabaseDSN:         os.Getenv("CANTEEN_DB_DSN"),
		FirebaseProjectID:   os.Getenv("CANTEEN_FIREBASE_PROJECT_ID"),
		FirebaseCredentials: os.Getenv("CANTEEN_FIREBASE_CREDENTIALS"),
		RedisAddr:           os.Getenv("CANTEEN_REDIS_ADDR"),
		StaffToken:          os.Getenv("CANTEEN_STAFF_TOKEN"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
	}

	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("CANTEEN_DB_DSN is required when CANTEEN_STORAGE=postgres")
		}
	case StorageFirestore:
		if cfg.FirebaseProjectID == "" {
			return nil, fmt.Errorf("CANTEEN_FIREBASE_PROJECT_ID is required when CANTEEN_STORAGE=firestore")
		}
	default:
		return nil, fmt.Errorf("unknown CANTEEN_STORAGE %q", cfg.Storage)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
