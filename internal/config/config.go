// Package config loads server configuration from the environment,
// optionally seeded from a .env file in the working directory.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/dmaloney/flatnote/internal/backup"
	"github.com/joho/godotenv"
)

const (
	// StoreJSONFile persists collections as flat JSON array files.
	StoreJSONFile = "jsonfile"
	// StoreSQLite persists collections in a SQLite database.
	StoreSQLite = "sqlite"
)

type Config struct {
	Port      string
	JWTSecret string
	LogLevel  string

	// Store selects the persistence backend: "jsonfile" (default) or
	// "sqlite".
	Store   string
	DataDir string

	// Backup settings; the manager stays disabled unless the S3 fields
	// are set.
	S3             backup.S3Config
	BackupInterval time.Duration
}

// Load reads configuration from the environment. FLATNOTE_JWT_SECRET is
// the only required value: tokens signed with a guessable default would
// defeat authentication entirely.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment
	// directly.
	godotenv.Load()

	cfg := &Config{
		Port:      getenv("FLATNOTE_PORT", "8080"),
		JWTSecret: os.Getenv("FLATNOTE_JWT_SECRET"),
		LogLevel:  getenv("FLATNOTE_LOG_LEVEL", "info"),
		Store:     getenv("FLATNOTE_STORE", StoreJSONFile),
		DataDir:   getenv("FLATNOTE_DATA_DIR", "data"),
		S3: backup.S3Config{
			Endpoint:  os.Getenv("FLATNOTE_S3_ENDPOINT"),
			Bucket:    os.Getenv("FLATNOTE_S3_BUCKET"),
			Region:    getenv("FLATNOTE_S3_REGION", "us-east-1"),
			AccessKey: os.Getenv("FLATNOTE_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("FLATNOTE_S3_SECRET_KEY"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("FLATNOTE_JWT_SECRET is required")
	}
	if cfg.Store != StoreJSONFile && cfg.Store != StoreSQLite {
		return nil, errors.New("FLATNOTE_STORE must be jsonfile or sqlite")
	}

	if v := os.Getenv("FLATNOTE_BACKUP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.New("FLATNOTE_BACKUP_INTERVAL must be a duration like 1h")
		}
		cfg.BackupInterval = d
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
