package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Record store backends. Sheets is the default; postgres serves
// self-hosted deployments without Google credentials.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

type Config struct {
	TelegramToken   string
	GoogleCredsJSON string
	SpreadsheetID   string
	StoreBackend    string
	DBDSN           string
	Environment     string
}

// Load reads configuration from .env (if present) and the environment.
// Only the Telegram token is unconditionally required: missing Google
// credentials put the bot in degraded mode instead of failing startup,
// handled downstream.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		GoogleCredsJSON: os.Getenv("GOOGLE_CREDS_JSON"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		StoreBackend:    os.Getenv("STORE_BACKEND"),
		DBDSN:           os.Getenv("DB_DSN"),
		Environment:     os.Getenv("ENV"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendSheets
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	switch cfg.StoreBackend {
	case BackendSheets:
	case BackendPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for the postgres backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}
