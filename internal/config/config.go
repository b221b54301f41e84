package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Ingestion trigger modes. Mock completes the ingestion synchronously the
// way the stub pipeline does; async creates a PENDING record and leaves
// completion to the webhook.
const (
	IngestionModeMock  = "mock"
	IngestionModeAsync = "async"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT: access and refresh tokens are signed with separate secrets and
	// expire independently.
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Ingestion
	WebhookSecret string
	IngestionMode string

	// File storage
	UploadPath string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// Best-effort .env load for local development.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "docuvault"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AccessTokenSecret:  getEnv("AT_SECRET", ""),
		RefreshTokenSecret: getEnv("RT_SECRET", ""),
		AccessTokenExpiry:  parseDuration(getEnv("AT_EXPIRY", "168h")),
		RefreshTokenExpiry: parseDuration(getEnv("RT_EXPIRY", "168h")),

		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		IngestionMode: normalizeIngestionMode(getEnv("INGESTION_MODE", IngestionModeMock)),

		UploadPath: getEnv("UPLOAD_PATH", "./uploads"),

		Port:        getEnv("PORT", "3000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 168 * time.Hour
	}
	return d
}

func normalizeIngestionMode(s string) string {
	if s == IngestionModeAsync {
		return IngestionModeAsync
	}
	return IngestionModeMock
}
