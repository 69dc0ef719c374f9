// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Database. DatabaseURL is the read-side (anon) connection; the
	// service-role connection is used only for result writes and is
	// built from ServiceDatabaseURL when set, falling back to
	// DatabaseURL for single-role deployments.
	DatabaseURL        string
	ServiceDatabaseURL string

	// YouTube Data API
	YouTubeAPIKey string
	MaxPages      int // pagination cap per keyword

	// PreviewKeyword is the default term for the non-persisting preview
	// endpoint when no query is supplied.
	PreviewKeyword string

	// RunToken protects the trigger and admin routes. Empty disables the
	// check (development only).
	RunToken string

	// SMTP alerting (optional; disabled when SMTPHost is empty)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPTLS      string // "none", "tls", or "starttls"
	AlertEmail   string
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file is honored when present. Missing required secrets
// fail here rather than surfacing later as opaque API errors.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                getEnv("ENV", "development"),
		ServerAddr:         getEnv("SERVER_ADDR", ":3000"),
		DatabaseURL:        getEnv("DATABASE_URL", "postgres://localhost:5432/tubesearch?sslmode=disable"),
		ServiceDatabaseURL: getEnv("SERVICE_DATABASE_URL", ""),
		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
		MaxPages:           getEnvInt("SEARCH_MAX_PAGES", 0),
		PreviewKeyword:     getEnv("PREVIEW_KEYWORD", "golang"),
		RunToken:           getEnv("RUN_TOKEN", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		SMTPTLS:            getEnv("SMTP_TLS", "starttls"),
		AlertEmail:         getEnv("ALERT_EMAIL", ""),
	}

	if cfg.ServiceDatabaseURL == "" {
		cfg.ServiceDatabaseURL = cfg.DatabaseURL
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("YouTube API key is required (set YOUTUBE_API_KEY)")
	}
	if c.RunToken == "" && !c.IsDev() {
		return fmt.Errorf("RUN_TOKEN is required outside development")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsEmailEnabled returns true if SMTP alerting is configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != "" && c.AlertEmail != ""
}
