package config

import (
	"os"
	"strconv"
	"time"

	"healthmini/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Gemini    GeminiConfig
	Server    ServerConfig
	Auth      AuthConfig
	Retention RetentionConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// GeminiConfig holds completion gateway settings
type GeminiConfig struct {
	APIKey  string
	APIURL  string
	Timeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// AuthConfig holds token issuance settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// RetentionConfig holds the session sweep settings
type RetentionConfig struct {
	// SweepInterval is the spacing between retention runs. The first run
	// fires at the next local midnight.
	SweepInterval time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			APIURL:  getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"),
			Timeout: getEnvDuration("GEMINI_TIMEOUT_MS", 60*time.Second),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getEnvDuration("JWT_TTL_MS", 24*time.Hour),
		},
		Retention: RetentionConfig{
			SweepInterval: 24 * time.Hour,
		},
	}

	if cfg.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	if cfg.Gemini.APIKey == "" {
		return nil, errors.ConfigInvalid("GEMINI_API_KEY is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.ConfigInvalid("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return fallback
}
