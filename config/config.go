package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string
	StaticDir  string

	// Shared food log and capture output
	StorePath   string
	CapturePath string

	// Scan audit archive (SQLite)
	ArchivePath string

	// Dashboard totals cache
	TotalsCacheTTL time.Duration

	// Redis configuration (chat history, rate limiting); optional
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// CORS
	AllowedOrigins []string
}

// LoadConfig creates a new Config instance from environment
// variables, with a .env file loaded first when present.
func LoadConfig() (*Config, error) {
	// A missing .env is fine; real deployments set the environment
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "5001"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		StaticDir:      getEnv("STATIC_DIR", "./static"),
		StorePath:      getEnv("SCANNED_FOODS_PATH", "scanned_foods.json"),
		CapturePath:    getEnv("CAPTURE_PATH", "captured.png"),
		ArchivePath:    getEnv("SCAN_ARCHIVE_PATH", "scan_events.db"),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:5001")},
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	ttlSeconds := getEnv("TOTALS_CACHE_TTL_SECONDS", "30")
	ttl, err := strconv.Atoi(ttlSeconds)
	if err != nil || ttl < 0 {
		return nil, fmt.Errorf("invalid TOTALS_CACHE_TTL_SECONDS %q", ttlSeconds)
	}
	cfg.TotalsCacheTTL = time.Duration(ttl) * time.Second

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return fmt.Errorf("SERVER_PORT must be numeric, got %q", cfg.ServerPort)
	}
	if cfg.StorePath == "" {
		return fmt.Errorf("SCANNED_FOODS_PATH must not be empty")
	}
	if cfg.CapturePath == "" {
		return fmt.Errorf("CAPTURE_PATH must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
