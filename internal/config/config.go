// Package config loads process configuration from the environment,
// optionally primed from a .env file. Every value has a development
// default so the panel boots with no configuration at all; the JWT
// secret is the one value that must be overridden before exposing the
// panel anywhere.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the panel process.
type Config struct {
	ListenAddr    string        // Address the HTTP server binds to
	DatabasePath  string        // SQLite DSN; ":memory:" keeps all state in process memory
	AdminEmail    string        // The single admin login email
	AdminPassword string        // The single admin login password
	JWTSecret     string        // Secret for API token signing
	AuthFlagPath  string        // File persisting the logged-in marker across restarts
	TickPeriod    time.Duration // Period of the simulated server-load tick
	GeminiAPIKey  string        // API key for the AI insights gateway; empty disables it
	GeminiModel   string        // Generative model name
	LogLevel      string        // zap log level (debug, info, warn, error)
	LogFile       string        // Rotating log file path; empty logs to stdout only
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first if present. Returns an error if
// a value fails to parse.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		DatabasePath:  getenv("DATABASE_PATH", ":memory:"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@gmail.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "Admin123"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change"),
		AuthFlagPath:  getenv("AUTH_FLAG_PATH", ".nexus_admin_auth"),
		GeminiAPIKey:  getenv("GEMINI_API_KEY", ""),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-3-flash-preview"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFile:       getenv("LOG_FILE", ""),
	}

	tickSeconds, err := strconv.Atoi(getenv("TICK_PERIOD_SECONDS", "2"))
	if err != nil {
		return nil, errors.New("TICK_PERIOD_SECONDS must be an integer")
	}
	if tickSeconds <= 0 {
		return nil, errors.New("TICK_PERIOD_SECONDS must be positive")
	}
	cfg.TickPeriod = time.Duration(tickSeconds) * time.Second

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
