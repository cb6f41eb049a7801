// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration. Values come from an
// optional key=value config file (# comments allowed) merged with environment
// variables; a missing or unreadable file falls back to the built-in defaults
// instead of failing startup.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// DefaultFile is the config file loaded when SITEFOLIO_CONFIG is not set.
const DefaultFile = "sitefolio.conf"

// Theme holds the named color tokens exposed to rendering surfaces.
type Theme struct {
	Primary    string
	Accent     string
	Background string
}

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Backend base URL used by API clients (public + admin surfaces).
	BackendURL string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache + token store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage for entry images.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// StorageRoot is the key prefix under which entry images are stored.
	StorageRoot string

	// Auth
	TokenSecret string
	TokenTTL    string // duration string, e.g. "12h"

	Theme Theme
}

// Load reads the config file (if present) into the process environment, then
// builds a Config from environment variables with development defaults.
// Returns an error only for invalid values, never for a missing file.
func Load() (*Config, error) {
	path := envOrDefault("SITEFOLIO_CONFIG", DefaultFile)
	if err := godotenv.Load(path); err != nil {
		// Absence of the file is the documented fallback path.
		slog.Warn("config file not loaded, using defaults", "path", path, "error", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		BackendURL: envOrDefault("BACKEND_URL", "http://localhost:8080"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "sitefolio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "sitefolio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "eu-central"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "sitefolio-media"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		StorageRoot: envOrDefault("STORAGE_ROOT", "showcase"),

		TokenSecret: envOrDefault("TOKEN_SECRET", "dev-secret-change-me"),
		TokenTTL:    envOrDefault("TOKEN_TTL", "12h"),

		Theme: Theme{
			Primary:    envOrDefault("THEME_PRIMARY", "#2563eb"),
			Accent:     envOrDefault("THEME_ACCENT", "#f59e0b"),
			Background: envOrDefault("THEME_BACKGROUND", "#0f172a"),
		},
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.TokenSecret == "dev-secret-change-me" {
			return nil, fmt.Errorf("TOKEN_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasStorage reports whether object storage is configured. Without it the
// server runs with image uploads disabled rather than refusing to start.
func (c *Config) HasStorage() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
