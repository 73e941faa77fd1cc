// Package config loads application settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	ServerPort    string
	GinMode       string
	AppEnv        string
	MongoURI      string
	MongoDatabase string
	RedisURI      string

	JWTSecret       string
	JWTExpiry       time.Duration
	SessionCacheTTL time.Duration

	CORSOrigins []string

	LogLevel  string
	LogFormat string
	SentryDSN string

	CleanupWorkers   int
	CleanupQueueSize int
}

// SeedConfig holds the bootstrap admin account used by cmd/seed.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads configuration from .env file and environment variables
func Load() *Config {
	// Load .env file (ignore error if file doesn't exist - env vars may be set directly)
	_ = godotenv.Load()

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		AppEnv:        getEnv("APP_ENV", "development"),
		MongoURI:      getEnvRequired("MONGO_URI"),
		MongoDatabase: getEnvRequired("MONGO_DATABASE"),
		RedisURI:      getEnv("REDIS_URI", "localhost:6379"),

		JWTSecret:       getEnvRequired("JWT_SECRET"),
		JWTExpiry:       parseDuration(getEnv("JWT_EXPIRY", "168h")),
		SessionCacheTTL: parseDuration(getEnv("SESSION_CACHE_TTL", "15m")),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		SentryDSN: os.Getenv("SENTRY_DSN"),

		CleanupWorkers:   parseInt(getEnv("CLEANUP_WORKERS", "2")),
		CleanupQueueSize: parseInt(getEnv("CLEANUP_QUEUE_SIZE", "100")),
	}
}

// LoadSeed reads the seeder settings. Email and password are required.
func LoadSeed() *SeedConfig {
	_ = godotenv.Load()

	return &SeedConfig{
		AdminEmail:    getEnvRequired("SEED_ADMIN_EMAIL"),
		AdminPassword: getEnvRequired("SEED_ADMIN_PASSWORD"),
		AdminName:     getEnv("SEED_ADMIN_NAME", "Admin User"),
	}
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// getEnv reads an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRequired reads an environment variable and exits if not set
func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Required environment variable %s is not set", key)
	}
	return value
}

// parseDuration parses a duration string, exits on error
func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Invalid duration format: %s", s)
	}
	return d
}

// parseInt parses a positive integer, exits on error
func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		log.Fatalf("Invalid positive integer: %s", s)
	}
	return n
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
