// Package config loads service configuration from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	// embedded zone database, so DISPLAY_TIMEZONE resolves on minimal images
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Limits   LimitsConfig
	Language string
	// Timezone names the zone in which date instants are read as calendar days
	Timezone string
	LogLevel string
	OTEL     OTELConfig
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr string
}

// StoreConfig selects and configures the history backend
type StoreConfig struct {
	Backend    string
	Path       string
	RedisAddr  string
	Key        string
	MaxEntries int
	SyncWrites bool
}

// LimitsConfig bounds accepted calculation inputs
type LimitsConfig struct {
	MaxPrincipal float64
	MaxRate      float64
}

// OTELConfig configures trace export. An empty endpoint disables export.
type OTELConfig struct {
	Endpoint    string
	ServiceName string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(getEnv("STORE_BACKEND", BackendBadger)),
			Path:       getEnv("DB_PATH", "./data"),
			RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
			Key:        getEnv("HISTORY_KEY", "vaddi-calculator-history"),
			MaxEntries: getEnvInt("HISTORY_MAX_ENTRIES", 50),
			SyncWrites: getEnvBool("DB_SYNC_WRITES", true),
		},
		Limits: LimitsConfig{
			MaxPrincipal: getEnvFloat("MAX_PRINCIPAL", 999999999),
			MaxRate:      getEnvFloat("MAX_RATE", 200),
		},
		Language: getEnv("DEFAULT_LANGUAGE", "en"),
		Timezone: getEnv("DISPLAY_TIMEZONE", "Asia/Kolkata"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		OTEL: OTELConfig{
			Endpoint:    getEnv("OTEL_ENDPOINT", ""),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "vaddi-calculator"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendBadger, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Store.MaxEntries <= 0 {
		return fmt.Errorf("HISTORY_MAX_ENTRIES must be positive, got %d", c.Store.MaxEntries)
	}
	if c.Store.Key == "" {
		return fmt.Errorf("HISTORY_KEY must not be empty")
	}
	if c.Limits.MaxPrincipal <= 0 {
		return fmt.Errorf("MAX_PRINCIPAL must be positive, got %v", c.Limits.MaxPrincipal)
	}
	if c.Limits.MaxRate <= 0 {
		return fmt.Errorf("MAX_RATE must be positive, got %v", c.Limits.MaxRate)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves Timezone; Validate has already checked it loads
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
