// Package config loads application configuration from environment variables.
// All variables use the COMPASS_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	Cache         CacheConfig
	Snapshot      SnapshotConfig
	Log           LogConfig
	ReferencePath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int
	Host           string
	UploadMaxBytes int64
	LivePreview    bool
}

// CacheConfig holds Redis connection settings.
type CacheConfig struct {
	URL       string
	KeyPrefix string
}

// SnapshotConfig selects where downloadable snapshots live.
type SnapshotConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with COMPASS_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           envInt("COMPASS_SERVER_PORT", 8080),
			Host:           envStr("COMPASS_SERVER_HOST", "0.0.0.0"),
			UploadMaxBytes: int64(envInt("COMPASS_UPLOAD_MAX_BYTES", 8<<20)),
			LivePreview:    envBool("COMPASS_LIVE_PREVIEW", true),
		},
		Cache: CacheConfig{
			URL:       envStr("COMPASS_CACHE_URL", "redis://localhost:6379"),
			KeyPrefix: envStr("COMPASS_CACHE_KEY_PREFIX", "compass:snapshot:"),
		},
		Snapshot: SnapshotConfig{
			Backend: envStr("COMPASS_SNAPSHOT_BACKEND", "memory"),
			TTL:     envDuration("COMPASS_SNAPSHOT_TTL", 30*time.Minute),
		},
		Log: LogConfig{
			Level:  envStr("COMPASS_LOG_LEVEL", "info"),
			Format: envStr("COMPASS_LOG_FORMAT", "json"),
		},
		ReferencePath: envStr("COMPASS_REFERENCE_PATH", "./Pathogen Genomics Competencies.csv"),
	}

	return cfg, nil
}

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	if c.ReferencePath == "" {
		return fmt.Errorf("COMPASS_REFERENCE_PATH is required")
	}

	if c.Server.UploadMaxBytes <= 0 {
		return fmt.Errorf("COMPASS_UPLOAD_MAX_BYTES must be positive, got %d", c.Server.UploadMaxBytes)
	}

	switch c.Snapshot.Backend {
	case "memory":
	case "redis":
		if c.Cache.URL == "" {
			return fmt.Errorf("COMPASS_CACHE_URL is required for the redis snapshot backend")
		}
	default:
		return fmt.Errorf("COMPASS_SNAPSHOT_BACKEND must be 'memory' or 'redis', got %q", c.Snapshot.Backend)
	}

	if c.Snapshot.TTL <= 0 {
		return fmt.Errorf("COMPASS_SNAPSHOT_TTL must be positive, got %s", c.Snapshot.TTL)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("COMPASS_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
