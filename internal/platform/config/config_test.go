package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv unsets all COMPASS_ environment variables for a clean test.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"COMPASS_SERVER_PORT",
		"COMPASS_SERVER_HOST",
		"COMPASS_UPLOAD_MAX_BYTES",
		"COMPASS_LIVE_PREVIEW",
		"COMPASS_CACHE_URL",
		"COMPASS_CACHE_KEY_PREFIX",
		"COMPASS_SNAPSHOT_BACKEND",
		"COMPASS_SNAPSHOT_TTL",
		"COMPASS_LOG_LEVEL",
		"COMPASS_LOG_FORMAT",
		"COMPASS_REFERENCE_PATH",
	}
	for _, v := range envVars {
		_ = os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.UploadMaxBytes != 8<<20 {
		t.Errorf("Server.UploadMaxBytes = %d, want 8 MiB", cfg.Server.UploadMaxBytes)
	}
	if !cfg.Server.LivePreview {
		t.Error("Server.LivePreview should default to true")
	}
	if cfg.Cache.URL != "redis://localhost:6379" {
		t.Errorf("Cache.URL = %q, want redis://localhost:6379", cfg.Cache.URL)
	}
	if cfg.Snapshot.Backend != "memory" {
		t.Errorf("Snapshot.Backend = %q, want memory", cfg.Snapshot.Backend)
	}
	if cfg.Snapshot.TTL != 30*time.Minute {
		t.Errorf("Snapshot.TTL = %s, want 30m", cfg.Snapshot.TTL)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("COMPASS_SERVER_PORT", "9090")
	t.Setenv("COMPASS_LIVE_PREVIEW", "false")
	t.Setenv("COMPASS_SNAPSHOT_BACKEND", "redis")
	t.Setenv("COMPASS_SNAPSHOT_TTL", "5m")
	t.Setenv("COMPASS_CACHE_URL", "redis://cache:6379/1")
	t.Setenv("COMPASS_REFERENCE_PATH", "/data/competencies.xlsx")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.LivePreview {
		t.Error("Server.LivePreview should be false")
	}
	if cfg.Snapshot.Backend != "redis" {
		t.Errorf("Snapshot.Backend = %q, want redis", cfg.Snapshot.Backend)
	}
	if cfg.Snapshot.TTL != 5*time.Minute {
		t.Errorf("Snapshot.TTL = %s, want 5m", cfg.Snapshot.TTL)
	}
	if cfg.Cache.URL != "redis://cache:6379/1" {
		t.Errorf("Cache.URL = %q", cfg.Cache.URL)
	}
	if cfg.ReferencePath != "/data/competencies.xlsx" {
		t.Errorf("ReferencePath = %q", cfg.ReferencePath)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPASS_SERVER_PORT", "eighty")
	t.Setenv("COMPASS_SNAPSHOT_TTL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want fallback 8080", cfg.Server.Port)
	}
	if cfg.Snapshot.TTL != 30*time.Minute {
		t.Errorf("Snapshot.TTL = %s, want fallback 30m", cfg.Snapshot.TTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"defaults", nil, false},
		{"redis backend", map[string]string{"COMPASS_SNAPSHOT_BACKEND": "redis"}, false},
		{"unknown backend", map[string]string{"COMPASS_SNAPSHOT_BACKEND": "postgres"}, true},
		{"text logs", map[string]string{"COMPASS_LOG_FORMAT": "text"}, false},
		{"bad log format", map[string]string{"COMPASS_LOG_FORMAT": "xml"}, true},
		{"negative upload limit", map[string]string{"COMPASS_UPLOAD_MAX_BYTES": "-1"}, true},
		{"zero ttl", map[string]string{"COMPASS_SNAPSHOT_TTL": "0s"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLivePreviewParsing(t *testing.T) {
	tests := []struct {
		name string
		val  string
		want bool
	}{
		{"true", "true", true},
		{"TRUE", "TRUE", true},
		{"false", "false", false},
		{"1", "1", true},
		{"0", "0", false},
		{"empty", "", true},
		{"invalid", "notabool", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.val != "" {
				t.Setenv("COMPASS_LIVE_PREVIEW", tt.val)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Server.LivePreview != tt.want {
				t.Errorf("Server.LivePreview = %v, want %v", cfg.Server.LivePreview, tt.want)
			}
		})
	}
}
