package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"MATCHMAKER_PORT", "MATCHMAKER_METRICS_PORT", "MATCHMAKER_ADMIN_TOKEN",
	"MATCHMAKER_DATASET_PATH", "MATCHMAKER_SCENARIOS_PATH", "MATCHMAKER_SCENARIOS_STRICT",
	"MATCHMAKER_STORE_BACKEND", "MATCHMAKER_DATABASE_URL", "MATCHMAKER_REDIS_ADDR",
	"MATCHMAKER_REDIS_PASSWORD", "MATCHMAKER_HERMES_URL", "MATCHMAKER_TOP_N",
	"MATCHMAKER_LOG_LEVEL", "MATCHMAKER_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Dataset.Path != "data/candidates.csv" {
		t.Errorf("unexpected dataset path %q", cfg.Dataset.Path)
	}
	if cfg.Dataset.NameColumn != "name" || cfg.Dataset.DescriptionColumn != "summary" {
		t.Errorf("unexpected dataset columns %+v", cfg.Dataset)
	}
	if cfg.Scenarios.Path != "" || cfg.Scenarios.Strict {
		t.Errorf("expected built-in lenient deck, got %+v", cfg.Scenarios)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("expected memory backend, got %q", cfg.Store.Backend)
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("expected 24h session ttl, got %s", cfg.SessionTTL())
	}
	if cfg.Ranking.TopN != 5 || cfg.Ranking.ProfileTopK != 5 || cfg.Ranking.ProfileThreshold != 0.1 {
		t.Errorf("unexpected ranking defaults %+v", cfg.Ranking)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "matchmaker.yaml")
	yml := `
server:
  port: 9000
dataset:
  path: /srv/traits.csv
scenarios:
  strict: true
store:
  backend: postgres
database:
  url: postgres://localhost/matchmaker
ranking:
  top_n: 3
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MATCHMAKER_PORT", "9100")
	t.Setenv("MATCHMAKER_LOG_LEVEL", "debug")
	t.Setenv("MATCHMAKER_TOP_N", "not-a-number")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should override file port, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("unset field should keep default, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Dataset.Path != "/srv/traits.csv" || !cfg.Scenarios.Strict {
		t.Errorf("file values not applied: %+v %+v", cfg.Dataset, cfg.Scenarios)
	}
	if cfg.Ranking.TopN != 3 {
		t.Errorf("invalid env value should be ignored, got %d", cfg.Ranking.TopN)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"postgres without url", map[string]string{"MATCHMAKER_STORE_BACKEND": "postgres"}, "database.url"},
		{"unknown backend", map[string]string{"MATCHMAKER_STORE_BACKEND": "etcd"}, "unknown store backend"},
		{"zero top n", map[string]string{"MATCHMAKER_TOP_N": "0"}, "top_n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load("/nonexistent/matchmaker.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON record, got %q", out)
	}

	text := LoggingConfig{Level: "debug", Format: "text"}.NewLogger(&buf)
	if !text.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
}
