package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Scenarios ScenariosConfig `yaml:"scenarios"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Hermes    HermesConfig    `yaml:"hermes"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit_per_minute"`
}

type DatasetConfig struct {
	Path              string `yaml:"path"`
	NameColumn        string `yaml:"name_column"`
	DescriptionColumn string `yaml:"description_column"`
}

type ScenariosConfig struct {
	// Path to a YAML deck; empty uses the built-in deck.
	Path string `yaml:"path"`
	// Strict rejects decks that reference traits missing from the dataset.
	Strict bool `yaml:"strict"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"` // memory, postgres, redis
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr          string `yaml:"addr"`
	Password      string `yaml:"password"`
	DB            int    `yaml:"db"`
	SessionTTLSec int    `yaml:"session_ttl_seconds"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type RankingConfig struct {
	TopN             int     `yaml:"top_n"`
	ProfileThreshold float64 `yaml:"profile_threshold"`
	ProfileTopK      int     `yaml:"profile_top_k"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Redis.SessionTTLSec) * time.Second
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("store backend postgres requires database.url")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("store backend redis requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Ranking.TopN < 1 {
		return fmt.Errorf("ranking.top_n must be positive, got %d", c.Ranking.TopN)
	}
	return nil
}

// NewLogger builds the process logger: JSON unless format is "text".
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Dataset: DatasetConfig{
			Path:              "data/candidates.csv",
			NameColumn:        "name",
			DescriptionColumn: "summary",
		},
		Store: StoreConfig{
			Backend: "memory",
		},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			SessionTTLSec: 86400,
		},
		Ranking: RankingConfig{
			TopN:             5,
			ProfileThreshold: 0.1,
			ProfileTopK:      5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MATCHMAKER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("MATCHMAKER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("MATCHMAKER_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("MATCHMAKER_DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("MATCHMAKER_SCENARIOS_PATH"); v != "" {
		cfg.Scenarios.Path = v
	}
	if v := os.Getenv("MATCHMAKER_SCENARIOS_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scenarios.Strict = b
		}
	}
	if v := os.Getenv("MATCHMAKER_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("MATCHMAKER_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("MATCHMAKER_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("MATCHMAKER_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("MATCHMAKER_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("MATCHMAKER_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.TopN = n
		}
	}
	if v := os.Getenv("MATCHMAKER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MATCHMAKER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
