package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/ishulazy/Venomm/core/config"
	coredatabase "github.com/ishulazy/Venomm/core/database"
)

// SessionConfig selects and tunes the conversation state backend.
type SessionConfig struct {
	// Backend is "memory" (default) or "redis".
	Backend       string `yaml:"backend" envconfig:"SESSION_BACKEND"`
	RedisAddr     string `yaml:"redis_addr" envconfig:"SESSION_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" envconfig:"SESSION_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" envconfig:"SESSION_REDIS_DB"`
	TTLSeconds    int    `yaml:"ttl_seconds" envconfig:"SESSION_TTL_SECONDS"`
	Prefix        string `yaml:"prefix" envconfig:"SESSION_PREFIX"`
}

// LimitsConfig overrides per-tier capacity caps; zero keeps the default.
type LimitsConfig struct {
	Instant     int `yaml:"instant" envconfig:"LIMIT_INSTANT"`
	InstantPlus int `yaml:"instant_plus" envconfig:"LIMIT_INSTANT_PLUS"`
}

// Config aggregates core settings with bot-specific sections.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Session  SessionConfig       `yaml:"session"`
	Limits   LimitsConfig        `yaml:"limits"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	switch backend {
	case "":
		backend = "memory"
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("invalid session.backend %q; allowed: memory, redis", cfg.Session.Backend)
	}
	if backend == "redis" && strings.TrimSpace(cfg.Session.RedisAddr) == "" {
		return nil, fmt.Errorf("session.redis_addr is required when session.backend is 'redis'")
	}
	cfg.Session.Backend = backend

	if cfg.Limits.Instant < 0 || cfg.Limits.InstantPlus < 0 {
		return nil, fmt.Errorf("limits must not be negative")
	}

	return &cfg, nil
}
