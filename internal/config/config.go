// Package config loads and validates the bot configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration structure for the bot.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Database DatabaseConfig `yaml:"database"`
	Sessions SessionsConfig `yaml:"sessions"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type TelegramConfig struct {
	// Token is the bot token from @BotFather (required).
	Token string `yaml:"token"`

	// Mode is "long_polling" or "webhook".
	Mode string `yaml:"mode"`

	// WebhookURL is the public HTTPS URL for webhook mode.
	WebhookURL string `yaml:"webhook_url"`

	// ListenAddr is the local address for the webhook server, e.g. ":8443".
	ListenAddr string `yaml:"listen_addr"`
}

type DatabaseConfig struct {
	// Path is the SQLite database file. Empty means in-memory.
	Path string `yaml:"path"`
}

type SessionsConfig struct {
	// Backend is "memory" (single process) or "sqlite" (shared/durable).
	Backend string `yaml:"backend"`

	// IdleTTL is how long a default-state session may sit before the
	// sweeper removes it.
	IdleTTL time.Duration `yaml:"idle_ttl"`

	// SweepSchedule is a cron expression for the sweep job.
	SweepSchedule string `yaml:"sweep_schedule"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// Load reads the configuration file at path, expanding ${VAR} references
// from the environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		c.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (config or TELEGRAM_BOT_TOKEN)")
	}

	switch c.Telegram.Mode {
	case "":
		c.Telegram.Mode = "long_polling"
	case "long_polling", "webhook":
	default:
		return fmt.Errorf("invalid telegram mode %q", c.Telegram.Mode)
	}
	if c.Telegram.Mode == "webhook" {
		if c.Telegram.WebhookURL == "" {
			return fmt.Errorf("webhook_url is required for webhook mode")
		}
		if c.Telegram.ListenAddr == "" {
			c.Telegram.ListenAddr = ":8443"
		}
	}

	if c.Database.Path == "" {
		c.Database.Path = "notes.db"
	}

	switch c.Sessions.Backend {
	case "":
		c.Sessions.Backend = "memory"
	case "memory", "sqlite":
	default:
		return fmt.Errorf("invalid sessions backend %q", c.Sessions.Backend)
	}
	if c.Sessions.IdleTTL == 0 {
		c.Sessions.IdleTTL = 24 * time.Hour
	}
	if c.Sessions.SweepSchedule == "" {
		c.Sessions.SweepSchedule = "@hourly"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}

	return nil
}
