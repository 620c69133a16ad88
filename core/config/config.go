package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot transport settings.
type TelegramConfig struct {
	Token string `yaml:"token" envconfig:"BOT_TOKEN"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// AdminConfig holds admin authentication settings.
type AdminConfig struct {
	Password string `yaml:"password" envconfig:"ADMIN_PASSWORD"`
	// SessionTTLMinutes bounds how long an admin login stays valid.
	SessionTTLMinutes int `yaml:"session_ttl_minutes" envconfig:"ADMIN_SESSION_TTL_MINUTES"`
}

// DatabaseConfig holds the sqlite file settings.
type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"DB_PATH"`
	// BusyTimeoutMS is how long a connection waits on a locked database.
	BusyTimeoutMS int `yaml:"busy_timeout_ms" envconfig:"DB_BUSY_TIMEOUT_MS"`
}

// AntiSpamConfig controls the per-user message throttle.
type AntiSpamConfig struct {
	// SoftIntervalMS: messages arriving faster get a throttle notice.
	SoftIntervalMS int `yaml:"soft_interval_ms" envconfig:"ANTISPAM_SOFT_INTERVAL_MS"`
	// HardIntervalMS: messages arriving faster are dropped silently.
	HardIntervalMS int `yaml:"hard_interval_ms" envconfig:"ANTISPAM_HARD_INTERVAL_MS"`
}

// HealthConfig configures the liveness HTTP listener. Port 0 disables it.
type HealthConfig struct {
	Port int `yaml:"port" envconfig:"HEALTH_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

// Config aggregates the whole application configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	AntiSpam AntiSpamConfig `yaml:"anti_spam"`
	Health   HealthConfig   `yaml:"health"`
	Logging  LoggingConfig  `yaml:"logging"`
}

const (
	defaultDBPath          = "currency.db"
	defaultBusyTimeoutMS   = 20000
	defaultSoftIntervalMS  = 1200
	defaultHardIntervalMS  = 500
	defaultAdminTTLMinutes = 10
)

// Load reads configuration from an optional YAML file and environment variables.
// An empty path skips the file and relies on env alone.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is required")
	}
	if strings.TrimSpace(cfg.Admin.Password) == "" {
		return fmt.Errorf("admin password is required")
	}
	if cfg.Telegram.LongPollTimeoutSeconds < 0 {
		return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
	}

	if strings.TrimSpace(cfg.Database.Path) == "" {
		cfg.Database.Path = defaultDBPath
	}
	if cfg.Database.BusyTimeoutMS <= 0 {
		cfg.Database.BusyTimeoutMS = defaultBusyTimeoutMS
	}
	if cfg.AntiSpam.SoftIntervalMS <= 0 {
		cfg.AntiSpam.SoftIntervalMS = defaultSoftIntervalMS
	}
	if cfg.AntiSpam.HardIntervalMS <= 0 {
		cfg.AntiSpam.HardIntervalMS = defaultHardIntervalMS
	}
	if cfg.AntiSpam.HardIntervalMS > cfg.AntiSpam.SoftIntervalMS {
		return fmt.Errorf("anti_spam.hard_interval_ms must not exceed soft_interval_ms")
	}
	if cfg.Admin.SessionTTLMinutes <= 0 {
		cfg.Admin.SessionTTLMinutes = defaultAdminTTLMinutes
	}
	if cfg.Health.Port < 0 {
		return fmt.Errorf("health.port must be >= 0")
	}
	return nil
}
