package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rewired-gh/psceval/internal/metrics"
	"github.com/rewired-gh/psceval/internal/storage"
)

// Config represents the complete application configuration
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CatalogConfig holds master data settings. An empty Path selects the
// embedded default catalog.
type CatalogConfig struct {
	Path     string        `mapstructure:"path"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// EngineConfig holds calculation settings
type EngineConfig struct {
	PaybackMethod string `mapstructure:"payback_method"`
	Workers       int    `mapstructure:"workers"`
}

// RankingConfig holds ranking output settings
type RankingConfig struct {
	TopK int `mapstructure:"top_k"`
}

// StorageConfig holds result store settings
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file and PSCEVAL_* environment
// variables. Nested keys map to variables with dots replaced by underscores,
// e.g. PSCEVAL_STORAGE_DSN.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PSCEVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.cache_ttl", "10m")

	v.SetDefault("engine.payback_method", string(metrics.PaybackCumulative))
	v.SetDefault("engine.workers", 4)

	v.SetDefault("ranking.top_k", 5)

	v.SetDefault("storage.driver", storage.DriverSQLite)
	v.SetDefault("storage.dsn", "./data/psceval.db")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Catalog.CacheTTL < time.Second {
		return fmt.Errorf("catalog.cache_ttl must be at least 1 second")
	}

	if _, err := metrics.ParsePaybackMethod(c.Engine.PaybackMethod); err != nil {
		return fmt.Errorf("engine.payback_method: %w", err)
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("engine.workers must be at least 1")
	}

	if c.Ranking.TopK < 1 {
		return fmt.Errorf("ranking.top_k must be at least 1")
	}

	switch c.Storage.Driver {
	case storage.DriverSQLite, storage.DriverPostgres:
	default:
		return fmt.Errorf("storage.driver must be one of: %s, %s", storage.DriverSQLite, storage.DriverPostgres)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	if c.Telegram.MaxRetries < 0 {
		return fmt.Errorf("telegram.max_retries must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
