package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Kinopoisk   KinopoiskConfig   `mapstructure:"kinopoisk"`
	Breaker     BreakerConfig     `mapstructure:"breaker"`
	Buckets     BucketsConfig     `mapstructure:"buckets"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Per-client throttle on /api/v1.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// KinopoiskConfig holds remote catalog client configuration.
type KinopoiskConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	Timeout           int     `mapstructure:"timeout"` // seconds
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// BreakerConfig holds circuit breaker settings for the remote catalog.
type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// BucketsConfig controls the periodic refresh of recommendation buckets.
type BucketsConfig struct {
	RefreshCron string `mapstructure:"refresh_cron"`
	RunOnStart  bool   `mapstructure:"run_on_start"`
}

// PreferencesConfig holds settings store configuration.
type PreferencesConfig struct {
	SearchHistoryLimit int `mapstructure:"search_history_limit"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Database: DatabaseConfig{
			Path: "./data/absolutecinema.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Kinopoisk: KinopoiskConfig{
			BaseURL:           DefaultKinopoiskURL,
			Timeout:           30,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		Buckets: BucketsConfig{
			RefreshCron: "0 */6 * * *",
		},
		Preferences: PreferencesConfig{
			SearchHistoryLimit: 10,
		},
	}
}

// DefaultKinopoiskURL is the public endpoint of the catalog API.
const DefaultKinopoiskURL = "https://api.kinopoisk.dev"

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.absolutecinema")
	}

	v.SetEnvPrefix("ABSOLUTECINEMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Kinopoisk.APIKey == "" && EmbeddedKinopoiskKey != "" {
		cfg.Kinopoisk.APIKey = EmbeddedKinopoiskKey
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.requests_per_second", d.Server.RequestsPerSecond)
	v.SetDefault("server.burst", d.Server.Burst)

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("kinopoisk.api_key", "")
	v.SetDefault("kinopoisk.base_url", d.Kinopoisk.BaseURL)
	v.SetDefault("kinopoisk.timeout", d.Kinopoisk.Timeout)
	v.SetDefault("kinopoisk.requests_per_second", d.Kinopoisk.RequestsPerSecond)
	v.SetDefault("kinopoisk.burst", d.Kinopoisk.Burst)

	v.SetDefault("breaker.max_requests", d.Breaker.MaxRequests)
	v.SetDefault("breaker.interval", d.Breaker.Interval)
	v.SetDefault("breaker.timeout", d.Breaker.Timeout)
	v.SetDefault("breaker.failure_threshold", d.Breaker.FailureThreshold)

	v.SetDefault("buckets.refresh_cron", d.Buckets.RefreshCron)
	v.SetDefault("buckets.run_on_start", d.Buckets.RunOnStart)

	v.SetDefault("preferences.search_history_limit", d.Preferences.SearchHistoryLimit)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
