// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/colcmp/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Index  IndexConfig  `yaml:"index" mapstructure:"index"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// IndexConfig points at the location index file used for name resolution.
type IndexConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// FetchConfig configures the data source client.
type FetchConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// CacheConfig configures the fetched-figures cache backend.
type CacheConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"` // sqlite, postgres, or off
	Path        string           `yaml:"path" mapstructure:"path"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	TTLHours    int              `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COLCMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("index.path", "locations.yaml")
	v.SetDefault("fetch.base_url", "https://livingwage.mit.edu")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_per_sec", 0.5)
	v.SetDefault("fetch.burst", 2)
	v.SetDefault("fetch.concurrency", 4)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.path", "colcmp-cache.db")
	v.SetDefault("cache.ttl_hours", 168)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration needed for the given command mode and
// reports every problem at once.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "compare", "cache", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Cache.Driver {
	case "sqlite":
		check(c.Cache.Path != "", "cache.path is required for the sqlite driver")
	case "postgres":
		check(c.Cache.DatabaseURL != "", "cache.database_url is required for the postgres driver")
	case "off":
		check(mode != "cache", "cache command requires a cache driver")
	default:
		problems = append(problems, "cache.driver must be sqlite, postgres, or off")
	}
	check(c.Cache.TTLHours > 0, "cache.ttl_hours must be > 0")

	check(c.Fetch.RatePerSec > 0, "fetch.rate_per_sec must be > 0")
	check(c.Fetch.Concurrency >= 1 && c.Fetch.Concurrency <= 16,
		"fetch.concurrency must be between 1 and 16")

	if mode == "serve" {
		check(c.Server.Port > 0, "server.port must be > 0")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
