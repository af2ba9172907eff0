package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "locations.yaml", cfg.Index.Path)
	assert.Equal(t, "https://livingwage.mit.edu", cfg.Fetch.BaseURL)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.InDelta(t, 0.5, cfg.Fetch.RatePerSec, 0.001)
	assert.Equal(t, 2, cfg.Fetch.Burst)
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "colcmp-cache.db", cfg.Cache.Path)
	assert.Equal(t, 168, cfg.Cache.TTLHours)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
cache:
  driver: postgres
  database_url: postgres://localhost/colcmp
log:
  level: debug
  format: json
server:
  port: 9090
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Cache.Driver)
	assert.Equal(t, "postgres://localhost/colcmp", cfg.Cache.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chTempDir(t)

	yaml := `
cache:
  driver: sqlite
log:
  level: debug
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("COLCMP_CACHE_DRIVER", "off")
	t.Setenv("COLCMP_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "off", cfg.Cache.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("COLCMP_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Cache.Driver = "sqlite"
	cfg.Cache.Path = "cache.db"
	cfg.Cache.TTLHours = 168
	cfg.Fetch.RatePerSec = 0.5
	cfg.Fetch.Concurrency = 4
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateCompare_Valid(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("compare"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateSQLiteNeedsPath(t *testing.T) {
	cfg := validDefaults()
	cfg.Cache.Path = ""

	err := cfg.Validate("compare")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cache.path is required")
}

func TestValidatePostgresNeedsURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Cache.Driver = "postgres"

	err := cfg.Validate("compare")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cache.database_url is required")

	cfg.Cache.DatabaseURL = "postgres://localhost/colcmp"
	assert.NoError(t, cfg.Validate("compare"))
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Cache.Driver = "mysql"

	err := cfg.Validate("compare")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cache.driver must be")
}

func TestValidateCacheCommandNeedsDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Cache.Driver = "off"

	assert.NoError(t, cfg.Validate("compare"))

	err := cfg.Validate("cache")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cache command requires a cache driver")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Fetch.Concurrency = 0
	err := cfg.Validate("compare")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fetch.concurrency must be between 1 and 16")

	cfg.Fetch.Concurrency = 17
	err = cfg.Validate("compare")
	assert.Error(t, err)

	cfg.Fetch.Concurrency = 16
	assert.NoError(t, cfg.Validate("compare"))
}

func TestValidateServePort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	assert.NoError(t, cfg.Validate("compare"))

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}
