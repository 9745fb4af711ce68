package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 60*time.Second, cfg.DB.ConnectTimeout)
	assert.Equal(t, 12, cfg.Scan.ChunkSize)
	assert.Equal(t, 50*time.Millisecond, cfg.Scan.BatchDelay)
	assert.Equal(t, 12*time.Hour, cfg.Scan.TTL)
	assert.Equal(t, 2, cfg.Scan.ReversalWindow)
	assert.Equal(t, "day", cfg.Structure.Dedup)
	assert.Equal(t, "coin_candles", cfg.Cache.Namespace)
	assert.Equal(t, "UTC", cfg.Market.Timezone)
	assert.False(t, cfg.Redis.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
db:
  driver: sqlite
  path: ./data/test.db
redis:
  host: cache
  port: "6380"
scan:
  chunk_size: 4
  ttl: 30m
  top_n: 5
structure:
  dedup: candle
logging:
  level: debug
  format: text
market:
  timezone: Asia/Tokyo
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "./data/test.db", cfg.DB.Path)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache:6380", cfg.Redis.Addr())
	assert.Equal(t, 4, cfg.Scan.ChunkSize)
	assert.Equal(t, 30*time.Minute, cfg.Scan.TTL)
	assert.Equal(t, 5, cfg.Scan.TopN)
	// ファイルにない値はデフォルトのまま
	assert.Equal(t, 365, cfg.Scan.OutputSize)
	assert.Equal(t, "candle", cfg.Structure.Dedup)
	assert.Equal(t, "debug", cfg.Logging.Level)

	loc, err := cfg.Market.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CLICKCOIN_DB_DRIVER", "sqlite")
	t.Setenv("CLICKCOIN_REDIS_HOST", "redis.internal")
	t.Setenv("CLICKCOIN_TWELVEDATA_API_KEY", "secret")
	t.Setenv("CLICKCOIN_SCAN_TOP_N", "3")

	path := writeConfig(t, `
db:
  driver: postgres
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// 環境変数がファイルより優先される
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, "secret", cfg.TwelveData.APIKey)
	assert.Equal(t, 3, cfg.Scan.TopN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }, "db.driver"},
		{"sqlite without path", func(c *Config) { c.DB.Driver = "sqlite"; c.DB.Path = "" }, "db.path"},
		{"postgres without host", func(c *Config) { c.DB.Host = "" }, "db.host"},
		{"zero chunk size", func(c *Config) { c.Scan.ChunkSize = 0 }, "scan.chunk_size"},
		{"zero reversal window", func(c *Config) { c.Scan.ReversalWindow = 0 }, "scan.reversal_window"},
		{"bad dedup", func(c *Config) { c.Structure.Dedup = "week" }, "structure.dedup"},
		{"bad rollover hour", func(c *Config) { c.Cache.RolloverHour = 24 }, "cache.rollover_hour"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad timezone", func(c *Config) { c.Market.Timezone = "Mars/Olympus" }, "market.timezone"},
		{"zero rate limit", func(c *Config) { c.Ingest.RateLimit = 0 }, "ingest.rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
