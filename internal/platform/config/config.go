// Package config はアプリケーション設定を YAML ファイルと環境変数から読み込みます。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix は環境変数による上書きの接頭辞です。例: CLICKCOIN_DB_DRIVER
const EnvPrefix = "CLICKCOIN"

// Config はアプリケーション全体の設定です。
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	TwelveData TwelveDataConfig `mapstructure:"twelvedata"`
	Ingest     IngestConfig     `mapstructure:"ingest"`
	Scan       ScanConfig       `mapstructure:"scan"`
	Structure  StructureConfig  `mapstructure:"structure"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Market     MarketConfig     `mapstructure:"market"`
}

// ServerConfig は HTTP サーバーの設定です。
type ServerConfig struct {
	Port     string `mapstructure:"port"`
	GinMode  string `mapstructure:"gin_mode"`
	SeedData bool   `mapstructure:"seed_data"` // 起動時に銘柄マスタを投入する
}

// DBConfig はデータベース接続の設定です。
type DBConfig struct {
	Driver         string        `mapstructure:"driver"` // postgres | sqlite
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name"`
	SSLMode        string        `mapstructure:"sslmode"`
	Path           string        `mapstructure:"path"` // sqlite のファイルパス
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	RunMigrations  bool          `mapstructure:"run_migrations"`
}

// RedisConfig は Redis 接続の設定です。Host が空の場合は Redis なしで動作します。
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr は host:port 形式のアドレスを返します。
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// Enabled は Redis が設定されているかを返します。
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// TwelveDataConfig は Twelve Data API の設定です。
type TwelveDataConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Timezone string        `mapstructure:"timezone"`
}

// IngestConfig はデータ取り込みバッチの設定です。
type IngestConfig struct {
	RateLimit    int           `mapstructure:"rate_limit"` // RateInterval あたりのリクエスト上限
	RateInterval time.Duration `mapstructure:"rate_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// ScanConfig はスキャンの設定です。
type ScanConfig struct {
	ChunkSize      int           `mapstructure:"chunk_size"`
	BatchDelay     time.Duration `mapstructure:"batch_delay"`
	TTL            time.Duration `mapstructure:"ttl"`
	TopN           int           `mapstructure:"top_n"`
	OutputSize     int           `mapstructure:"output_size"`
	ReversalWindow int           `mapstructure:"reversal_window"`
}

// StructureConfig はマーケットストラクチャ API の設定です。
type StructureConfig struct {
	Dedup string `mapstructure:"dedup"` // day | candle
}

// CacheConfig はローソク足キャッシュの設定です。
type CacheConfig struct {
	Namespace    string `mapstructure:"namespace"`
	RolloverHour int    `mapstructure:"rollover_hour"` // キャッシュを失効させる時刻（Market.Timezone 基準）
}

// LoggingConfig はログ出力の設定です。
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MarketConfig は日足の区切りに使うタイムゾーンです。
type MarketConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Location は Market.Timezone を読み込みます。
func (m MarketConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return nil, fmt.Errorf("market.timezone: %w", err)
	}
	return loc, nil
}

// Load は設定を読み込みます。path が空の場合はデフォルト値と環境変数のみを使います。
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// CLICKCOIN_DB_HOST → db.host
	v.SetEnvPrefix(EnvPrefix)
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.seed_data", true)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "clickcoin")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "./data/clickcoin.db")
	v.SetDefault("db.connect_timeout", "60s")
	v.SetDefault("db.run_migrations", false)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("twelvedata.api_key", "")
	v.SetDefault("twelvedata.base_url", "https://api.twelvedata.com")
	v.SetDefault("twelvedata.timeout", "10s")
	v.SetDefault("twelvedata.timezone", "UTC")

	// 無料プランは 8 リクエスト/分
	v.SetDefault("ingest.rate_limit", 8)
	v.SetDefault("ingest.rate_interval", "1m")
	v.SetDefault("ingest.timeout", "10m")

	v.SetDefault("scan.chunk_size", 12)
	v.SetDefault("scan.batch_delay", "50ms")
	v.SetDefault("scan.ttl", "12h")
	v.SetDefault("scan.top_n", 10)
	v.SetDefault("scan.output_size", 365)
	v.SetDefault("scan.reversal_window", 2)

	v.SetDefault("structure.dedup", "day")

	v.SetDefault("cache.namespace", "coin_candles")
	v.SetDefault("cache.rollover_hour", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("market.timezone", "UTC")
}

// Validate は設定値の妥当性を検証します。
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}

	switch c.DB.Driver {
	case "postgres":
		if c.DB.Host == "" || c.DB.Name == "" {
			return errors.New("db.host and db.name are required for postgres")
		}
	case "sqlite":
		if c.DB.Path == "" {
			return errors.New("db.path is required for sqlite")
		}
	default:
		return fmt.Errorf("db.driver must be one of: postgres, sqlite (got %q)", c.DB.Driver)
	}
	if c.DB.ConnectTimeout <= 0 {
		return errors.New("db.connect_timeout must be positive")
	}

	if c.TwelveData.Timeout <= 0 {
		return errors.New("twelvedata.timeout must be positive")
	}
	if c.Ingest.RateLimit < 1 {
		return errors.New("ingest.rate_limit must be at least 1")
	}
	if c.Ingest.RateInterval <= 0 {
		return errors.New("ingest.rate_interval must be positive")
	}

	if c.Scan.ChunkSize < 1 {
		return errors.New("scan.chunk_size must be at least 1")
	}
	if c.Scan.TopN < 1 {
		return errors.New("scan.top_n must be at least 1")
	}
	if c.Scan.OutputSize < 1 {
		return errors.New("scan.output_size must be at least 1")
	}
	if c.Scan.ReversalWindow < 1 {
		return errors.New("scan.reversal_window must be at least 1")
	}

	switch strings.ToLower(c.Structure.Dedup) {
	case "day", "candle":
	default:
		return errors.New("structure.dedup must be one of: day, candle")
	}

	if c.Cache.RolloverHour < 0 || c.Cache.RolloverHour > 23 {
		return errors.New("cache.rollover_hour must be between 0 and 23")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return errors.New("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return errors.New("logging.format must be one of: json, text")
	}

	if _, err := c.Market.Location(); err != nil {
		return err
	}

	return nil
}
