// Package db はデータベース接続とマイグレーションを提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	candleadapters "clickcoin_backend/internal/feature/candles/adapters"
	newsletteradapters "clickcoin_backend/internal/feature/newsletter/adapters"
	symbolentity "clickcoin_backend/internal/feature/symbollist/domain/entity"
	"clickcoin_backend/internal/platform/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// ErrUnsupportedDriver は未対応のドライバが指定された場合に返されます。
var ErrUnsupportedDriver = errors.New("unsupported db driver")

// Config はデータベース接続の設定を保持します。
type Config struct {
	Driver   string
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
	Path     string // sqlite
}

// FromConfig はアプリケーション設定から Config を組み立てます。
func FromConfig(c config.DBConfig) Config {
	return Config{
		Driver:   c.Driver,
		User:     c.User,
		Password: c.Password,
		Name:     c.Name,
		Host:     c.Host,
		Port:     c.Port,
		SSLMode:  c.SSLMode,
		Path:     c.Path,
	}
}

// BuildDSN は設定からドライバごとの DSN 文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		return cfg.Path
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// Opener は DSN から gorm.DB を開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor はドライバに対応する Opener を返します。
func OpenerFor(driver string) (Opener, error) {
	switch driver {
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		}, nil
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

// ConnectWithRetry は timeout に達するまで retryInterval 間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Open は設定に従って接続し、必要ならマイグレーションを実行します。
func Open(c config.DBConfig) (*gorm.DB, error) {
	cfg := FromConfig(c)
	open, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite && cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), c.ConnectTimeout, open)
	if err != nil {
		return nil, err
	}

	// sqlite は起動時に常にスキーマを作る
	if c.RunMigrations || cfg.Driver == DriverSQLite {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate はローソク足・銘柄・購読者のテーブルを作成または更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&candleadapters.CandleModel{},
		&symbolentity.Symbol{},
		&newsletteradapters.SubscriberModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
