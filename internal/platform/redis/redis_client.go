// Package redis は設定から Redis クライアントを作成します。
package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"clickcoin_backend/internal/platform/config"
)

// ErrNotConfigured は Redis のホストが設定されていない場合に返されます。
var ErrNotConfigured = errors.New("redis is not configured")

// NewRedisClient は接続確認済みのクライアントを返します。
// 接続できない場合はクライアントを閉じてエラーを返すので、呼び出し側はキャッシュなしで動作させます。
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.Addr())
	return rdb, nil
}
