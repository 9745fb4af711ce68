package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// jsonStore は値をJSONでRedisに保存する薄いラッパーです。
// 壊れたエントリは読み取り時に削除し、ミスとして扱います。
type jsonStore struct {
	rdb *redis.Client
}

// get は key の値を dst にデコードします。キーが無い・壊れている場合は ok=false です。
func (s jsonStore) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		slog.Warn("dropping corrupted cache entry", "key", key, "error", err)
		_ = s.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (s jsonStore) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, ttl).Err()
}

// deleteByPattern は SCAN でパターンに一致するキーを削除します。
func (s jsonStore) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := s.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

// safe はRedisキーで問題になる文字を置き換えます。
func safe(s string) string {
	return strings.NewReplacer(" ", "_", ":", "_").Replace(s)
}
