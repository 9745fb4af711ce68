// Package adapters はnewsletterフィーチャーの購読者ストア実装を提供します。
package adapters

import (
	"context"

	"github.com/redis/go-redis/v9"

	"clickcoin_backend/internal/feature/newsletter/domain/entity"
	"clickcoin_backend/internal/feature/newsletter/usecase"
)

// DefaultSubscriberSetKey は購読者のメールアドレスを保持するRedisセットのキーです。
const DefaultSubscriberSetKey = "coin_newsletter_subscribers"

// subscriberRedis は購読者をRedisのセットに保存します。
type subscriberRedis struct {
	client *redis.Client
	key    string
}

var _ usecase.SubscriberStore = (*subscriberRedis)(nil)

// NewSubscriberRedis はsubscriberRedisを生成します。key が空なら DefaultSubscriberSetKey を使います。
func NewSubscriberRedis(client *redis.Client, key string) *subscriberRedis {
	if key == "" {
		key = DefaultSubscriberSetKey
	}
	return &subscriberRedis{client: client, key: key}
}

// Add はメールアドレスをセットに追加します。既に存在する場合は added=false です。
func (r *subscriberRedis) Add(ctx context.Context, s entity.Subscriber) (bool, error) {
	n, err := r.client.SAdd(ctx, r.key, s.Email).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
