package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	newsletteradapters "clickcoin_backend/internal/feature/newsletter/adapters"
	"clickcoin_backend/internal/feature/newsletter/usecase"
)

// NewSubscriberStore は購読者の保存先を返します。
// Redis が利用可能なら Redis を優先し、失敗時は DB に書き込みます。
// Redis がない場合は DB のみを使います。
func NewSubscriberStore(rdb *redis.Client, db *gorm.DB) usecase.SubscriberStore {
	dbStore := newsletteradapters.NewSubscriberGorm(db)
	if rdb == nil {
		return dbStore
	}
	redisStore := newsletteradapters.NewSubscriberRedis(rdb, newsletteradapters.DefaultSubscriberSetKey)
	return newsletteradapters.NewFallbackStore(redisStore, dbStore)
}
