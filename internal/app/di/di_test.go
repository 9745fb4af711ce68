package di

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	newsletteradapters "clickcoin_backend/internal/feature/newsletter/adapters"
	"clickcoin_backend/internal/feature/newsletter/domain/entity"
	"clickcoin_backend/internal/platform/config"
	"clickcoin_backend/internal/platform/db"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(config.DBConfig{
		Driver:         db.DriverSQLite,
		Path:           filepath.Join(t.TempDir(), "di.db"),
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	return gdb
}

func TestNewSubscriberStore_WithoutRedis(t *testing.T) {
	gdb := setupDB(t)

	store := NewSubscriberStore(nil, gdb)
	added, err := store.Add(t.Context(), entity.Subscriber{Email: "a@example.com", AppType: entity.DefaultAppType})
	require.NoError(t, err)
	assert.True(t, added)

	var count int64
	require.NoError(t, gdb.Model(&newsletteradapters.SubscriberModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewSubscriberStore_PrefersRedis(t *testing.T) {
	gdb := setupDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	store := NewSubscriberStore(rdb, gdb)
	_, err := store.Add(t.Context(), entity.Subscriber{Email: "b@example.com", AppType: entity.DefaultAppType})
	require.NoError(t, err)

	ok, err := mr.SIsMember(newsletteradapters.DefaultSubscriberSetKey, "b@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	var count int64
	require.NoError(t, gdb.Model(&newsletteradapters.SubscriberModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewHandlers_InvalidTimezone(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Market.Timezone = "Nowhere/Land"

	_, err = NewHandlers(cfg, setupDB(t), nil, nil)
	assert.Error(t, err)
}

func TestNewMarket(t *testing.T) {
	m := NewMarket(config.TwelveDataConfig{APIKey: "k", Timeout: time.Second})
	assert.NotNil(t, m)
}
