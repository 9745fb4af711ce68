package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	candleadapters "clickcoin_backend/internal/feature/candles/adapters"
	candlehandler "clickcoin_backend/internal/feature/candles/transport/handler"
	candlesusecase "clickcoin_backend/internal/feature/candles/usecase"
	"clickcoin_backend/internal/feature/marketstructure/engine"
	structurehandler "clickcoin_backend/internal/feature/marketstructure/transport/handler"
	structureusecase "clickcoin_backend/internal/feature/marketstructure/usecase"
	newsletterhandler "clickcoin_backend/internal/feature/newsletter/transport/handler"
	newsletterusecase "clickcoin_backend/internal/feature/newsletter/usecase"
	scanhandler "clickcoin_backend/internal/feature/scan/transport/handler"
	scanusecase "clickcoin_backend/internal/feature/scan/usecase"
	symboladapters "clickcoin_backend/internal/feature/symbollist/adapters"
	symbolhandler "clickcoin_backend/internal/feature/symbollist/transport/handler"
	symbolusecase "clickcoin_backend/internal/feature/symbollist/usecase"
	"clickcoin_backend/internal/platform/cache"
	"clickcoin_backend/internal/platform/config"
	platformhandler "clickcoin_backend/internal/platform/http/handler"
	"clickcoin_backend/internal/platform/metrics"
)

// Handlers はルーターに登録する HTTP ハンドラー一式です。
type Handlers struct {
	Candles    *candlehandler.CandlesHandler
	Symbols    *symbolhandler.SymbolHandler
	Structure  *structurehandler.StructureHandler
	Scan       *scanhandler.ScanHandler
	Newsletter *newsletterhandler.NewsletterHandler
	Ready      *platformhandler.ReadinessHandler
	Metrics    *metrics.Metrics
}

// NewHandlers はリポジトリ・ユースケース・ハンドラーを組み立てます。
// rdb が nil の場合はキャッシュなしで動作します。
func NewHandlers(cfg *config.Config, db *gorm.DB, rdb *redis.Client, m *metrics.Metrics) (*Handlers, error) {
	loc, err := cfg.Market.Location()
	if err != nil {
		return nil, err
	}
	dedup, err := engine.ParseDedupPolicy(cfg.Structure.Dedup)
	if err != nil {
		return nil, fmt.Errorf("structure.dedup: %w", err)
	}

	// Repository
	symbolRepo := symboladapters.NewSymbolRepository(db)
	candleRepo := NewCandleStore(cfg, db, rdb, loc)

	// Usecase
	symbolUC := symbolusecase.NewSymbolUsecase(symbolRepo)
	candlesUC := candlesusecase.NewCandlesUsecase(candleRepo)
	structureUC := structureusecase.NewStructureUsecase(candleRepo, loc).WithDefaultDedup(dedup)

	// nil の具象型をインターフェースに入れない
	var scanCache scanusecase.ResultCache
	if rdb != nil {
		scanCache = cache.NewScanResultCache(rdb)
	}
	var recorder scanusecase.Recorder
	if m != nil {
		recorder = m
	}
	scanUC := scanusecase.NewScanUsecase(symbolUC, candleRepo, scanCache, recorder, scanusecase.Config{
		ChunkSize:      cfg.Scan.ChunkSize,
		BatchDelay:     cfg.Scan.BatchDelay,
		TTL:            cfg.Scan.TTL,
		TopN:           cfg.Scan.TopN,
		OutputSize:     cfg.Scan.OutputSize,
		ReversalWindow: cfg.Scan.ReversalWindow,
		Location:       loc,
	})
	newsletterUC := newsletterusecase.NewNewsletterUsecase(NewSubscriberStore(rdb, db))

	checks := map[string]platformhandler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// Handler
	return &Handlers{
		Candles:    candlehandler.NewCandlesHandler(candlesUC),
		Symbols:    symbolhandler.NewSymbolHandler(symbolUC),
		Structure:  structurehandler.NewStructureHandler(structureUC),
		Scan:       scanhandler.NewScanHandler(scanUC),
		Newsletter: newsletterhandler.NewNewsletterHandler(newsletterUC),
		Ready:      platformhandler.NewReadinessHandler(checks, 0),
		Metrics:    m,
	}, nil
}

// NewCandleStore は gorm のローソク足リポジトリを Redis キャッシュでラップします。
// キャッシュは日足確定時刻（cache.rollover_hour, loc 基準）に失効します。
func NewCandleStore(cfg *config.Config, db *gorm.DB, rdb *redis.Client, loc *time.Location) *cache.CachingCandleRepository {
	return cache.NewCachingCandleRepository(rdb, 24*time.Hour, candleadapters.NewCandleRepository(db), cfg.Cache.Namespace).
		ExpireAtRollover(cfg.Cache.RolloverHour, loc)
}
