package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"clickcoin_backend/internal/app/di"
	candlesusecase "clickcoin_backend/internal/feature/candles/usecase"
	symboladapters "clickcoin_backend/internal/feature/symbollist/adapters"
	symbolusecase "clickcoin_backend/internal/feature/symbollist/usecase"
	"clickcoin_backend/internal/platform/config"
	infradb "clickcoin_backend/internal/platform/db"
	"clickcoin_backend/internal/platform/logging"
	infraredis "clickcoin_backend/internal/platform/redis"
	"clickcoin_backend/internal/shared/ratelimiter"
)

var configPath = flag.String("config", os.Getenv("CLICKCOIN_CONFIG"), "Path to configuration file (optional)")

func main() {
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if _, err := logging.Setup(os.Stdout, "clickcoin-ingest", cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Ingest.Timeout)
	defer cancel()

	db, err := infradb.Open(cfg.DB)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// 書き込み時にキャッシュを無効化するため Redis があれば使う
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err == nil {
		rdb = tmp
		defer func() { _ = rdb.Close() }()
	}

	loc, err := cfg.Market.Location()
	if err != nil {
		slog.Error("invalid market timezone", "error", err)
		os.Exit(1)
	}

	symbolUC := symbolusecase.NewSymbolUsecase(symboladapters.NewSymbolRepository(db))
	if _, err := symbolUC.SeedDefaults(ctx); err != nil {
		slog.Error("failed to seed symbols", "error", err)
		os.Exit(1)
	}
	symbols, err := symbolUC.ListActiveCodes(ctx)
	if err != nil {
		slog.Error("failed to load symbols", "error", err)
		os.Exit(1)
	}

	uc := candlesusecase.NewIngestUsecase(
		di.NewMarket(cfg.TwelveData),
		di.NewCandleStore(cfg, db, rdb, loc),
		ratelimiter.NewRateLimiter(cfg.Ingest.RateLimit, cfg.Ingest.RateInterval),
	)

	sum, err := uc.IngestAll(ctx, symbols)
	if err != nil {
		slog.Error("ingest interrupted", "error", err, "stored", sum.Stored)
		os.Exit(1)
	}
	slog.Info("ingest ok", "symbols", len(symbols), "stored", sum.Stored, "skipped", sum.Skipped, "failures", sum.Failures)
}
