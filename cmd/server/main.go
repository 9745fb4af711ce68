package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"clickcoin_backend/internal/app/di"
	"clickcoin_backend/internal/app/router"
	symboladapters "clickcoin_backend/internal/feature/symbollist/adapters"
	symbolusecase "clickcoin_backend/internal/feature/symbollist/usecase"
	"clickcoin_backend/internal/platform/config"
	infradb "clickcoin_backend/internal/platform/db"
	"clickcoin_backend/internal/platform/logging"
	"clickcoin_backend/internal/platform/metrics"
	infraredis "clickcoin_backend/internal/platform/redis"
)

var configPath = flag.String("config", os.Getenv("CLICKCOIN_CONFIG"), "Path to configuration file (optional)")

func main() {
	flag.Parse()

	// .envを読み込む
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

	if _, err := logging.Setup(os.Stdout, "clickcoin-server", cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.Open(cfg.DB)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// 銘柄マスタが空なら初期データを投入
	if cfg.Server.SeedData {
		symbolUC := symbolusecase.NewSymbolUsecase(symboladapters.NewSymbolRepository(db))
		n, err := symbolUC.SeedDefaults(ctx)
		if err != nil {
			slog.Error("failed to seed symbols", "error", err)
			os.Exit(1)
		}
		if n > 0 {
			slog.Info("seeded default symbols", "count", n)
		}
	}

	handlers, err := di.NewHandlers(cfg, db, rdb, metrics.NewMetrics())
	if err != nil {
		slog.Error("failed to build handlers", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
