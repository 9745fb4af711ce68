package usecase

import (
	"context"
	"log/slog"
	"math"

	"clickcoin_backend/internal/feature/candles/domain/entity"
	"clickcoin_backend/internal/shared/ratelimiter"
)

// ingestOutputSize は1回のリクエストで取得する本数です。日足で約1年分。
const ingestOutputSize = 365

// IngestIntervals はデータ取得の対象となる時間足です。
var IngestIntervals = []string{"1day", "1week"}

// MarketRepository は価格データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// CandleStore は読み取りに加えて一括書き込みができるローソク足リポジトリです。
type CandleStore interface {
	CandleRepository
	// UpsertBatch はローソク足を (symbol, interval, time) 単位で挿入または更新します。
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// IngestSummary は IngestAll 1回分の結果です。
type IngestSummary struct {
	Stored   int      // 保存した足の本数
	Skipped  int      // 不正な値のため保存しなかった足の本数
	Failures []string // 失敗した "symbol/interval"
}

// IngestUsecase は外部APIからデータを取得し、データベースに永続化します。
type IngestUsecase struct {
	market      MarketRepository
	candle      CandleStore
	rateLimiter ratelimiter.Limiter
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, candle CandleStore, rateLimiter ratelimiter.Limiter) *IngestUsecase {
	return &IngestUsecase{market: market, candle: candle, rateLimiter: rateLimiter}
}

// ingestOne は1銘柄・1時間足を取得し、保存できる足だけを一括で upsert します。
// 戻り値は保存した本数と除外した本数です。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol, interval string) (stored, skipped int, err error) {
	cs, err := iu.market.GetTimeSeries(ctx, symbol, interval, ingestOutputSize)
	if err != nil {
		return 0, 0, err
	}

	valid := cs[:0:0]
	for _, c := range cs {
		if !storable(c) {
			skipped++
			continue
		}
		c.Symbol = symbol
		c.Interval = interval
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return 0, skipped, nil
	}
	if err := iu.candle.UpsertBatch(ctx, valid); err != nil {
		return 0, skipped, err
	}
	return len(valid), skipped, nil
}

// storable は価格が有限で High >= Low の足かどうかを返します。
func storable(c entity.Candle) bool {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c.High >= c.Low && !c.Time.IsZero()
}

// IngestAll は全銘柄 × IngestIntervals を順に取得して保存します。
// リクエストごとにレートリミッタで待機し、1件の失敗は記録して次に進みます。
// コンテキストがキャンセルされた場合はその時点までの結果とコンテキストのエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (IngestSummary, error) {
	var sum IngestSummary
	for _, s := range symbols {
		for _, interval := range IngestIntervals {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			if err := iu.rateLimiter.Wait(ctx); err != nil {
				return sum, err
			}

			stored, skipped, err := iu.ingestOne(ctx, s, interval)
			sum.Stored += stored
			sum.Skipped += skipped
			if err != nil {
				slog.Error("failed to ingest data", "symbol", s, "interval", interval, "error", err)
				sum.Failures = append(sum.Failures, s+"/"+interval)
				continue
			}
			if skipped > 0 {
				slog.Warn("skipped malformed candles", "symbol", s, "interval", interval, "count", skipped)
			}
		}
	}
	return sum, nil
}
