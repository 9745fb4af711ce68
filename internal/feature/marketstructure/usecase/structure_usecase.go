// Package usecase はマーケットストラクチャー分析のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"time"

	candle "clickcoin_backend/internal/feature/candles/domain/entity"
	candlesuc "clickcoin_backend/internal/feature/candles/usecase"
	"clickcoin_backend/internal/feature/marketstructure/domain/entity"
	"clickcoin_backend/internal/feature/marketstructure/engine"
)

const (
	// DefaultOutputSize は分析に読み込む足の本数のデフォルトです。
	DefaultOutputSize = 365
	// DefaultReversalWindow は「直近の転換」とみなす足の本数のデフォルトです。
	DefaultReversalWindow = 2
)

// ErrInvalidDedupPolicy は dedup パラメータが不正な場合に返されます。
var ErrInvalidDedupPolicy = engine.ErrInvalidDedupPolicy

// CandleRepository はローソク足データの読み取りを抽象化します。
type CandleRepository interface {
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]candle.Candle, error)
}

// StructureQuery は構造分析のリクエストパラメータです。
type StructureQuery struct {
	Symbol     string
	Interval   string
	OutputSize int
	Depth      int    // 0 なら自動
	Dedup      string // "day" または "candle"
	Window     int
}

// Structure は1銘柄の構造分析結果です。
type Structure struct {
	Symbol   string
	Interval string
	Window   int
	Result   entity.Result
}

type structureUsecase struct {
	candles CandleRepository
	loc     *time.Location
	dedup   engine.DedupPolicy // dedup 未指定時に使う
	now     func() time.Time
}

// NewStructureUsecase はstructureUsecaseを生成します。
// loc は未確定の足の判定と日単位の重複排除に使う営業日のタイムゾーンです。
func NewStructureUsecase(candles CandleRepository, loc *time.Location) *structureUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &structureUsecase{candles: candles, loc: loc, dedup: engine.DedupPerDay, now: time.Now}
}

// WithDefaultDedup はクエリで dedup が指定されなかった場合のポリシーを設定します。
func (u *structureUsecase) WithDefaultDedup(p engine.DedupPolicy) *structureUsecase {
	u.dedup = p
	return u
}

// GetStructure はローソク足を読み込み、未確定の足を除いてから構造を分析します。
func (u *structureUsecase) GetStructure(ctx context.Context, q StructureQuery) (*Structure, error) {
	dedup := u.dedup
	if q.Dedup != "" {
		p, err := engine.ParseDedupPolicy(q.Dedup)
		if err != nil {
			return nil, err
		}
		dedup = p
	}

	interval := q.Interval
	if interval == "" {
		interval = candlesuc.DefaultInterval
	}
	outputsize := q.OutputSize
	if outputsize <= 0 || outputsize > candlesuc.MaxOutputSize {
		outputsize = DefaultOutputSize
	}
	window := q.Window
	if window <= 0 {
		window = DefaultReversalWindow
	}

	cs, err := u.candles.Find(ctx, q.Symbol, interval, outputsize)
	if err != nil {
		return nil, fmt.Errorf("load candles for %s: %w", q.Symbol, err)
	}

	series := candlesuc.DropUnclosed(candlesuc.Ascending(cs), u.now(), u.loc)

	cfg := engine.DefaultConfig()
	cfg.Depth = max(q.Depth, 0)
	cfg.Dedup = dedup
	cfg.Location = u.loc

	return &Structure{
		Symbol:   q.Symbol,
		Interval: interval,
		Window:   window,
		Result:   engine.Analyze(series, cfg),
	}, nil
}
