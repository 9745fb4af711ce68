// Package usecase はローソク足データ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clickcoin_backend/internal/feature/candles/domain/entity"
)

const (
	// DefaultInterval はローソク足クエリのデフォルト時間間隔です。
	DefaultInterval = "1day"
	// DefaultOutputSize はデフォルトのローソク足返却件数です。
	DefaultOutputSize = 200
	// MaxOutputSize はローソク足の最大返却件数です。
	MaxOutputSize = 5000
)

// ErrUnsupportedInterval は保存していない時間足が指定された場合に返されます。
var ErrUnsupportedInterval = errors.New("unsupported interval")

// supportedIntervals は取り込み対象と同じ時間足です。
var supportedIntervals = map[string]bool{
	"1day":   true,
	"1week":  true,
	"1month": true,
}

// IsSupportedInterval は interval を保存・配信しているかを返します。
func IsSupportedInterval(interval string) bool {
	return supportedIntervals[interval]
}

// CandleRepository はローソク足データの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CandleRepository interface {
	// Find はデータベースからローソク足データを新しい順に検索します。
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

type candlesUsecase struct {
	candle CandleRepository
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
func NewCandlesUsecase(candle CandleRepository) *candlesUsecase {
	return &candlesUsecase{candle: candle}
}

// GetCandles はチャート表示用に古い順のローソク足を返します。
// interval が空なら日足、outputsize が範囲外なら DefaultOutputSize を使います。
func (cu *candlesUsecase) GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	if interval == "" {
		interval = DefaultInterval
	}
	if !IsSupportedInterval(interval) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
	}
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}

	cs, err := cu.candle.Find(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, fmt.Errorf("find candles for %s: %w", symbol, err)
	}
	return Ascending(cs), nil
}

// Ascending は新しい順に並んだローソク足を古い順に並べ替えた新しいスライスを返します。
// 入力スライスは変更しません。
func Ascending(candles []entity.Candle) []entity.Candle {
	out := make([]entity.Candle, len(candles))
	for i, c := range candles {
		out[len(candles)-1-i] = c
	}
	return out
}

// DropUnclosed は末尾の足の日付が loc における今日と一致する場合、その未確定の足を取り除きます。
// loc が nil の場合は UTC を使用します。入力は古い順に並んでいる必要があります。
func DropUnclosed(candles []entity.Candle, now time.Time, loc *time.Location) []entity.Candle {
	if len(candles) == 0 {
		return candles
	}
	if loc == nil {
		loc = time.UTC
	}
	last := candles[len(candles)-1].Time.In(loc)
	today := now.In(loc)
	if last.Year() == today.Year() && last.YearDay() == today.YearDay() {
		return candles[:len(candles)-1]
	}
	return candles
}
