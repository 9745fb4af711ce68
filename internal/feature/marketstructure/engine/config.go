package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultMinCandles は分析に必要な有効な足の最小本数です。
	DefaultMinCandles = 20

	shortSeriesDepth    = 3
	longSeriesDepth     = 10
	longSeriesThreshold = 50
)

// DedupPolicy は同一期間内で許可するイベント数の単位を決めます。
type DedupPolicy int

const (
	// DedupPerDay は設定されたタイムゾーンの暦日ごとに1イベントまで許可します。
	DedupPerDay DedupPolicy = iota
	// DedupPerCandle は足ごとに1イベントまで許可します。
	DedupPerCandle
)

// ErrInvalidDedupPolicy は未知の重複排除ポリシー名が指定された場合に返されます。
var ErrInvalidDedupPolicy = errors.New("invalid dedup policy")

// ParseDedupPolicy は "day" / "candle" をDedupPolicyに変換します。空文字はDedupPerDayです。
func ParseDedupPolicy(s string) (DedupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day":
		return DedupPerDay, nil
	case "candle":
		return DedupPerCandle, nil
	default:
		return DedupPerDay, fmt.Errorf("%w: %q", ErrInvalidDedupPolicy, s)
	}
}

func (p DedupPolicy) String() string {
	if p == DedupPerCandle {
		return "candle"
	}
	return "day"
}

// Config は構造分析のパラメータです。
type Config struct {
	// Depth はピボット確認に使う左右の足の本数。0以下なら系列長から自動で決めます。
	Depth int
	// MinCandles 未満の有効な足しかない場合は空の結果を返します。0以下ならDefaultMinCandles。
	MinCandles int
	Dedup      DedupPolicy
	// Location は DedupPerDay の日付境界に使うタイムゾーン。nilならUTC。
	Location *time.Location
}

// DefaultConfig は自動深さ・1日1イベントの設定を返します。
func DefaultConfig() Config {
	return Config{
		Depth:      0,
		MinCandles: DefaultMinCandles,
		Dedup:      DedupPerDay,
		Location:   time.UTC,
	}
}

// AdaptiveDepth は有効な足の本数 n に応じたピボット確認幅を返します。
func AdaptiveDepth(n int) int {
	if n < longSeriesThreshold {
		return shortSeriesDepth
	}
	return longSeriesDepth
}

func (c Config) minCandles() int {
	if c.MinCandles <= 0 {
		return DefaultMinCandles
	}
	return c.MinCandles
}

func (c Config) depthFor(n int) int {
	if c.Depth > 0 {
		return c.Depth
	}
	return AdaptiveDepth(n)
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
