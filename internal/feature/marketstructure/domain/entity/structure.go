// Package entity defines the domain models for the marketstructure feature.
package entity

import "time"

// SwingKind はスイングポイントが高値側か安値側かを表します。
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// Opposite は反対側の種類を返します。
func (k SwingKind) Opposite() SwingKind {
	if k == SwingHigh {
		return SwingLow
	}
	return SwingHigh
}

// Label はスイングポイントを直前の同種ポイントと比較した結果です。
// H と L はその種類で最初のポイントにだけ付きます。
type Label string

const (
	LabelH  Label = "H"
	LabelHH Label = "HH"
	LabelLH Label = "LH"
	LabelL  Label = "L"
	LabelLL Label = "LL"
	LabelHL Label = "HL"
)

// SwingPoint はラベル付きのスイングポイント（ピボット）です。
type SwingPoint struct {
	Time  time.Time // ピボットとなった足の時刻
	Price float64   // 高値ピボットなら高値、安値ピボットなら安値
	Kind  SwingKind
	Label Label
	Index int // 分析に使った（フィルタ後の）足系列でのインデックス
}

// EventKind は構造イベントの種類です。
type EventKind string

const (
	// EventBOS (Break of Structure) はトレンド継続を示します。
	EventBOS EventKind = "BOS"
	// EventMSB (Market Structure Break) はトレンド転換を示します。
	EventMSB EventKind = "MSB"
)

// Direction はイベントの方向です。
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
)

// StructuralEvent はスイングポイントの水準を終値が抜けたことを表します。
type StructuralEvent struct {
	Time         time.Time // 抜けた足の時刻
	Index        int       // 抜けた足のインデックス
	Kind         EventKind
	Direction    Direction
	TriggerLevel float64   // 抜かれた水準
	AnchorTime   time.Time // 水準を作ったスイングポイントの時刻
	AnchorLabel  Label     // 水準を作ったスイングポイントのラベル
}

// Trend はスイング構造から読み取れる方向です。
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Result は1回の構造分析の結果です。毎回入力から新しく計算されます。
type Result struct {
	SwingPoints []SwingPoint
	Events      []StructuralEvent
	CandleCount int // フィルタ後に分析対象となった足の数
	Depth       int // 使用したピボット確認幅。データ不足の場合は0
}

// HasRecentReversal は直近 window 本の足のいずれかでMSBが発生していればtrueを返します。
func (r Result) HasRecentReversal(window int) bool {
	return r.recentMSB(window, "")
}

// HasRecentReversalIn は指定方向のMSBに限定したHasRecentReversalです。
func (r Result) HasRecentReversalIn(window int, dir Direction) bool {
	return r.recentMSB(window, dir)
}

func (r Result) recentMSB(window int, dir Direction) bool {
	if window <= 0 {
		return false
	}
	threshold := r.CandleCount - window
	for _, e := range r.Events {
		if e.Kind != EventMSB || e.Index < threshold {
			continue
		}
		if dir == "" || e.Direction == dir {
			return true
		}
	}
	return false
}

// Trend は最新の高値ラベルと安値ラベルから方向を判定します。
// HH+HL なら強気、LH+LL なら弱気、それ以外は中立です。
func (r Result) Trend() Trend {
	var lastHigh, lastLow Label
	for i := len(r.SwingPoints) - 1; i >= 0 && (lastHigh == "" || lastLow == ""); i-- {
		sp := r.SwingPoints[i]
		if sp.Kind == SwingHigh && lastHigh == "" {
			lastHigh = sp.Label
		}
		if sp.Kind == SwingLow && lastLow == "" {
			lastLow = sp.Label
		}
	}
	switch {
	case lastHigh == LabelHH && lastLow == LabelHL:
		return TrendBullish
	case lastHigh == LabelLH && lastLow == LabelLL:
		return TrendBearish
	default:
		return TrendNeutral
	}
}
