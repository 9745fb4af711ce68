// Package engine は日足などのローソク足系列からマーケットストラクチャー
// （スイングポイント、HH/LH/LL/HL ラベル、BOS/MSB イベント）を算出します。
// 入出力以外の状態を持たない純粋な計算で、並行に呼び出しても安全です。
package engine

import (
	"math"
	"sort"
	"strconv"

	candle "clickcoin_backend/internal/feature/candles/domain/entity"
	"clickcoin_backend/internal/feature/marketstructure/domain/entity"
)

// Pivot はラベル付け前の生のピボットです。
type Pivot struct {
	Index int
	Price float64
	Kind  entity.SwingKind
}

// Analyze はローソク足系列を分析して構造を返します。
// データ不足や不正な足だけの入力では空の結果を返し、エラーにはしません。
func Analyze(candles []candle.Candle, cfg Config) entity.Result {
	series := Prepare(candles)
	res := entity.Result{
		SwingPoints: []entity.SwingPoint{},
		Events:      []entity.StructuralEvent{},
		CandleCount: len(series),
	}
	if len(series) < cfg.minCandles() {
		return res
	}

	depth := cfg.depthFor(len(series))
	res.Depth = depth

	pivots := alternate(series, DetectPivots(series, depth))
	res.SwingPoints = labelPivots(series, pivots)
	res.Events = detectEvents(series, res.SwingPoints, cfg)
	return res
}

// Prepare は値動きのない足と不正な足を除外し、時刻順に安定ソートしたコピーを返します。
func Prepare(candles []candle.Candle) []candle.Candle {
	out := make([]candle.Candle, 0, len(candles))
	for _, c := range candles {
		if usable(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func usable(c candle.Candle) bool {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if c.High < c.Low {
		return false
	}
	return !c.IsFlat()
}

// DetectPivots は左右 depth 本より厳密に高い高値・厳密に低い安値を持つ足を返します。
// 両方を満たす足は高値ピボットとして扱います。
func DetectPivots(candles []candle.Candle, depth int) []Pivot {
	if depth < 1 {
		depth = 1
	}
	var pivots []Pivot
	for i := depth; i < len(candles)-depth; i++ {
		isHigh, isLow := true, true
		for j := 1; j <= depth && (isHigh || isLow); j++ {
			prev, next := candles[i-j], candles[i+j]
			if prev.High >= candles[i].High || next.High >= candles[i].High {
				isHigh = false
			}
			if prev.Low <= candles[i].Low || next.Low <= candles[i].Low {
				isLow = false
			}
		}
		switch {
		case isHigh:
			pivots = append(pivots, Pivot{Index: i, Price: candles[i].High, Kind: entity.SwingHigh})
		case isLow:
			pivots = append(pivots, Pivot{Index: i, Price: candles[i].Low, Kind: entity.SwingLow})
		}
	}
	return pivots
}

// alternate は高値と安値が交互に並ぶようにピボット列を整えます。
// 同種が連続した場合、より極端なら置き換え、そうでなければ間の反対側の極値を挿入します。
func alternate(candles []candle.Candle, raw []Pivot) []Pivot {
	out := make([]Pivot, 0, len(raw))
	for _, p := range raw {
		if len(out) == 0 || out[len(out)-1].Kind != p.Kind {
			out = append(out, p)
			continue
		}
		last := &out[len(out)-1]
		if moreExtreme(p, *last) {
			*last = p
			continue
		}
		if opp, ok := extremeBetween(candles, last.Index, p.Index, p.Kind.Opposite()); ok {
			out = append(out, opp, p)
		}
	}
	return out
}

func moreExtreme(p, than Pivot) bool {
	if p.Kind == entity.SwingHigh {
		return p.Price > than.Price
	}
	return p.Price < than.Price
}

// extremeBetween は (from, to) の範囲で最も高い高値または最も安い安値を探します。同値は先勝ち。
func extremeBetween(candles []candle.Candle, from, to int, kind entity.SwingKind) (Pivot, bool) {
	found := false
	var best Pivot
	for i := from + 1; i < to; i++ {
		price := candles[i].Low
		if kind == entity.SwingHigh {
			price = candles[i].High
		}
		cand := Pivot{Index: i, Price: price, Kind: kind}
		if !found || moreExtreme(cand, best) {
			best, found = cand, true
		}
	}
	return best, found
}

func labelPivots(candles []candle.Candle, pivots []Pivot) []entity.SwingPoint {
	points := make([]entity.SwingPoint, 0, len(pivots))
	var prevHigh, prevLow *float64
	for _, p := range pivots {
		sp := entity.SwingPoint{
			Time:  candles[p.Index].Time,
			Price: p.Price,
			Kind:  p.Kind,
			Index: p.Index,
		}
		price := p.Price
		if p.Kind == entity.SwingHigh {
			switch {
			case prevHigh == nil:
				sp.Label = entity.LabelH
			case price > *prevHigh:
				sp.Label = entity.LabelHH
			default:
				sp.Label = entity.LabelLH
			}
			prevHigh = &price
		} else {
			switch {
			case prevLow == nil:
				sp.Label = entity.LabelL
			case price < *prevLow:
				sp.Label = entity.LabelLL
			default:
				sp.Label = entity.LabelHL
			}
			prevLow = &price
		}
		points = append(points, sp)
	}
	return points
}

// level は終値による突破を待っているスイングポイントの水準です。
type level struct {
	armed bool
	point entity.SwingPoint
}

type trigger struct {
	lvl   *level
	kind  entity.EventKind
	dir   entity.Direction
	above bool
}

func detectEvents(candles []candle.Candle, swings []entity.SwingPoint, cfg Config) []entity.StructuralEvent {
	var hh, ll, lh, hl level
	armFor := map[entity.Label]*level{
		entity.LabelHH: &hh,
		entity.LabelLL: &ll,
		entity.LabelLH: &lh,
		entity.LabelHL: &hl,
	}
	// 判定順: 継続(BOS)を転換(MSB)より優先する
	triggers := []trigger{
		{lvl: &hh, kind: entity.EventBOS, dir: entity.Bullish, above: true},
		{lvl: &ll, kind: entity.EventBOS, dir: entity.Bearish, above: false},
		{lvl: &lh, kind: entity.EventMSB, dir: entity.Bullish, above: true},
		{lvl: &hl, kind: entity.EventMSB, dir: entity.Bearish, above: false},
	}

	byIndex := make(map[int]entity.SwingPoint, len(swings))
	for _, sp := range swings {
		byIndex[sp.Index] = sp
	}

	loc := cfg.location()
	fired := make(map[string]struct{})
	events := []entity.StructuralEvent{}

	for i, c := range candles {
		key := strconv.Itoa(i)
		if cfg.Dedup == DedupPerDay {
			key = c.Time.In(loc).Format("2006-01-02")
		}
		if _, done := fired[key]; !done {
			for _, t := range triggers {
				if !t.lvl.armed {
					continue
				}
				lv := t.lvl.point.Price
				if (t.above && c.Close > lv) || (!t.above && c.Close < lv) {
					events = append(events, entity.StructuralEvent{
						Time:         c.Time,
						Index:        i,
						Kind:         t.kind,
						Direction:    t.dir,
						TriggerLevel: lv,
						AnchorTime:   t.lvl.point.Time,
						AnchorLabel:  t.lvl.point.Label,
					})
					t.lvl.armed = false
					fired[key] = struct{}{}
					break
				}
			}
		}

		if sp, ok := byIndex[i]; ok {
			if lvl, ok := armFor[sp.Label]; ok {
				lvl.armed = true
				lvl.point = sp
			}
		}
	}
	return events
}
