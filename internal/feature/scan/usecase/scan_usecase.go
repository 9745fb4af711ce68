// Package usecase はコインのスキャン（ランキング）ロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	candle "clickcoin_backend/internal/feature/candles/domain/entity"
	candlesuc "clickcoin_backend/internal/feature/candles/usecase"
	"clickcoin_backend/internal/feature/marketstructure/engine"
	"clickcoin_backend/internal/feature/scan/domain/entity"
)

// CacheKeyPrefix はスキャン結果のキャッシュキーの接頭辞です。種別名を後ろに付けます。
const CacheKeyPrefix = "coin_scan_results_"

// SymbolLister はスキャン対象の銘柄コードを返します。
type SymbolLister interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// CandleRepository はローソク足データの読み取りを抽象化します。
type CandleRepository interface {
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]candle.Candle, error)
}

// ResultCache はスキャン結果のキャッシュです。ミス時は ok=false を返します。
type ResultCache interface {
	Get(ctx context.Context, key string) (res *entity.ScanResult, ok bool, err error)
	Set(ctx context.Context, key string, res *entity.ScanResult, ttl time.Duration) error
}

// Recorder はスキャンのメトリクスを記録します。
type Recorder interface {
	ObserveScan(scanType string, d time.Duration)
	AddScanned(n int)
	CacheLookup(scanType string, hit bool)
}

// Config はスキャンの動作パラメータです。
type Config struct {
	ChunkSize      int           // 1バッチで同時に取得する銘柄数
	BatchDelay     time.Duration // バッチ間の待機時間
	TTL            time.Duration // 結果のキャッシュ期間
	TopN           int
	OutputSize     int // 1銘柄あたり読み込む日足の本数
	ReversalWindow int // HasMSB 判定に使う直近の足の本数
	Location       *time.Location
}

// DefaultConfig はデフォルトのスキャン設定を返します。
func DefaultConfig() Config {
	return Config{
		ChunkSize:      12,
		BatchDelay:     50 * time.Millisecond,
		TTL:            12 * time.Hour,
		TopN:           10,
		OutputSize:     365,
		ReversalWindow: 2,
		Location:       time.UTC,
	}
}

type scanUsecase struct {
	symbols SymbolLister
	candles CandleRepository
	cache   ResultCache
	metrics Recorder
	cfg     Config
	now     func() time.Time
}

// NewScanUsecase はscanUsecaseを生成します。cache と metrics は nil でも構いません。
func NewScanUsecase(symbols SymbolLister, candles CandleRepository, cache ResultCache, metrics Recorder, cfg Config) *scanUsecase {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.OutputSize <= 0 {
		cfg.OutputSize = def.OutputSize
	}
	if cfg.ReversalWindow <= 0 {
		cfg.ReversalWindow = def.ReversalWindow
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &scanUsecase{
		symbols: symbols,
		candles: candles,
		cache:   cache,
		metrics: metrics,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Scan は指定種別のランキング上位の銘柄コードを返します。
func (u *scanUsecase) Scan(ctx context.Context, scanType string) (*entity.ScanResult, error) {
	typ, err := entity.ParseScanType(scanType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, scanType)
	}
	key := CacheKeyPrefix + string(typ)

	if cached, ok := u.lookup(ctx, key, typ); ok {
		return cached, nil
	}

	start := time.Now()
	defer func() { u.metrics.ObserveScan(string(typ), time.Since(start)) }()

	codes, err := u.symbols.ListActiveCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}

	items, err := u.collect(ctx, codes)
	if err != nil {
		return nil, err
	}
	u.metrics.AddScanned(len(items))

	res := &entity.ScanResult{
		Type:      typ,
		Symbols:   Rank(items, typ, u.cfg.TopN),
		Timestamp: u.now().UTC(),
	}

	if u.cache != nil {
		if err := u.cache.Set(ctx, key, res, u.cfg.TTL); err != nil {
			slog.Warn("failed to cache scan result", "type", typ, "error", err)
		}
	}
	return res, nil
}

func (u *scanUsecase) lookup(ctx context.Context, key string, typ entity.ScanType) (*entity.ScanResult, bool) {
	if u.cache == nil {
		return nil, false
	}
	res, ok, err := u.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("failed to read scan cache", "type", typ, "error", err)
	}
	u.metrics.CacheLookup(string(typ), ok && err == nil)
	if !ok || err != nil {
		return nil, false
	}
	res.Cached = true
	return res, true
}

// collect は ChunkSize 件ずつ並行に日足を取得して集計します。
// 個別銘柄の失敗はログに残してスキップします。
func (u *scanUsecase) collect(ctx context.Context, codes []string) ([]entity.ScanItem, error) {
	slots := make([]*entity.ScanItem, len(codes))

	for from := 0; from < len(codes); from += u.cfg.ChunkSize {
		if from > 0 && u.cfg.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(u.cfg.BatchDelay):
			}
		}
		to := min(from+u.cfg.ChunkSize, len(codes))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(u.cfg.ChunkSize)
		for i := from; i < to; i++ {
			g.Go(func() error {
				item, ok := u.summarize(gctx, codes[i])
				if ok {
					slots[i] = &item
				}
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	items := make([]entity.ScanItem, 0, len(codes))
	for _, it := range slots {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items, nil
}

func (u *scanUsecase) summarize(ctx context.Context, code string) (entity.ScanItem, bool) {
	cs, err := u.candles.Find(ctx, code, candlesuc.DefaultInterval, u.cfg.OutputSize)
	if err != nil {
		slog.Warn("scan: failed to load candles", "symbol", code, "error", err)
		return entity.ScanItem{}, false
	}
	series := candlesuc.DropUnclosed(candlesuc.Ascending(cs), u.now(), u.cfg.Location)
	if len(series) < 2 {
		return entity.ScanItem{}, false
	}

	last, prev := series[len(series)-1], series[len(series)-2]
	item := entity.ScanItem{
		Symbol: code,
		Volume: last.Volume,
		Value:  last.Close * last.Volume,
	}
	if prev.Close != 0 {
		item.ChangePercent = (last.Close - prev.Close) / prev.Close * 100
	}

	cfg := engine.DefaultConfig()
	cfg.Location = u.cfg.Location
	item.HasMSB = engine.Analyze(series, cfg).HasRecentReversal(u.cfg.ReversalWindow)
	return item, true
}

// Rank は種別ごとの基準で降順に並べ、上位 topN 件の銘柄コードを返します。
// 同値の場合は入力順を保ちます。
func Rank(items []entity.ScanItem, typ entity.ScanType, topN int) []string {
	sorted := make([]entity.ScanItem, 0, len(items))
	for _, it := range items {
		if typ == entity.ScanMSB && !it.HasMSB {
			continue
		}
		sorted = append(sorted, it)
	}

	var score func(entity.ScanItem) float64
	switch typ {
	case entity.ScanVolume:
		score = func(it entity.ScanItem) float64 { return it.Volume }
	case entity.ScanPopular, entity.ScanMSB:
		score = func(it entity.ScanItem) float64 { return it.Value }
	default:
		score = func(it entity.ScanItem) float64 { return it.ChangePercent }
	}
	sort.SliceStable(sorted, func(i, j int) bool { return score(sorted[i]) > score(sorted[j]) })

	if topN > 0 && len(sorted) > topN {
		sorted = sorted[:topN]
	}
	out := make([]string, len(sorted))
	for i, it := range sorted {
		out[i] = it.Symbol
	}
	return out
}

type nopRecorder struct{}

func (nopRecorder) ObserveScan(string, time.Duration) {}
func (nopRecorder) AddScanned(int)                    {}
func (nopRecorder) CacheLookup(string, bool)          {}
