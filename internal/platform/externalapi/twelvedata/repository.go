package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"clickcoin_backend/internal/feature/candles/domain/entity"
	"clickcoin_backend/internal/feature/candles/usecase"
	"clickcoin_backend/internal/platform/externalapi/twelvedata/dto"
)

// ErrRateLimited はAPIのクレジット上限に達したときに APIError と一致します。
var ErrRateLimited = errors.New("twelvedata: rate limited")

// APIError はTwelve DataがHTTPステータスまたはレスポンス本文で返したエラーです。
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("twelvedata: code %d", e.Code)
	}
	return fmt.Sprintf("twelvedata: code %d: %s", e.Code, e.Message)
}

// Is により errors.Is(err, ErrRateLimited) で429を判定できます。
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.Code == http.StatusTooManyRequests
}

// TwelveDataMarket はTwelve Data外部APIからコインの価格データを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg    Config
	loc    *time.Location
	client *http.Client
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
// 未知のタイムゾーンが指定された場合はUTCを使います。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	cfg = cfg.withDefaults()
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Warn("unknown twelvedata timezone, falling back to UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
		cfg.Timezone = DefaultTimezone
	}
	return &TwelveDataMarket{cfg: cfg, loc: loc, client: client}
}

// ProviderSymbol は "BTC-USD" 形式の銘柄コードをTwelve Dataの "BTC/USD" 形式に変換します。
func ProviderSymbol(code string) string {
	return strings.ReplaceAll(code, "-", "/")
}

// GetTimeSeries はTwelve Data APIから時系列データを取得し、新しい順のローソク足として返します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", ProviderSymbol(symbol))
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputsize))
	q.Set("timezone", t.cfg.Timezone)
	q.Set("apikey", t.cfg.APIKey)

	u := fmt.Sprintf("%s/time_series?%s", strings.TrimRight(t.cfg.BaseURL, "/"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	var body dto.TimeSeriesResponse
	decodeErr := json.NewDecoder(res.Body).Decode(&body)

	// エラー時も本文にmessageが入っていることが多い
	if res.StatusCode >= 400 {
		return nil, &APIError{Code: res.StatusCode, Message: body.Message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode time_series %s: %w", symbol, decodeErr)
	}
	if body.Status == "error" {
		return nil, &APIError{Code: body.Code, Message: body.Message}
	}

	candles := make([]entity.Candle, 0, len(body.Values))
	for _, v := range body.Values {
		c, err := t.toCandle(v)
		if err != nil {
			return nil, err
		}
		c.Symbol = symbol
		c.Interval = interval
		candles = append(candles, c)
	}
	return candles, nil
}

func (t *TwelveDataMarket) toCandle(v dto.TimeSeriesValue) (entity.Candle, error) {
	tm, err := time.ParseInLocation("2006-01-02 15:04:05", v.Datetime, t.loc)
	if err != nil {
		tm, err = time.ParseInLocation("2006-01-02", v.Datetime, t.loc)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}

	var prices [4]float64
	for i, f := range []struct{ name, raw string }{
		{"open", v.Open}, {"high", v.High}, {"low", v.Low}, {"close", v.Close},
	} {
		p, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse %s %q: %w", f.name, f.raw, err)
		}
		prices[i] = p
	}

	// 暗号資産の一部ペアは出来高を返さない、または小数で返す
	var volume float64
	if v.Volume != "" {
		f, err := strconv.ParseFloat(v.Volume, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
		volume = f
	}

	return entity.Candle{
		Time:   tm.UTC(),
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, nil
}
