// Package dto は candles API のレスポンス DTO を定義します。
package dto

// CandlesResponse は GET /candles/:code のレスポンスです。Candles は古い順です。
type CandlesResponse struct {
	Symbol   string           `json:"symbol"`
	Interval string           `json:"interval"`
	Candles  []CandleResponse `json:"candles"`
}

// CandleResponse はチャート用の1本分の足です。
type CandleResponse struct {
	Time   string  `json:"time"` // UTC の日付 (YYYY-MM-DD)
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}
