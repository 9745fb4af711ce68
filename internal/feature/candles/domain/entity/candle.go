// Package entity defines the domain models for the candles feature.
package entity

import "time"

// Candle represents OHLCV (Open, High, Low, Close, Volume) candlestick data
// for a coin symbol at a specific time interval.
type Candle struct {
	Symbol   string    // Coin ticker symbol (e.g., "BTC-USD", "ETH-USD")
	Interval string    // Time interval (e.g., "1day", "1week")
	Time     time.Time // Timestamp for the start of this candle period
	Open     float64   // Opening price
	High     float64   // Highest price during this period
	Low      float64   // Lowest price during this period
	Close    float64   // Closing price
	Volume   float64   // Trading volume in base units (fractional for coins)
}

// IsFlat は始値と終値、高値と安値がそれぞれ一致する（値動きのない）足かどうかを返します。
// 取引のない時間帯に生成される足で、構造分析の前に除外します。
func (c Candle) IsFlat() bool {
	return c.Open == c.Close && c.High == c.Low
}
