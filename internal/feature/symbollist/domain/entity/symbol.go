// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol represents a coin ticker symbol in the system.
// It contains the ticker code used by the market data provider,
// a display name, the quote market, and display ordering.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// DefaultSymbols is the coin list inserted into an empty symbols table.
// SortKey follows the slice order.
func DefaultSymbols() []Symbol {
	coins := []struct{ code, name string }{
		{"BTC-USD", "Bitcoin"},
		{"ETH-USD", "Ethereum"},
		{"XRP-USD", "XRP"},
		{"SOL-USD", "Solana"},
		{"BNB-USD", "BNB"},
		{"DOGE-USD", "Dogecoin"},
		{"ADA-USD", "Cardano"},
		{"TRX-USD", "TRON"},
		{"AVAX-USD", "Avalanche"},
		{"LINK-USD", "Chainlink"},
		{"DOT-USD", "Polkadot"},
		{"LTC-USD", "Litecoin"},
		{"BCH-USD", "Bitcoin Cash"},
		{"XLM-USD", "Stellar"},
		{"ATOM-USD", "Cosmos"},
		{"ETC-USD", "Ethereum Classic"},
		{"UNI-USD", "Uniswap"},
		{"NEAR-USD", "NEAR Protocol"},
		{"SHIB-USD", "Shiba Inu"},
		{"HBAR-USD", "Hedera"},
	}
	out := make([]Symbol, len(coins))
	for i, c := range coins {
		out[i] = Symbol{Code: c.code, Name: c.name, Market: "USD", IsActive: true, SortKey: i + 1}
	}
	return out
}
