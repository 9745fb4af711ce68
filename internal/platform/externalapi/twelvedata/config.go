// Package twelvedata provides a client for the Twelve Data market data API.
package twelvedata

import (
	"time"
)

const (
	// DefaultBaseURL is the public Twelve Data endpoint.
	DefaultBaseURL = "https://api.twelvedata.com"
	// DefaultTimezone makes daily candles roll over at 00:00 UTC.
	DefaultTimezone = "UTC"
)

// Config holds configuration for the Twelve Data API client.
type Config struct {
	APIKey   string        // API key for authentication
	BaseURL  string        // Base URL for the API
	Timeout  time.Duration // HTTP request timeout
	Timezone string        // IANA timezone the API uses for candle timestamps
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	return c
}
