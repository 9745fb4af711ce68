// Package di はアプリケーションの各コンポーネントを組み立てるファクトリを提供します。
package di

import (
	"clickcoin_backend/internal/platform/config"
	"clickcoin_backend/internal/platform/externalapi/twelvedata"
	infrahttp "clickcoin_backend/internal/platform/http"
)

// NewMarket は HTTP クライアント付きの TwelveDataMarket を作成します。
func NewMarket(cfg config.TwelveDataConfig) *twelvedata.TwelveDataMarket {
	tdCfg := twelvedata.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
		Timezone: cfg.Timezone,
	}
	return twelvedata.NewTwelveDataMarket(tdCfg, infrahttp.NewHTTPClient(cfg.Timeout))
}
