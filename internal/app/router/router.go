// Package router は HTTP ルーティングを定義します。
package router

import (
	"github.com/gin-gonic/gin"

	"clickcoin_backend/internal/app/di"
	platformhandler "clickcoin_backend/internal/platform/http/handler"
	"clickcoin_backend/internal/platform/logging"
)

// NewRouter はミドルウェアとルートを登録した gin.Engine を返します。
func NewRouter(h *di.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.OPTIONS("/healthz", platformhandler.Health)
	if h.Ready != nil {
		r.GET("/readyz", h.Ready.Ready)
	}

	// 認証なしの公開 API
	r.GET("/symbols", h.Symbols.List)
	r.GET("/symbols/:code", h.Symbols.Get)
	r.GET("/candles/:code", h.Candles.GetCandlesHandler)
	r.GET("/structure/:code", h.Structure.GetStructureHandler)
	r.GET("/scan", h.Scan.Scan)
	r.POST("/newsletter/subscribe", h.Newsletter.Subscribe)

	return r
}
