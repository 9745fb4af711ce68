// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clickcoin_backend/internal/api"
	"clickcoin_backend/internal/feature/candles/domain/entity"
	"clickcoin_backend/internal/feature/candles/transport/http/dto"
	"clickcoin_backend/internal/feature/candles/usecase"
)

// CandlesUsecase はローソク足データ操作のユースケースインターフェースを定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler はCandlesHandlerを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler はチャート表示用のローソク足を古い順に返します。
//
// エンドポイント例:
// GET /candles/BTC-USD?interval=1day&outputsize=200
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")
	interval := c.DefaultQuery("interval", usecase.DefaultInterval)
	// 不正値は0として渡し、usecase側のデフォルトに任せる
	outputsize, _ := strconv.Atoi(c.Query("outputsize"))

	candles, err := h.uc.GetCandles(c.Request.Context(), code, interval, outputsize)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, usecase.ErrUnsupportedInterval) {
			status = http.StatusBadRequest
		}
		c.JSON(status, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := dto.CandlesResponse{
		Symbol:   code,
		Interval: interval,
		Candles:  make([]dto.CandleResponse, 0, len(candles)),
	}
	for _, x := range candles {
		out.Candles = append(out.Candles, dto.CandleResponse{
			Time:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}
	c.JSON(http.StatusOK, out)
}
