// Package handler はscanフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clickcoin_backend/internal/api"
	"clickcoin_backend/internal/feature/scan/domain/entity"
	"clickcoin_backend/internal/feature/scan/transport/http/dto"
)

// ScanUsecase はスキャンのユースケースインターフェースです。
type ScanUsecase interface {
	Scan(ctx context.Context, scanType string) (*entity.ScanResult, error)
}

// ScanHandler はスキャンのHTTPリクエストを処理します。
type ScanHandler struct {
	uc ScanUsecase
}

// NewScanHandler はScanHandlerを生成します。
func NewScanHandler(uc ScanUsecase) *ScanHandler {
	return &ScanHandler{uc: uc}
}

// Scan は種別ごとのランキング上位の銘柄コードを返します。
//
// エンドポイント例:
// GET /scan?type=rising|volume|popular|msb
func (h *ScanHandler) Scan(c *gin.Context) {
	res, err := h.uc.Scan(c.Request.Context(), c.Query("type"))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, entity.ErrUnknownScanType) {
			status = http.StatusBadRequest
		}
		c.JSON(status, api.ErrorResponse{Error: err.Error()})
		return
	}

	symbols := res.Symbols
	if symbols == nil {
		symbols = []string{}
	}
	c.JSON(http.StatusOK, dto.ScanResponse{
		Type:      string(res.Type),
		Symbols:   symbols,
		Timestamp: res.Timestamp.UTC().Format(time.RFC3339),
		Cached:    res.Cached,
	})
}
