// Package handler はmarketstructureフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"clickcoin_backend/internal/api"
	"clickcoin_backend/internal/feature/marketstructure/domain/entity"
	"clickcoin_backend/internal/feature/marketstructure/transport/http/dto"
	"clickcoin_backend/internal/feature/marketstructure/usecase"
)

const dateLayout = "2006-01-02"

// StructureUsecase は構造分析のユースケースインターフェースです。
type StructureUsecase interface {
	GetStructure(ctx context.Context, q usecase.StructureQuery) (*usecase.Structure, error)
}

// StructureHandler はマーケットストラクチャーのHTTPリクエストを処理します。
type StructureHandler struct {
	uc StructureUsecase
}

// NewStructureHandler はStructureHandlerを生成します。
func NewStructureHandler(uc StructureUsecase) *StructureHandler {
	return &StructureHandler{uc: uc}
}

// GetStructureHandler は銘柄のスイングポイントとBOS/MSBイベントをJSONで返します。
//
// エンドポイント例:
// GET /structure/:code?interval=1day&outputsize=365&depth=0&dedup=day&window=2
func (h *StructureHandler) GetStructureHandler(c *gin.Context) {
	// 数値パラメータは不正値なら0として扱い、usecase側のデフォルトに任せる
	outputsize, _ := strconv.Atoi(c.DefaultQuery("outputsize", strconv.Itoa(usecase.DefaultOutputSize)))
	depth, _ := strconv.Atoi(c.DefaultQuery("depth", "0"))
	window, _ := strconv.Atoi(c.DefaultQuery("window", strconv.Itoa(usecase.DefaultReversalWindow)))

	s, err := h.uc.GetStructure(c.Request.Context(), usecase.StructureQuery{
		Symbol:     c.Param("code"),
		Interval:   c.DefaultQuery("interval", "1day"),
		OutputSize: outputsize,
		Depth:      depth,
		Dedup:      c.Query("dedup"),
		Window:     window,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidDedupPolicy) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, toResponse(s))
}

func toResponse(s *usecase.Structure) dto.StructureResponse {
	r := s.Result
	out := dto.StructureResponse{
		Symbol:              s.Symbol,
		Interval:            s.Interval,
		Depth:               r.Depth,
		CandleCount:         r.CandleCount,
		Trend:               string(r.Trend()),
		HasRecentMSB:        r.HasRecentReversal(s.Window),
		HasRecentBullishMSB: r.HasRecentReversalIn(s.Window, entity.Bullish),
		HasRecentBearishMSB: r.HasRecentReversalIn(s.Window, entity.Bearish),
		SwingPoints:         make([]dto.SwingPointResponse, 0, len(r.SwingPoints)),
		Events:              make([]dto.EventResponse, 0, len(r.Events)),
		LineData:            make([]dto.LinePoint, 0, len(r.SwingPoints)),
	}
	for _, sp := range r.SwingPoints {
		out.SwingPoints = append(out.SwingPoints, dto.SwingPointResponse{
			Time:  formatDate(sp.Time),
			Price: sp.Price,
			Kind:  string(sp.Kind),
			Label: string(sp.Label),
			Index: sp.Index,
		})
		out.LineData = append(out.LineData, dto.LinePoint{Time: formatDate(sp.Time), Value: sp.Price})
	}
	for _, e := range r.Events {
		out.Events = append(out.Events, dto.EventResponse{
			Time:         formatDate(e.Time),
			Kind:         string(e.Kind),
			Direction:    string(e.Direction),
			TriggerLevel: e.TriggerLevel,
			AnchorTime:   formatDate(e.AnchorTime),
			AnchorLabel:  string(e.AnchorLabel),
		})
	}
	return out
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
