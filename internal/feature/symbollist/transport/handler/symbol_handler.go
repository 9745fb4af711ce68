// Package handler はsymbollistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clickcoin_backend/internal/api"
	"clickcoin_backend/internal/feature/symbollist/domain/entity"
	"clickcoin_backend/internal/feature/symbollist/transport/http/dto"
	"clickcoin_backend/internal/feature/symbollist/usecase"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context, market string) ([]entity.Symbol, error)
	GetSymbol(ctx context.Context, code string) (entity.Symbol, error)
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は GET /symbols?market=USD を処理し、有効な銘柄をJSON配列で返します。
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListActiveSymbols(c.Request.Context(), c.Query("market"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(symbols))
}

// Get は GET /symbols/:code を処理します。
func (h *SymbolHandler) Get(c *gin.Context) {
	s, err := h.uc.GetSymbol(c.Request.Context(), c.Param("code"))
	switch {
	case errors.Is(err, usecase.ErrSymbolNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusOK, dto.FromEntity(s))
	}
}
