// Package handler はnewsletterフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"clickcoin_backend/internal/api"
	"clickcoin_backend/internal/feature/newsletter/transport/http/dto"
	"clickcoin_backend/internal/feature/newsletter/usecase"
)

// NewsletterUsecase はニュースレター購読のユースケースインターフェースです。
type NewsletterUsecase interface {
	Subscribe(ctx context.Context, email string) (alreadySubscribed bool, err error)
}

// NewsletterHandler はニュースレター購読のHTTPリクエストを処理します。
type NewsletterHandler struct {
	uc NewsletterUsecase
}

// NewNewsletterHandler はNewsletterHandlerを生成します。
func NewNewsletterHandler(uc NewsletterUsecase) *NewsletterHandler {
	return &NewsletterHandler{uc: uc}
}

// Subscribe はメールアドレスを購読者として登録します。
//
// エンドポイント例:
// POST /newsletter/subscribe {"email":"user@example.com"}
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	already, err := h.uc.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("newsletter subscribe failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, dto.SubscribeResponse{Success: true, AlreadySubscribed: already})
}
