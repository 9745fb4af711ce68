// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Health はサービスの死活確認用 /healthz エンドポイントを処理します。
// 依存サービスには触れず、プロセスが応答できることだけを返します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Check は依存サービスへの疎通を確認する関数です。
type Check func(ctx context.Context) error

// ReadinessHandler は /readyz で依存サービス（DB, Redis）の疎通を確認します。
type ReadinessHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewReadinessHandler は名前付きの疎通確認を受け取ってハンドラーを作成します。
func NewReadinessHandler(checks map[string]Check, timeout time.Duration) *ReadinessHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ReadinessHandler{checks: checks, timeout: timeout}
}

// Ready は全ての確認が成功すれば 200、1つでも失敗すれば 503 を返します。
func (h *ReadinessHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	body := gin.H{"status": "ok", "checks": results}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	c.JSON(status, body)
}
