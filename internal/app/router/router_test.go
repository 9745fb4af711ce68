package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clickcoin_backend/internal/app/di"
	"clickcoin_backend/internal/feature/symbollist/adapters"
	symbolusecase "clickcoin_backend/internal/feature/symbollist/usecase"
	"clickcoin_backend/internal/platform/config"
	"clickcoin_backend/internal/platform/db"
	"clickcoin_backend/internal/platform/metrics"
)

// newTestRouter は sqlite と Redis なしの構成でルーターを組み立てます。
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.DB.Driver = db.DriverSQLite
	cfg.DB.Path = filepath.Join(t.TempDir(), "router.db")
	cfg.DB.ConnectTimeout = time.Second

	gdb, err := db.Open(cfg.DB)
	require.NoError(t, err)

	_, err = symbolusecase.NewSymbolUsecase(adapters.NewSymbolRepository(gdb)).SeedDefaults(t.Context())
	require.NoError(t, err)

	h, err := di.NewHandlers(cfg, gdb, nil, metrics.NewMetrics())
	require.NoError(t, err)
	return NewRouter(h)
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodHead, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/symbols", "", http.StatusOK},
		{http.MethodGet, "/symbols?market=USD", "", http.StatusOK},
		{http.MethodGet, "/symbols/btc-usd", "", http.StatusOK},
		{http.MethodGet, "/symbols/PEPE-USD", "", http.StatusNotFound},
		{http.MethodGet, "/candles/BTC-USD", "", http.StatusOK},
		{http.MethodGet, "/structure/BTC-USD", "", http.StatusOK},
		{http.MethodGet, "/structure/BTC-USD?dedup=week", "", http.StatusBadRequest},
		{http.MethodGet, "/scan?type=rising", "", http.StatusOK},
		{http.MethodGet, "/scan?type=unknown", "", http.StatusBadRequest},
		{http.MethodPost, "/newsletter/subscribe", `{"email":"a@example.com"}`, http.StatusOK},
		{http.MethodPost, "/newsletter/subscribe", `{"email":"nope"}`, http.StatusBadRequest},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/login", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_SymbolsSeeded(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/symbols", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body)
	assert.Equal(t, "BTC-USD", body[0]["code"])
}
