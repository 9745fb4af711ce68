package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"clickcoin_backend/internal/feature/symbollist/domain/entity"
	"clickcoin_backend/internal/feature/symbollist/usecase"
)

type fakeSymbolUsecase struct {
	symbols   []entity.Symbol
	err       error
	gotMarket string
	gotCode   string
}

func (f *fakeSymbolUsecase) ListActiveSymbols(ctx context.Context, market string) ([]entity.Symbol, error) {
	f.gotMarket = market
	return f.symbols, f.err
}

func (f *fakeSymbolUsecase) GetSymbol(ctx context.Context, code string) (entity.Symbol, error) {
	f.gotCode = code
	if f.err != nil {
		return entity.Symbol{}, f.err
	}
	if len(f.symbols) == 0 {
		return entity.Symbol{}, usecase.ErrSymbolNotFound
	}
	return f.symbols[0], nil
}

func newSymbolRouter(uc SymbolUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSymbolHandler(uc)
	r.GET("/symbols", h.List)
	r.GET("/symbols/:code", h.Get)
	return r
}

func serve(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSymbolHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		uc         *fakeSymbolUsecase
		target     string
		wantStatus int
		wantBody   string
		wantMarket string
	}{
		{
			name: "symbols with market field",
			uc: &fakeSymbolUsecase{symbols: []entity.Symbol{
				{ID: 7, Code: "BTC-USD", Name: "Bitcoin", Market: "USD", IsActive: true, SortKey: 1},
				{ID: 9, Code: "XRP-USD", Name: "XRP", Market: "USD", IsActive: true, SortKey: 2},
			}},
			target:     "/symbols",
			wantStatus: http.StatusOK,
			wantBody:   `[{"code":"BTC-USD","name":"Bitcoin","market":"USD"},{"code":"XRP-USD","name":"XRP","market":"USD"}]`,
		},
		{
			name:       "nil result encodes as empty array",
			uc:         &fakeSymbolUsecase{},
			target:     "/symbols?market=EUR",
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
			wantMarket: "EUR",
		},
		{
			name:       "usecase failure",
			uc:         &fakeSymbolUsecase{err: errors.New("db down")},
			target:     "/symbols",
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(newSymbolRouter(tt.uc), tt.target)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, tt.wantMarket, tt.uc.gotMarket)
		})
	}
}

func TestSymbolHandler_Get(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		uc := &fakeSymbolUsecase{symbols: []entity.Symbol{{Code: "ETH-USD", Name: "Ethereum", Market: "USD", IsActive: true}}}
		w := serve(newSymbolRouter(uc), "/symbols/eth-usd")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"code":"ETH-USD","name":"Ethereum","market":"USD"}`, w.Body.String())
		assert.Equal(t, "eth-usd", uc.gotCode)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		w := serve(newSymbolRouter(&fakeSymbolUsecase{}), "/symbols/PEPE-USD")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"symbol not found"}`, w.Body.String())
	})

	t.Run("repository failure", func(t *testing.T) {
		t.Parallel()
		w := serve(newSymbolRouter(&fakeSymbolUsecase{err: errors.New("timeout")}), "/symbols/BTC-USD")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
