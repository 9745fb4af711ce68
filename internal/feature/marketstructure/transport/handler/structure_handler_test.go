package handler_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"clickcoin_backend/internal/feature/marketstructure/domain/entity"
	"clickcoin_backend/internal/feature/marketstructure/engine"
	"clickcoin_backend/internal/feature/marketstructure/transport/handler"
	"clickcoin_backend/internal/feature/marketstructure/usecase"
)

type mockStructureUsecase struct {
	GetStructureFunc func(ctx context.Context, q usecase.StructureQuery) (*usecase.Structure, error)
}

func (m *mockStructureUsecase) GetStructure(ctx context.Context, q usecase.StructureQuery) (*usecase.Structure, error) {
	return m.GetStructureFunc(ctx, q)
}

func TestStructureHandler_GetStructureHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	sample := entity.Result{
		CandleCount: 10,
		Depth:       3,
		SwingPoints: []entity.SwingPoint{
			{Time: d(2), Price: 100, Kind: entity.SwingLow, Label: entity.LabelL, Index: 1},
			{Time: d(4), Price: 110, Kind: entity.SwingHigh, Label: entity.LabelH, Index: 3},
		},
		Events: []entity.StructuralEvent{
			{Time: d(10), Index: 9, Kind: entity.EventMSB, Direction: entity.Bearish, TriggerLevel: 104, AnchorTime: d(6), AnchorLabel: entity.LabelHL},
		},
	}

	tests := []struct {
		name           string
		url            string
		mock           func(ctx context.Context, q usecase.StructureQuery) (*usecase.Structure, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: defaults",
			url:  "/structure/BTC-USD",
			mock: func(ctx context.Context, q usecase.StructureQuery) (*usecase.Structure, error) {
				assert.Equal(t, usecase.StructureQuery{Symbol: "BTC-USD", Interval: "1day", OutputSize: 365, Depth: 0, Dedup: "", Window: 2}, q)
				return &usecase.Structure{Symbol: q.Symbol, Interval: q.Interval, Window: q.Window, Result: sample}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"symbol":"BTC-USD","interval":"1day","depth":3,"candleCount":10,"trend":"neutral",` +
				`"hasRecentMSB":true,"hasRecentBullishMSB":false,"hasRecentBearishMSB":true,` +
				`"swingPoints":[{"time":"2024-01-02","price":100,"kind":"low","label":"L","index":1},` +
				`{"time":"2024-01-04","price":110,"kind":"high","label":"H","index":3}],` +
				`"events":[{"time":"2024-01-10","kind":"MSB","direction":"bearish","triggerLevel":104,"anchorTime":"2024-01-06","anchorLabel":"HL"}],` +
				`"lineData":[{"time":"2024-01-02","value":100},{"time":"2024-01-04","value":110}]}`,
		},
		{
			name: "success: explicit parameters and empty result",
			url:  "/structure/ETH-USD?interval=1week&outputsize=100&depth=4&dedup=candle&window=5",
			mock: func(ctx context.Context, q usecase.StructureQuery) (*usecase.Structure, error) {
				assert.Equal(t, usecase.StructureQuery{Symbol: "ETH-USD", Interval: "1week", OutputSize: 100, Depth: 4, Dedup: "candle", Window: 5}, q)
				return &usecase.Structure{Symbol: q.Symbol, Interval: q.Interval, Window: q.Window, Result: entity.Result{
					SwingPoints: []entity.SwingPoint{}, Events: []entity.StructuralEvent{},
				}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"symbol":"ETH-USD","interval":"1week","depth":0,"candleCount":0,"trend":"neutral",` +
				`"hasRecentMSB":false,"hasRecentBullishMSB":false,"hasRecentBearishMSB":false,` +
				`"swingPoints":[],"events":[],"lineData":[]}`,
		},
		{
			name: "error: invalid dedup",
			url:  "/structure/BTC-USD?dedup=week",
			mock: func(ctx context.Context, q usecase.StructureQuery) (*usecase.Structure, error) {
				_, err := engine.ParseDedupPolicy(q.Dedup)
				return nil, err
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid dedup policy: \"week\""}`,
		},
		{
			name: "error: repository failure",
			url:  "/structure/BTC-USD",
			mock: func(ctx context.Context, q usecase.StructureQuery) (*usecase.Structure, error) {
				return nil, fmt.Errorf("load candles for BTC-USD: %w", errors.New("db down"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"load candles for BTC-USD: db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewStructureHandler(&mockStructureUsecase{GetStructureFunc: tt.mock})

			router := gin.New()
			router.GET("/structure/:code", h.GetStructureHandler)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			body, _ := io.ReadAll(rec.Body)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, string(body))
		})
	}
}
