package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"clickcoin_backend/internal/feature/newsletter/transport/handler"
	"clickcoin_backend/internal/feature/newsletter/usecase"
)

type mockNewsletterUsecase struct {
	SubscribeFunc func(ctx context.Context, email string) (bool, error)
}

func (m *mockNewsletterUsecase) Subscribe(ctx context.Context, email string) (bool, error) {
	return m.SubscribeFunc(ctx, email)
}

func TestNewsletterHandler_Subscribe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockSubscribe  func(ctx context.Context, email string) (bool, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: new subscriber",
			body: `{"email":"user@example.com"}`,
			mockSubscribe: func(ctx context.Context, email string) (bool, error) {
				assert.Equal(t, "user@example.com", email)
				return false, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"alreadySubscribed":false}`,
		},
		{
			name: "success: already subscribed",
			body: `{"email":"user@example.com"}`,
			mockSubscribe: func(ctx context.Context, email string) (bool, error) {
				return true, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"alreadySubscribed":true}`,
		},
		{
			name:           "error: malformed body",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request body"}`,
		},
		{
			name: "error: invalid email",
			body: `{"email":"nope"}`,
			mockSubscribe: func(ctx context.Context, email string) (bool, error) {
				return false, usecase.ErrInvalidEmail
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid email address"}`,
		},
		{
			name: "error: store failure",
			body: `{"email":"user@example.com"}`,
			mockSubscribe: func(ctx context.Context, email string) (bool, error) {
				return false, errors.New("store subscriber: redis down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"failed to subscribe"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockNewsletterUsecase{SubscribeFunc: tt.mockSubscribe}
			if uc.SubscribeFunc == nil {
				uc.SubscribeFunc = func(ctx context.Context, email string) (bool, error) {
					t.Fatal("usecase should not be called")
					return false, nil
				}
			}
			router := gin.New()
			router.POST("/newsletter/subscribe", handler.NewNewsletterHandler(uc).Subscribe)

			req := httptest.NewRequest(http.MethodPost, "/newsletter/subscribe", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
