package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	carthttp "github.com/allisson/cartkeeper/internal/cart/http"
	"github.com/allisson/cartkeeper/internal/cart/usecase/mocks"
	"github.com/allisson/cartkeeper/internal/config"
	"github.com/allisson/cartkeeper/internal/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRouter(t *testing.T, cfg *config.Config) (http.Handler, *mocks.MockActivityUseCase, *mocks.MockSweepUseCase) {
	t.Helper()

	mockActivity := &mocks.MockActivityUseCase{}
	mockSweep := &mocks.MockSweepUseCase{}
	handler := carthttp.NewCartHandler(mockActivity, mockSweep, testLogger())

	router := NewRouter(t.Context(), cfg, handler, nil, testLogger())

	return router, mockActivity, mockSweep
}

func TestNewRouter_HealthAndReady(t *testing.T) {
	router, _, _ := setupRouter(t, &config.Config{LogLevel: "info"})

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestNewRouter_CartActivityRoutes(t *testing.T) {
	router, mockActivity, _ := setupRouter(t, &config.Config{LogLevel: "info"})

	record := &domain.CartActivityRecord{
		Email:  "shopper@example.com",
		Locale: "en",
		Items:  []domain.CartItem{{Name: "Ceramic Mug", Quantity: 1}},
		Status: domain.StatusPending1,
	}

	mockActivity.On("GetActiveCart", mock.Anything, "shopper@example.com").
		Return(record, nil).
		Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/cart-activity/shopper@example.com", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "shopper@example.com", response["email"])

	mockActivity.AssertExpectations(t)
}

func TestNewRouter_RateLimit(t *testing.T) {
	cfg := &config.Config{
		LogLevel:                "info",
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 0.1,
		RateLimitBurst:          1,
	}
	router, mockActivity, _ := setupRouter(t, cfg)

	mockActivity.On("RecordActivity", mock.Anything, mock.Anything).
		Return(&domain.CartActivityRecord{Email: "shopper@example.com"}, nil)

	body := `{"email":"shopper@example.com","locale":"en","items":[{"name":"Mug","quantity":1}]}`

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/cart-activity", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(first, req)
	assert.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/cart-activity", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestRateLimitCleanupStopsOnContextCancel(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.cleanupStale(ctx, time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop after cancel")
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "https://shop.example.com", expected: []string{"https://shop.example.com"}},
		{
			name:     "multiple with whitespace",
			input:    " https://shop.example.com , https://admin.example.com ",
			expected: []string{"https://shop.example.com", "https://admin.example.com"},
		},
		{name: "only commas", input: ",,,", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseOrigins(tt.input))
		})
	}
}

func TestMetricsServer(t *testing.T) {
	provider, err := metrics.NewProvider("cartkeeper_test")
	require.NoError(t, err)

	server := NewMetricsServer("127.0.0.1", 0, testLogger(), provider)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
