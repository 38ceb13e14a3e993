package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CustomLoggerMiddleware logs HTTP requests with the request id attached by
// the requestid middleware.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// rateLimiterStore holds per-client-IP rate limiters with automatic cleanup.
type rateLimiterStore struct {
	limiters sync.Map // map[string]*rateLimiterEntry
	rps      float64
	burst    int
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// RateLimitMiddleware enforces per-client-IP rate limiting on the cart
// activity ingestion endpoint.
//
// Uses the token bucket algorithm via golang.org/x/time/rate. The storefront
// pings the ingestion endpoint on every cart mutation, so each client IP gets
// an independent limiter.
//
// Returns 429 Too Many Requests with a Retry-After header when the limit is
// exceeded. The cleanup goroutine for stale limiters runs until ctx is
// cancelled.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{
		rps:   rps,
		burst: burst,
	}

	// Cleanup goroutine for stale limiters (every 5 minutes)
	go store.cleanupStale(ctx, 5*time.Minute)

	return func(c *gin.Context) {
		limiter := store.getLimiter(c.ClientIP())

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("rate limit exceeded",
				slog.String("client_ip", c.ClientIP()),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter retrieves or creates a rate limiter for a client IP.
func (s *rateLimiterStore) getLimiter(clientIP string) *rate.Limiter {
	if val, ok := s.limiters.Load(clientIP); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rate.Limit(s.rps), s.burst)
	entry := &rateLimiterEntry{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	s.limiters.Store(clientIP, entry)
	return limiter
}

// cleanupStale removes rate limiters that haven't been accessed recently.
// Runs periodically to prevent unbounded memory growth.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-interval)
			s.limiters.Range(func(key, val any) bool {
				entry := val.(*rateLimiterEntry)
				entry.mu.Lock()
				stale := entry.lastAccess.Before(cutoff)
				entry.mu.Unlock()
				if stale {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
