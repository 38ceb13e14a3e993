// Package http provides the HTTP server, router, and shared middleware for
// the cart activity API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	carthttp "github.com/allisson/cartkeeper/internal/cart/http"
	"github.com/allisson/cartkeeper/internal/config"
	"github.com/allisson/cartkeeper/internal/httputil"
	"github.com/allisson/cartkeeper/internal/metrics"
)

// NewRouter builds the gin router with shared middleware and the cart
// activity routes. ctx bounds the lifetime of background middleware
// goroutines such as the rate limiter cleanup.
func NewRouter(
	ctx context.Context,
	cfg *config.Config,
	cartHandler *carthttp.CartHandler,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler)

	v1 := router.Group("/v1")

	ingest := v1.Group("")
	if cfg.RateLimitEnabled {
		ingest.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}
	ingest.POST("/cart-activity", cartHandler.RecordActivityHandler)

	v1.GET("/cart-activity/:email", cartHandler.GetHandler)
	v1.POST("/cart-activity/:email/converted", cartHandler.MarkConvertedHandler)
	v1.DELETE("/cart-activity/:email", cartHandler.ForgetHandler)
	v1.POST("/sweep", cartHandler.SweepHandler)

	return router
}

// HealthHandler reports process liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ReadinessHandler reports readiness to receive traffic.
func ReadinessHandler(c *gin.Context) {
	select {
	case <-c.Request.Context().Done():
		httputil.HandleErrorGin(c, c.Request.Context().Err(), nil)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server serving the given handler.
func NewServer(host string, port int, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(_ context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
