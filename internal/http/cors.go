package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware creates a CORS middleware based on configuration.
//
// CORS is disabled by default: the storefront backend talks to this API
// server-to-server. Enable only if a browser-based storefront calls the API
// directly.
//
// Returns nil if disabled or no valid origins are configured.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	if allowOriginsStr == "" {
		logger.Warn("CORS enabled but no origins configured - CORS will not be applied")
		return nil
	}

	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins found")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	config := cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			"GET",
			"POST",
			"DELETE",
		},
		AllowHeaders: []string{
			"Content-Type",
		},
		ExposeHeaders: []string{
			"X-Request-Id",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(config)
}

// parseOrigins parses a comma-separated origin list and trims whitespace.
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
