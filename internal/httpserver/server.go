package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/auth"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/config"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/detector"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/handlers"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/intervention"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/telemetry"
)

// Pinger is satisfied by both store backends and drives the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready
// Authenticated: telemetry ingestion, indicator queries, intervention control.
func NewRouter(cfg config.Config, store Pinger, tel *telemetry.Store, det *detector.Detector, eng *intervention.Engine) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Auth group enforces game-client context via X-API-Key.
	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.APIKeys))

	handlers.RegisterTelemetryRoutes(authGroup, tel)
	handlers.RegisterIndicatorRoutes(authGroup, det)
	handlers.RegisterInterventionRoutes(authGroup, eng)

	return r
}
