package http

import (
	"time"

	"onenight_server/internal/config"
	"onenight_server/internal/http/handlers"
	"onenight_server/internal/http/middleware"
	"onenight_server/internal/registry"
	"onenight_server/internal/ws"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, sessions *registry.Registry, hub *ws.Hub, version string, cfg *config.Config) {
	h := handlers.NewHandler(sessions)
	healthHandler := handlers.NewHealthHandler(sessions, version)

	apiRateLimit := cfg.APIRateLimit
	apiRateWindow := cfg.APIRateWindow
	authRateLimit := cfg.AuthRateLimit
	authRateWindow := cfg.AuthRateWindow

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, authRateLimit, authRateWindow)

	// Legacy /api routes kept for older clients
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, authRateLimit, authRateWindow)

	// WebSocket gateway
	r.GET("/ws", ws.HandleWS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRateLimit int, authRateWindow time.Duration) {
	// Auth
	api.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)
	api.GET("/me", middleware.JWT(), h.Me)

	// Role catalog
	api.GET("/roles", h.Roles)

	// Session lookup for the join page
	api.GET("/sessions/:code", h.SessionStatus)
	api.GET("/sessions/:code/qr", h.JoinQR)
}
