package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/streamhub-user-service/internal/config"
	"github.com/iliyamo/streamhub-user-service/internal/handler"
	"github.com/iliyamo/streamhub-user-service/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the session endpoints. Unauthenticated operations
// (register, login, refresh) live under /v1/auth behind the Redis rate
// limiter; everything touching an established session requires a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh authenticates by refresh token, not by access token, so it
	// stays outside the JWT group.
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1/auth")
	auth.Use(middleware.JWTAuth(a.Cfg.AccessSecret))
	auth.POST("/logout", a.Logout)
}

// RegisterUsers wires the profile and channel endpoints; every route
// here requires a valid access token. The channel-profile route sits
// behind the viewer-aware Redis response cache.
func RegisterUsers(e *echo.Echo, cfg config.Config, p *handler.ProfileHandler, a *handler.AuthHandler, ch *handler.ChannelHandler, rdb *redis.Client) {
	g := e.Group("/v1/users")
	g.Use(middleware.JWTAuth(cfg.AccessSecret))

	g.GET("/current-user", a.CurrentUser)
	g.POST("/change-password", a.ChangePassword)
	g.PATCH("/update-account", p.UpdateAccount)
	g.PATCH("/avatar", p.UpdateAvatar)
	g.PATCH("/cover-image", p.UpdateCoverImage)
	g.GET("/history", p.WatchHistory)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	g.GET("/c/:username", ch.ChannelProfile, cache)
}
