package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/australparking/estacionamiento-api/internal/config"
	"github.com/australparking/estacionamiento-api/internal/handler"
	"github.com/australparking/estacionamiento-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check for load
// balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes. Unauthenticated token
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token, /refresh-access reuses it.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout stays outside the JWT middleware so a client holding only a
	// refresh token can still revoke it.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterParking wires the bay, session and tariff endpoints. Every route
// requires a valid token with an OPERATOR or ADMIN role; bay mutations are
// ADMIN only. The read endpoints sit behind the Redis response cache and
// all of them behind the token-bucket rate limiter; with a nil Redis client
// both degrade to pass-throughs.
func RegisterParking(e *echo.Echo, p *handler.ParkingHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OPERATOR", "ADMIN"))
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	admin := middleware.RequireRole("ADMIN")

	g.GET("/bays", p.ListBays, cache)
	g.GET("/bays/:id", p.GetBay, cache)
	g.POST("/bays", p.CreateBay, admin)
	g.PUT("/bays/:id", p.UpdateBay, admin)
	g.DELETE("/bays/:id", p.DeleteBay, admin)

	// Check-in / check-out flow used by the gate operators.
	g.POST("/sessions/open", p.OpenSession)
	g.POST("/sessions/close", p.CloseSession)
	g.GET("/sessions/recent", p.ListRecentSessions, cache)

	// Raw CRUD for back-office corrections.
	g.GET("/sessions", p.ListSessions, cache)
	g.GET("/sessions/:id", p.GetSession, cache)
	g.POST("/sessions", p.CreateSession)
	g.PUT("/sessions/:id", p.UpdateSession)
	g.DELETE("/sessions/:id", p.DeleteSession)

	g.GET("/tariffs", p.ListTariffs, cache)
}
