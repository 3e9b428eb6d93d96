package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/transactsync/transactsync/internal/config"     // config carries middleware settings and the API key
	"github.com/transactsync/transactsync/internal/handler"    // import the handlers that implement the endpoints
	"github.com/transactsync/transactsync/internal/middleware" // middleware provides the API-key gate, rate limiter and cache
)

// RegisterRoutes registers routes that do not require the API key on the
// provided Echo instance: the health check used by load balancers and the
// root info endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/", handler.Root)
}

// RegisterAPI registers every data route behind the API-key gate.  The
// shared secret comes in through cfg rather than a package-level variable so
// tests can build a router with their own key.  Rate limiting and response
// caching are optional and collapse to no-ops when rdb is nil.
func RegisterAPI(e *echo.Echo, h *handler.Handler, cfg config.Config, rdb *redis.Client) {
	g := e.Group("")
	// Auth first: a missing or wrong key is rejected before any handler or
	// persistence access.
	g.Use(middleware.APIKeyAuth(cfg.APIKey))
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Accounts.  The static /accounts/by-number route is registered before
	// the parameterized /accounts/:id route; Echo matches static segments
	// first either way, but keeping them in this order mirrors the matching
	// priority for readers.
	g.POST("/accounts", h.CreateAccount)
	g.GET("/accounts", h.ListAccounts)
	g.GET("/accounts/by-number", h.GetAccountByNumber)
	g.GET("/accounts/:id", h.GetAccount)
	g.PUT("/accounts/:id", h.UpdateAccount)
	g.DELETE("/accounts/:id", h.DeleteAccount)

	// Cycles.
	g.POST("/cycles", h.CreateCycle)
	g.GET("/cycles", h.ListCycles)
	g.GET("/cycles/for-date", h.FindCycleForDate)
	g.GET("/cycles/:id", h.GetCycle)
	g.PUT("/cycles/:id", h.UpdateCycle)
	g.DELETE("/cycles/:id", h.DeleteCycle)

	// Email checkpoints.  The by-folder GET always answers 200; see the
	// handler for the record-shaped null contract.
	g.GET("/email_checkpoints", h.ListCheckpoints)
	g.GET("/email_checkpoints/:folder", h.GetCheckpoint)
	g.POST("/email_checkpoints", h.CreateCheckpoint)
	g.PUT("/email_checkpoints/:folder", h.UpsertCheckpoint)
	g.DELETE("/email_checkpoints/:folder", h.DeleteCheckpoint)

	// Transactions.
	g.POST("/transactions", h.CreateTransaction)
	g.GET("/transactions", h.ListTransactions)
	g.GET("/transactions/:id", h.GetTransaction)
	g.PUT("/transactions/:id", h.UpdateTransaction)
	g.DELETE("/transactions/:id", h.DeleteTransaction)
}
