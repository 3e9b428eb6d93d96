package main // Entry point package

import (
	"context" // context bounds the schema bootstrap
	"log"     // Logging library
	"time"    // time provides the bootstrap timeout

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/transactsync/transactsync/internal/config"     // Internal config loader
	"github.com/transactsync/transactsync/internal/database"   // Internal database connector
	"github.com/transactsync/transactsync/internal/handler"    // Internal request handlers
	"github.com/transactsync/transactsync/internal/queue"      // Internal audit consumer
	"github.com/transactsync/transactsync/internal/repository" // Internal data access layer
	"github.com/transactsync/transactsync/internal/router"     // Internal router setup
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Create the four tables on first boot; no-op afterwards.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema bootstrap failed: %v", err)
	}
	cancel()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	// The audit consumer tails the transaction.recorded queue in the
	// background and reconnects on its own; it never takes the API down.
	go func() {
		if err := queue.StartTransactionConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	h := handler.NewHandler(
		repository.NewAccountRepo(db),
		repository.NewCycleRepo(db),
		repository.NewCheckpointRepo(db),
		repository.NewTransactionRepo(db),
	)

	e := echo.New()                   // Create Echo instance
	router.RegisterRoutes(e)          // Register open routes (health, root)
	router.RegisterAPI(e, h, cfg, rdb) // Register key-gated data routes

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
