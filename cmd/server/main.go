package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/australparking/estacionamiento-api/internal/config"     // Internal config loader
	"github.com/australparking/estacionamiento-api/internal/database"   // MySQL connection helper
	"github.com/australparking/estacionamiento-api/internal/handler"    // HTTP handlers
	"github.com/australparking/estacionamiento-api/internal/queue"      // Checkout event consumer
	"github.com/australparking/estacionamiento-api/internal/repository" // Data access layer
	"github.com/australparking/estacionamiento-api/internal/router"     // Route registration
	"github.com/australparking/estacionamiento-api/internal/service"    // Entity/DTO mapping layer
)

func main() {
	// Load a local .env file when present; real deployments set the
	// environment directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single pooled connection. The session repo
	// carries the tariff repo because checkout pricing reads tariffs.
	tariffs := repository.NewTariffRepo(db)
	bays := repository.NewBayRepo(db)
	sessions := repository.NewSessionRepo(db, tariffs)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	bayService := service.NewBayService(bays)
	sessionService := service.NewSessionService(sessions, bays)

	e := echo.New()
	router.RegisterRoutes(e) // Health check, no auth required

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)

	parkingHandler := handler.NewParkingHandler(bayService, sessionService, tariffs)
	// Redis is optional: a nil client disables response caching and rate
	// limiting, everything else keeps working.
	rdb := config.NewRedisClient()
	router.RegisterParking(e, parkingHandler, cfg.JWTSecret, rdb)

	// Consume session.closed events in the background; the consumer runs
	// its own reconnect loop and never stops the server.
	go func() {
		if err := queue.StartCheckoutConsumer(); err != nil {
			log.Printf("checkout-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
