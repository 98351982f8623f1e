package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/agroshare/internal/adapters/http"
	natsadapter "github.com/samirrijal/agroshare/internal/adapters/nats"
	"github.com/samirrijal/agroshare/internal/adapters/openroute"
	"github.com/samirrijal/agroshare/internal/adapters/postgres"
	"github.com/samirrijal/agroshare/internal/adapters/valkey"
	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/core/usecases"
	"github.com/samirrijal/agroshare/internal/pkg/config"
	"github.com/samirrijal/agroshare/internal/pkg/logging"
	"github.com/samirrijal/agroshare/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("agroshare-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache. Services get a nil interface, not a nil *Cache, when it is down.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr, "agroshare")
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, route events disabled", "error", err)
	} else {
		publisher = pub
		defer pub.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	// Routing provider
	if cfg.Routing.ORSAPIKey == "" {
		slog.Warn("routing key not configured, proximity views will be degraded")
	}
	provider := openroute.NewClient(cfg.Routing.ORSAPIKey,
		openroute.WithBaseURL(cfg.Routing.BaseURL),
		openroute.WithTimeout(time.Duration(cfg.Routing.TimeoutSeconds)*time.Second),
	)

	// Repos
	listingRepo := postgres.NewListingRepo(db)
	userRepo := postgres.NewUserRepo(db)
	requestRepo := postgres.NewRentalRequestRepo(db)

	// Use cases
	listingSvc := usecases.NewListingService(listingRepo, cacheSvc)
	routeSvc := usecases.NewRouteService(provider, publisher)

	deps := &http.Dependencies{
		Listings:          listingSvc,
		Owners:            usecases.NewOwnerService(userRepo, listingRepo, cacheSvc),
		Trips:             usecases.NewTripService(requestRepo),
		Routes:            routeSvc,
		Proximity:         usecases.NewProximityService(listingSvc, routeSvc, usecases.NewViewportFitter()),
		Reviews:           usecases.NewReviewSynthesizer(cfg.Reviews.SkewUp, cfg.Reviews.SkewDown, nil),
		NATS:              natsConn,
		DB:                db,
		Cache:             cache,
		MapsAPIKey:        cfg.Maps.APIKey,
		RoutingConfigured: cfg.Routing.ORSAPIKey != "",
	}

	// Pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				db.RecordPoolMetrics()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "AgroShare Proximity API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.agroshare.com",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
