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

	"github.com/samirrijal/geofence/internal/adapters/filestore"
	"github.com/samirrijal/geofence/internal/adapters/http"
	natsadapter "github.com/samirrijal/geofence/internal/adapters/nats"
	"github.com/samirrijal/geofence/internal/adapters/postgres"
	"github.com/samirrijal/geofence/internal/adapters/valkey"
	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/core/usecases"
	"github.com/samirrijal/geofence/internal/pkg/config"
	"github.com/samirrijal/geofence/internal/pkg/logging"
	"github.com/samirrijal/geofence/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geofence-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	store, err := filestore.New(cfg.Files.Directory)
	if err != nil {
		log.Fatalf("files: %v", err)
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolMetrics(ctx, db)

	deps := &http.Dependencies{
		DB:             db,
		OpenAPIPath:    cfg.Server.OpenAPIPath,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		RateLimit:      cfg.Server.RateLimit,
	}

	// Optional backends stay nil interfaces when unavailable.
	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr, cfg.Cache.Prefix)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer vc.Close()
			cache = vc
			deps.Cache = vc
		}
	}

	var events ports.EventPublisher
	var subscriber *natsadapter.Subscriber
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			events = pub
		}

		nc, err := natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		} else {
			defer nc.Close()
			deps.NATS = nc
		}

		subscriber, err = natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats subscriber unavailable", "error", err)
			subscriber = nil
		} else {
			defer subscriber.Close()
		}
	}

	zoneRepo := postgres.NewZoneRepo(db)
	settingsRepo := postgres.NewSettingsRepo(db)

	deps.CoordInfo = usecases.NewCoordInfoService(store, zoneRepo, settingsRepo, events)
	deps.Zones = usecases.NewZoneService(zoneRepo, store, cache, events)
	deps.Layers = usecases.NewLayerService(store, settingsRepo)

	// Zone edits on other replicas drop this replica's cached zone list.
	if subscriber != nil {
		err := subscriber.SubscribeZoneChanges(ctx, func(ctx context.Context, e *domain.ZoneEvent) error {
			deps.Zones.Invalidate(ctx)
			return nil
		})
		if err != nil {
			slog.Warn("zone change subscription failed", "error", err)
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024,
		AppName:      "Geofence API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, If-None-Match",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "files", store.Dir())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolMetrics(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			db.ReportPoolMetrics()
		}
	}
}

