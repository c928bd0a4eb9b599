package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/geofence/internal/pkg/metrics"
)

// legacyZoneSunset is when POST /v1/zones stops being served.
var legacyZoneSunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	if deps.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
			},
		}))
	}

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(CachingMiddleware())

	app.Get("/health", HealthHandler())
	app.Get("/ready", ReadyHandler(deps))

	wait := deps.RequestTimeout
	if wait <= 0 {
		wait = 15 * time.Second
	}
	bounded := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, wait)
	}

	v1 := app.Group("/v1")
	v1.Get("/coord-info", bounded(CoordInfoHandler(deps)))

	zones := v1.Group("/zones", ETagMiddleware())
	zones.Get("/", bounded(ListZonesHandler(deps)))
	zones.Put("/:kml", bounded(PutZoneHandler(deps)))
	zones.Delete("/:kml", bounded(DeleteZoneHandler(deps)))
	zones.Post("/", Deprecated(legacyZoneSunset, "/v1/zones/{kml}"), bounded(PostZoneHandler(deps)))

	layers := v1.Group("/layers", ETagMiddleware())
	layers.Get("/", bounded(ListLayersHandler(deps)))
	layers.Get("/:file", bounded(GetLayerHandler(deps)))

	settings := v1.Group("/settings", ETagMiddleware())
	settings.Get("/", bounded(GetSettingsHandler(deps)))
	settings.Put("/:key", bounded(PutSettingHandler(deps)))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app, deps.OpenAPIPath)

	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/checks", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
