package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geofence/internal/core/usecases"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	CoordInfo *usecases.CoordInfoService
	Zones     *usecases.ZoneService
	Layers    *usecases.LayerService
	NATS      *nats.Conn
	DB        Pinger
	Cache     Pinger

	// OpenAPIPath is the file served at /openapi.yaml.
	OpenAPIPath string
	// RequestTimeout bounds every /v1 handler. Zero means 15s.
	RequestTimeout time.Duration
	// RateLimit is the number of requests per minute per IP. Zero disables it.
	RateLimit int
}
