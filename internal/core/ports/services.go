package ports

import (
	"context"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishCheck(ctx context.Context, event *domain.CheckEvent) error
	PublishZoneChange(ctx context.Context, event *domain.ZoneEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeChecks(ctx context.Context, handler func(ctx context.Context, event *domain.CheckEvent) error) error
	SubscribeZoneChanges(ctx context.Context, handler func(ctx context.Context, event *domain.ZoneEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// CoordChecker answers where a point lies.
type CoordChecker interface {
	Check(ctx context.Context, lat, lon float64) (*domain.CoordInfo, error)
}
