package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/pkg/metrics"
	"github.com/samirrijal/geofence/internal/pkg/telemetry"
)

const (
	zonesCacheKey = "zones:all"
	zonesCacheTTL = 60

	maxZonePoints = 100
)

// ZoneService manages the bonus zone catalogue.
type ZoneService struct {
	zones  ports.ZoneRepository
	layers ports.LayerStore
	cache  ports.CacheService
	events ports.EventPublisher
	now    func() time.Time
}

// NewZoneService creates a new ZoneService. cache and events may be nil.
func NewZoneService(zones ports.ZoneRepository, layers ports.LayerStore, cache ports.CacheService, events ports.EventPublisher) *ZoneService {
	return &ZoneService{zones: zones, layers: layers, cache: cache, events: events, now: time.Now}
}

// List returns every registered zone.
func (s *ZoneService) List(ctx context.Context) ([]domain.Zone, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, zonesCacheKey); err == nil {
			var zones []domain.Zone
			if err := json.Unmarshal(data, &zones); err == nil {
				metrics.CacheHits.WithLabelValues("zones").Inc()
				return zones, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("zones").Inc()
	}

	zones, err := s.zones.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(zones); err == nil {
			_ = s.cache.Set(ctx, zonesCacheKey, data, zonesCacheTTL)
		}
	}

	return zones, nil
}

// Set creates, updates or deletes the zone for u.KMLFile. Unknown zones on
// delete report domain.ZoneNotFound without an error.
func (s *ZoneService) Set(ctx context.Context, u domain.ZoneUpdate) (domain.ZoneChange, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanZoneSet)
	defer span.End()

	u.KMLFile = strings.TrimSpace(u.KMLFile)
	u.Name = strings.TrimSpace(u.Name)
	u.Group = strings.TrimSpace(u.Group)
	span.SetAttributes(attribute.String("geofence.zone", u.KMLFile), attribute.Bool("geofence.delete", u.Delete))

	if err := validLayerName(u.KMLFile); err != nil {
		return domain.ZoneNotFound, fmt.Errorf("%w: %v", domain.ErrInvalidZone, err)
	}

	if !u.Delete {
		if u.Points < 0 || u.Points > maxZonePoints {
			return domain.ZoneNotFound, fmt.Errorf("%w: points must be between 0 and %d", domain.ErrInvalidZone, maxZonePoints)
		}
		if u.Name == "" {
			u.Name = u.KMLFile
		}
		if _, err := s.layers.Open(ctx, u.KMLFile); err != nil {
			return domain.ZoneNotFound, layerError(err)
		}
	}

	change, err := s.zones.Set(ctx, u)
	if err != nil {
		return domain.ZoneNotFound, fmt.Errorf("set zone: %w", err)
	}
	if change == domain.ZoneNotFound {
		return change, nil
	}

	s.Invalidate(ctx)
	s.publish(ctx, change, u)
	slog.InfoContext(ctx, "zone changed", "change", change.String(), "file", u.KMLFile, "points", u.Points)
	return change, nil
}

// Invalidate drops the cached zone list.
func (s *ZoneService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, zonesCacheKey); err != nil {
		slog.WarnContext(ctx, "zone cache invalidation failed", "error", err)
	}
}

func (s *ZoneService) publish(ctx context.Context, change domain.ZoneChange, u domain.ZoneUpdate) {
	if s.events == nil {
		return
	}
	event := &domain.ZoneEvent{
		Change:  change.String(),
		KMLFile: u.KMLFile,
		Name:    u.Name,
		Points:  u.Points,
		At:      s.now().UTC(),
	}
	if err := s.events.PublishZoneChange(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish zone event failed", "error", err)
	}
}
