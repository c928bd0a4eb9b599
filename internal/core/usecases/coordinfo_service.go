package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/pkg/metrics"
	"github.com/samirrijal/geofence/internal/pkg/telemetry"
)

// CoordInfoService reports where a point lies relative to the playing field,
// the bonus zones and the road network. Every check loads its layers afresh,
// so edits to the KML files apply to the next request.
type CoordInfoService struct {
	layers   ports.LayerStore
	zones    ports.ZoneRepository
	settings ports.SettingsRepository
	events   ports.EventPublisher
	now      func() time.Time
}

// NewCoordInfoService creates a new CoordInfoService. events may be nil.
func NewCoordInfoService(layers ports.LayerStore, zones ports.ZoneRepository, settings ports.SettingsRepository, events ports.EventPublisher) *CoordInfoService {
	return &CoordInfoService{
		layers:   layers,
		zones:    zones,
		settings: settings,
		events:   events,
		now:      time.Now,
	}
}

// Check answers the coordinate-info query for (lat, lon).
func (s *CoordInfoService) Check(ctx context.Context, lat, lon float64) (*domain.CoordInfo, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanCoordCheck, trace.WithAttributes(
		attribute.Float64("geo.lat", lat),
		attribute.Float64("geo.lon", lon),
	))
	defer span.End()

	info, err := s.check(ctx, lat, lon)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ChecksTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("geofence.in_playing_field", info.InPlayingField),
		attribute.Int("geofence.zones", len(info.BonusZones)),
	)
	s.record(info)
	s.publish(ctx, info)
	return info, nil
}

func (s *CoordInfoService) check(ctx context.Context, lat, lon float64) (*domain.CoordInfo, error) {
	if !(domain.GeoPoint{Lat: lat, Lon: lon}).Valid() {
		return nil, domain.ErrInvalidCoordinates
	}

	fieldFile, err := s.setting(ctx, domain.SettingPlayingFieldKML, domain.ErrPlayingFieldUnset)
	if err != nil {
		return nil, err
	}
	roadsFile, err := s.setting(ctx, domain.SettingOSMRoadsKML, domain.ErrRoadsUnset)
	if err != nil {
		return nil, err
	}

	field, err := s.layers.Open(ctx, fieldFile)
	if err != nil {
		return nil, layerError(err)
	}

	info := &domain.CoordInfo{
		Lat:            lat,
		Lon:            lon,
		InPlayingField: field.PointInPolygon(lat, lon),
		BonusZones:     []domain.BonusZoneHit{},
	}
	if !info.InPlayingField {
		return info, nil
	}

	info.BonusZones, err = s.bonusZones(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	roads, err := s.layers.Open(ctx, roadsFile)
	if err != nil {
		info.RoadKMLError = err.Error()
		return info, nil
	}
	if meters, ok := roads.DistanceFromPoint(lat, lon); ok {
		d := int(math.Round(meters))
		info.FromOSMRoad = &d
	}
	return info, nil
}

func (s *CoordInfoService) setting(ctx context.Context, key string, unset error) (string, error) {
	v, err := s.settings.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return "", unset
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// bonusZones walks enabled zones from the highest value down. Once a zone of
// a group matches, the rest of that group is skipped. Zones without a group
// never suppress each other.
func (s *CoordInfoService) bonusZones(ctx context.Context, lat, lon float64) ([]domain.BonusZoneHit, error) {
	zones, err := s.zones.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	sort.SliceStable(zones, func(i, j int) bool { return zones[i].Points > zones[j].Points })

	hits := []domain.BonusZoneHit{}
	matched := make(map[string]bool)
	for _, z := range zones {
		if z.Group != "" && matched[z.Group] {
			continue
		}

		doc, err := s.layers.Open(ctx, z.KMLFile)
		if err != nil {
			slog.WarnContext(ctx, "bonus zone unavailable", "zone", z.Name, "file", z.KMLFile, "error", err)
			hits = append(hits, domain.BonusZoneHit{Name: z.Name, Error: err.Error()})
			continue
		}
		if doc.PointInPolygon(lat, lon) {
			hits = append(hits, domain.BonusZoneHit{Name: z.Name, Points: z.Points, Group: z.Group})
			if z.Group != "" {
				matched[z.Group] = true
			}
		}
	}
	return hits, nil
}

func (s *CoordInfoService) record(info *domain.CoordInfo) {
	if !info.InPlayingField {
		metrics.ChecksTotal.WithLabelValues("outside").Inc()
		return
	}
	metrics.ChecksTotal.WithLabelValues("inside").Inc()
	for _, name := range info.ZoneNames() {
		metrics.ZoneHits.WithLabelValues(name).Inc()
	}
	if info.FromOSMRoad != nil {
		metrics.RoadDistance.Observe(float64(*info.FromOSMRoad))
	}
}

func (s *CoordInfoService) publish(ctx context.Context, info *domain.CoordInfo) {
	if s.events == nil {
		return
	}
	event := &domain.CheckEvent{
		Lat:            info.Lat,
		Lon:            info.Lon,
		InPlayingField: info.InPlayingField,
		Zones:          info.ZoneNames(),
		FromOSMRoad:    info.FromOSMRoad,
		CheckedAt:      s.now().UTC(),
	}
	if err := s.events.PublishCheck(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish check event failed", "error", err)
	}
}
