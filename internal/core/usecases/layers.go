package usecases

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/kml"
)

// layerError classifies a LayerStore failure for callers.
func layerError(err error) error {
	if errors.Is(err, domain.ErrInvalidLayer) {
		return err
	}
	var le *kml.LoadError
	if errors.As(err, &le) {
		return fmt.Errorf("%w: %s", domain.ErrLayerUnavailable, le.Error())
	}
	return fmt.Errorf("open layer: %w", err)
}

func validLayerName(file string) error {
	if file == "" || filepath.Base(file) != file || !strings.EqualFold(filepath.Ext(file), ".kml") {
		return fmt.Errorf("%w: %q must be a .kml file name", domain.ErrInvalidLayer, file)
	}
	return nil
}

// LayerService inspects the KML files and assigns the playing field and road layers.
type LayerService struct {
	layers   ports.LayerStore
	settings ports.SettingsRepository
}

// NewLayerService creates a new LayerService.
func NewLayerService(layers ports.LayerStore, settings ports.SettingsRepository) *LayerService {
	return &LayerService{layers: layers, settings: settings}
}

// List returns the available KML file names.
func (s *LayerService) List(ctx context.Context) ([]string, error) {
	return s.layers.List(ctx)
}

// Inspect loads one file and summarises it.
func (s *LayerService) Inspect(ctx context.Context, file string) (*domain.Layer, error) {
	if err := validLayerName(file); err != nil {
		return nil, err
	}
	doc, err := s.layers.Open(ctx, file)
	if err != nil {
		return nil, layerError(err)
	}
	return Describe(file, doc), nil
}

// Describe summarises a loaded document.
func Describe(file string, doc *kml.Document) *domain.Layer {
	l := &domain.Layer{
		File:           file,
		Name:           doc.Name(),
		PlacemarkCount: doc.PlacemarkCount(),
		Warnings:       doc.Warnings(),
	}
	for _, p := range doc.Placemarks() {
		l.Placemarks = append(l.Placemarks, p.Name)
	}
	if b := doc.BoundingBox(); !b.IsEmpty() {
		l.Bounds = &domain.Bounds{MinLat: b.MinLat, MinLon: b.MinLon, MaxLat: b.MaxLat, MaxLon: b.MaxLon}
	}
	return l
}

// Settings returns the configured layers. Unset layers are empty.
func (s *LayerService) Settings(ctx context.Context) (*domain.Settings, error) {
	field, err := s.optional(ctx, domain.SettingPlayingFieldKML)
	if err != nil {
		return nil, err
	}
	roads, err := s.optional(ctx, domain.SettingOSMRoadsKML)
	if err != nil {
		return nil, err
	}
	return &domain.Settings{PlayingFieldKML: field, OSMRoadsKML: roads}, nil
}

func (s *LayerService) optional(ctx context.Context, key string) (string, error) {
	v, err := s.settings.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// SetSetting points key at file after checking that the file loads.
func (s *LayerService) SetSetting(ctx context.Context, key, file string) error {
	if key != domain.SettingPlayingFieldKML && key != domain.SettingOSMRoadsKML {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}
	if err := validLayerName(file); err != nil {
		return err
	}
	if _, err := s.layers.Open(ctx, file); err != nil {
		return layerError(err)
	}
	if err := s.settings.Set(ctx, key, file); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
