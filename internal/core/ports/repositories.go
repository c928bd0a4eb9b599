package ports

import (
	"context"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/kml"
)

// ZoneRepository persists the bonus zone catalogue.
type ZoneRepository interface {
	// ListEnabled returns enabled zones, highest points first.
	ListEnabled(ctx context.Context) ([]domain.Zone, error)
	List(ctx context.Context) ([]domain.Zone, error)
	// Set creates, updates or deletes the zone for u.KMLFile.
	Set(ctx context.Context, u domain.ZoneUpdate) (domain.ZoneChange, error)
}

// SettingsRepository persists global string settings.
type SettingsRepository interface {
	// Get returns domain.ErrNotFound when the key is unset or empty.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// LayerStore opens KML files by name.
type LayerStore interface {
	// Open loads a fresh document on every call. A file that is not
	// well-formed returns a *kml.LoadError.
	Open(ctx context.Context, file string) (*kml.Document, error)
	// List returns the names of the available KML files.
	List(ctx context.Context) ([]string, error)
}
