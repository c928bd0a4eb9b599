package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// Manifest lists the zones to register.
type Manifest struct {
	Zones []ZoneEntry `mapstructure:"zones"`
}

// ZoneEntry is one zone in a manifest. Enabled defaults to true.
type ZoneEntry struct {
	KML     string `mapstructure:"kml"`
	Name    string `mapstructure:"name"`
	Points  int    `mapstructure:"points"`
	Group   string `mapstructure:"group"`
	Enabled *bool  `mapstructure:"enabled"`
	Delete  bool   `mapstructure:"delete"`
}

func (e ZoneEntry) update() domain.ZoneUpdate {
	return domain.ZoneUpdate{
		KMLFile: e.KML,
		Name:    e.Name,
		Points:  e.Points,
		Group:   e.Group,
		Enabled: e.Enabled,
		Delete:  e.Delete,
	}
}

func loadManifest(path string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(m.Zones) == 0 {
		return nil, fmt.Errorf("%s: no zones listed", path)
	}
	return &m, nil
}

type zoneSetter interface {
	Set(ctx context.Context, u domain.ZoneUpdate) (domain.ZoneChange, error)
}

// summary counts the outcome of an import.
type summary struct {
	Created, Updated, Deleted, Missing, Failed int
}

func (s summary) String() string {
	return fmt.Sprintf("created=%d updated=%d deleted=%d not_found=%d failed=%d",
		s.Created, s.Updated, s.Deleted, s.Missing, s.Failed)
}

// importZones applies every entry and keeps going past failures.
func importZones(ctx context.Context, svc zoneSetter, m *Manifest) (summary, error) {
	var sum summary
	var errs []error
	for _, e := range m.Zones {
		change, err := svc.Set(ctx, e.update())
		if err != nil {
			sum.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", strings.TrimSpace(e.KML), err))
			continue
		}
		switch change {
		case domain.ZoneCreated:
			sum.Created++
		case domain.ZoneUpdated:
			sum.Updated++
		case domain.ZoneDeleted:
			sum.Deleted++
		default:
			sum.Missing++
		}
	}
	return sum, errors.Join(errs...)
}

// dryRunRepo accepts every change without storing it.
type dryRunRepo struct{}

func (dryRunRepo) ListEnabled(context.Context) ([]domain.Zone, error) { return nil, nil }
func (dryRunRepo) List(context.Context) ([]domain.Zone, error)        { return nil, nil }
func (dryRunRepo) Set(_ context.Context, u domain.ZoneUpdate) (domain.ZoneChange, error) {
	if u.Delete {
		return domain.ZoneNotFound, nil
	}
	return domain.ZoneCreated, nil
}
