package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geofence/internal/core/domain"
)

const (
	zoneColumns = `id, kml_file, name, points, zone_group, enabled, updated_at`

	listZonesQuery = `SELECT ` + zoneColumns + ` FROM zones ORDER BY points DESC, kml_file`

	listEnabledZonesQuery = `SELECT ` + zoneColumns + ` FROM zones WHERE enabled ORDER BY points DESC, kml_file`

	deleteZoneQuery = `DELETE FROM zones WHERE kml_file = $1`

	upsertZoneQuery = `
		INSERT INTO zones (kml_file, name, points, zone_group, enabled, updated_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, TRUE), now())
		ON CONFLICT (kml_file) DO UPDATE SET
			name = EXCLUDED.name,
			points = EXCLUDED.points,
			zone_group = EXCLUDED.zone_group,
			enabled = COALESCE($5, zones.enabled),
			updated_at = now()
		RETURNING (xmax = 0) AS inserted`
)

// ZoneRepo implements ports.ZoneRepository.
type ZoneRepo struct {
	db *DB
}

func NewZoneRepo(db *DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

func (r *ZoneRepo) List(ctx context.Context) ([]domain.Zone, error) {
	return r.query(ctx, listZonesQuery)
}

func (r *ZoneRepo) ListEnabled(ctx context.Context) ([]domain.Zone, error) {
	return r.query(ctx, listEnabledZonesQuery)
}

// Set deletes the zone when u.Delete is set, otherwise inserts it or
// updates the existing row for the same file.
func (r *ZoneRepo) Set(ctx context.Context, u domain.ZoneUpdate) (domain.ZoneChange, error) {
	if u.Delete {
		tag, err := r.db.Pool.Exec(ctx, deleteZoneQuery, u.KMLFile)
		if err != nil {
			return domain.ZoneNotFound, fmt.Errorf("delete zone: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ZoneNotFound, nil
		}
		return domain.ZoneDeleted, nil
	}

	var inserted bool
	err := r.db.Pool.QueryRow(ctx, upsertZoneQuery,
		u.KMLFile, u.Name, u.Points, u.Group, u.Enabled,
	).Scan(&inserted)
	if err != nil {
		return domain.ZoneNotFound, fmt.Errorf("upsert zone: %w", err)
	}
	if inserted {
		return domain.ZoneCreated, nil
	}
	return domain.ZoneUpdated, nil
}

func (r *ZoneRepo) query(ctx context.Context, sql string) ([]domain.Zone, error) {
	rows, err := r.db.Pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	defer rows.Close()

	zones := []domain.Zone{}
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read zones: %w", err)
	}
	return zones, nil
}

func scanZone(row pgx.Row) (domain.Zone, error) {
	var z domain.Zone
	err := row.Scan(&z.ID, &z.KMLFile, &z.Name, &z.Points, &z.Group, &z.Enabled, &z.UpdatedAt)
	return z, err
}
