package domain

import (
	"time"
)

// Setting keys stored in global_vars.
const (
	SettingPlayingFieldKML = "playing_field_kml"
	SettingOSMRoadsKML     = "osm_roads_kml"
)

// Zone is a bonus zone: a KML file worth points when a placement falls inside it.
// Only the highest scoring matched zone of each group counts.
type Zone struct {
	ID        int64     `json:"id"`
	KMLFile   string    `json:"kml_file"`
	Name      string    `json:"name"`
	Points    int       `json:"points"`
	Group     string    `json:"zone_group,omitempty"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ZoneUpdate creates, updates or deletes the zone registered for KMLFile.
type ZoneUpdate struct {
	KMLFile string `json:"kml_name"`
	Name    string `json:"zone_name"`
	Points  int    `json:"points"`
	Group   string `json:"zone_group"`
	Enabled *bool  `json:"enabled,omitempty"`
	Delete  bool   `json:"delete"`
}

// ZoneChange is the outcome of a ZoneUpdate.
type ZoneChange int

const (
	ZoneNotFound ZoneChange = iota
	ZoneUpdated
	ZoneDeleted
	ZoneCreated
)

// Message is the user facing result text.
func (c ZoneChange) Message() string {
	switch c {
	case ZoneUpdated:
		return "Zone updated"
	case ZoneDeleted:
		return "Zone deleted"
	case ZoneCreated:
		return "Zone created"
	default:
		return "Zone not found"
	}
}

func (c ZoneChange) String() string {
	switch c {
	case ZoneUpdated:
		return "updated"
	case ZoneDeleted:
		return "deleted"
	case ZoneCreated:
		return "created"
	default:
		return "not_found"
	}
}

// BonusZoneHit is one zone reported for a checked point. Error is set instead
// of Points when the zone's KML could not be loaded.
type BonusZoneHit struct {
	Name   string `json:"name"`
	Points int    `json:"points,omitempty"`
	Group  string `json:"group,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CoordInfo describes where a point lies relative to the playing field,
// the bonus zones and the road network.
type CoordInfo struct {
	Lat            float64        `json:"lat"`
	Lon            float64        `json:"lon"`
	InPlayingField bool           `json:"in_playing_field"`
	BonusZones     []BonusZoneHit `json:"bonus_zones"`
	FromOSMRoad    *int           `json:"from_osm_road,omitempty"` // meters
	RoadKMLError   string         `json:"road_kml_error,omitempty"`
}

// ZoneNames lists the names of the zones the point scored in.
func (c *CoordInfo) ZoneNames() []string {
	var names []string
	for _, z := range c.BonusZones {
		if z.Error == "" {
			names = append(names, z.Name)
		}
	}
	return names
}

// Points sums the points of every zone the point scored in.
func (c *CoordInfo) Points() int {
	total := 0
	for _, z := range c.BonusZones {
		total += z.Points
	}
	return total
}

// Layer summarises one KML file in the files directory.
type Layer struct {
	File           string   `json:"file"`
	Name           string   `json:"name"`
	PlacemarkCount int      `json:"placemark_count"`
	Placemarks     []string `json:"placemarks,omitempty"`
	Bounds         *Bounds  `json:"bounds,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Settings holds the layers used by every coordinate check.
type Settings struct {
	PlayingFieldKML string `json:"playing_field_kml"`
	OSMRoadsKML     string `json:"osm_roads_kml"`
}

// CheckEvent is published after every coordinate check.
type CheckEvent struct {
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	InPlayingField bool      `json:"in_playing_field"`
	Zones          []string  `json:"zones,omitempty"`
	FromOSMRoad    *int      `json:"from_osm_road,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}

// ZoneEvent is published after a zone is created, updated or deleted.
type ZoneEvent struct {
	Change  string    `json:"change"`
	KMLFile string    `json:"kml_file"`
	Name    string    `json:"name,omitempty"`
	Points  int       `json:"points"`
	At      time.Time `json:"at"`
}

// Placement is a submitted point to be validated in bulk.
type Placement struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlacementResult is the check outcome for one Placement.
type PlacementResult struct {
	ID     string     `json:"id"`
	Info   *CoordInfo `json:"info,omitempty"`
	Points int        `json:"points"`
	Error  string     `json:"error,omitempty"`
}
