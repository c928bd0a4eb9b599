package kml

import "github.com/samirrijal/geofence/internal/pkg/geospatial"

// Tolerance is the absolute slack used by the line-side tests of the ray caster.
const Tolerance = 1e-10

// RayMargin is how far west of a feature's bounding box, in degrees, the
// containment ray starts.
const RayMargin = 0.1

// NoDataDistance is the magnitude older callers used for "nothing to measure
// against". Distance queries report that case through their ok result instead.
const NoDataDistance = 40_000_000.0

// Coordinate is a single vertex. Lat and Lon are decimal degrees, Ele is meters.
type Coordinate struct {
	Lat float64
	Lon float64
	Ele float64
}

func (c Coordinate) latLon() geospatial.LatLon {
	return geospatial.LatLon{Lat: c.Lat, Lon: c.Lon}
}

// BoundingBox is an axis aligned box in degrees.
type BoundingBox struct {
	MaxLat float64
	MinLat float64
	MaxLon float64
	MinLon float64
}

// EmptyBoundingBox returns the inverted box that every real box extends.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{MaxLat: -1000, MinLat: 1000, MaxLon: -1000, MinLon: 1000}
}

// IsEmpty reports whether the box bounds nothing.
func (b BoundingBox) IsEmpty() bool {
	return b.MaxLat < b.MinLat || b.MaxLon < b.MinLon
}

// Extend grows the box to include c.
func (b BoundingBox) Extend(c Coordinate) BoundingBox {
	if c.Lat > b.MaxLat {
		b.MaxLat = c.Lat
	}
	if c.Lat < b.MinLat {
		b.MinLat = c.Lat
	}
	if c.Lon > b.MaxLon {
		b.MaxLon = c.Lon
	}
	if c.Lon < b.MinLon {
		b.MinLon = c.Lon
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.Extend(Coordinate{Lat: o.MaxLat, Lon: o.MaxLon}).Extend(Coordinate{Lat: o.MinLat, Lon: o.MinLon})
}

// Containment is the result of a point-in-polygon query.
type Containment int

const (
	Outside Containment = iota
	Inside
	OnBoundary
)

// Inside reports whether the point counts as inside. Boundary points do.
func (c Containment) Inside() bool {
	return c != Outside
}

func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case OnBoundary:
		return "on_boundary"
	default:
		return "outside"
	}
}
