package kml

import (
	"math"
	"strconv"
	"strings"

	"github.com/samirrijal/geofence/internal/pkg/geospatial"
)

// Ring is an ordered vertex chain: a standalone line or one polygon boundary.
// Rings are never closed implicitly; a boundary repeats its first vertex last.
type Ring struct {
	coords []Coordinate
	closed bool
}

// NewRing builds a ring from already parsed vertices.
func NewRing(coords []Coordinate, closed bool) Ring {
	return Ring{coords: append([]Coordinate(nil), coords...), closed: closed}
}

// ParseRing parses a KML coordinates string of whitespace separated
// "lon,lat[,ele]" tuples. Tokens without a comma are skipped and fields that
// are not numbers read as 0. Anything after the elevation is ignored, so
// "1,2,3,4" reads elevation 3. The second result counts the tokens that were
// skipped or zero-filled.
func ParseRing(raw string, closed bool) (Ring, int) {
	r := Ring{closed: closed}
	malformed := 0
	for _, token := range strings.Fields(raw) {
		c, ok := parseCoordinate(token)
		if !ok {
			malformed++
		}
		if c != nil {
			r.coords = append(r.coords, *c)
		}
	}
	return r, malformed
}

func parseCoordinate(token string) (*Coordinate, bool) {
	fields := strings.SplitN(token, ",", 3)
	if len(fields) < 2 {
		return nil, false
	}

	ok := true
	parse := func(s string, optional bool) float64 {
		if optional && s == "" {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			ok = false
			return 0
		}
		return v
	}

	c := &Coordinate{Lon: parse(fields[0], false), Lat: parse(fields[1], false)}
	if len(fields) == 3 {
		ele, _, _ := strings.Cut(fields[2], ",")
		c.Ele = parse(ele, true)
	}
	return c, ok
}

// Coordinates returns a copy of the vertices.
func (r Ring) Coordinates() []Coordinate {
	return append([]Coordinate(nil), r.coords...)
}

// Closed reports whether the ring is a polygon boundary.
func (r Ring) Closed() bool { return r.closed }

// Len returns the number of vertices.
func (r Ring) Len() int { return len(r.coords) }

// BoundingBox returns the extent of the ring, or EmptyBoundingBox for a ring without vertices.
func (r Ring) BoundingBox() BoundingBox {
	b := EmptyBoundingBox()
	for _, c := range r.coords {
		b = b.Extend(c)
	}
	return b
}

// Crossings is the outcome of casting a query segment against one ring.
type Crossings struct {
	Count int
	// OnBoundary is set when an end of the query segment lies on the ring.
	// Count is not meaningful then.
	OnBoundary bool
}

// CountCrossings counts the edges of r crossed by the segment [start, end].
//
// An edge whose vertex sits exactly on the segment counts once only when its
// other vertex is on the positive side, so a vertex where the boundary passes
// through the segment counts once and a vertex that only touches it counts
// zero or two times. Collinear edges and zero-length edges add nothing, but
// an end of the segment lying within a collinear edge is on the boundary.
func (r Ring) CountCrossings(start, end Coordinate, tol float64) Crossings {
	var out Crossings
	for i := 0; i+1 < len(r.coords); i++ {
		rel, s := classify(start, end, r.coords[i], r.coords[i+1], tol)
		switch rel {
		case relCommonPoint, relQueryTouchesEdge:
			return Crossings{Count: out.Count, OnBoundary: true}
		case relCollinear:
			if within(start, r.coords[i], r.coords[i+1], tol) || within(end, r.coords[i], r.coords[i+1], tol) {
				return Crossings{Count: out.Count, OnBoundary: true}
			}
		case relEdgeTouchesQuery:
			if onLine(s.edgeStart, tol) {
				if s.edgeEnd > tol {
					out.Count++
				}
			} else if onLine(s.edgeEnd, tol) && s.edgeStart > tol {
				out.Count++
			}
		case relCross:
			out.Count++
		}
	}
	return out
}

// within reports whether p, already known to be on the line through a and b,
// lies between them.
func within(p, a, b Coordinate, tol float64) bool {
	return p.Lat >= math.Min(a.Lat, b.Lat)-tol && p.Lat <= math.Max(a.Lat, b.Lat)+tol &&
		p.Lon >= math.Min(a.Lon, b.Lon)-tol && p.Lon <= math.Max(a.Lon, b.Lon)+tol
}

// DistanceFrom returns the shortest distance in meters from p to any segment
// of the ring. ok is false when the ring has fewer than two vertices.
func (r Ring) DistanceFrom(p Coordinate) (meters float64, ok bool) {
	meters = math.Inf(1)
	for i := 0; i+1 < len(r.coords); i++ {
		d := geospatial.DistanceToSegment(p.latLon(), r.coords[i].latLon(), r.coords[i+1].latLon())
		if d < meters {
			meters = d
		}
		ok = true
	}
	if !ok {
		return 0, false
	}
	return meters, true
}
