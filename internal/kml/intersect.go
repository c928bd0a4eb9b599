package kml

import "math"

// relation classifies how a query segment meets one polygon edge.
type relation int

const (
	relNone relation = iota
	relCross
	relNotLine
	relCollinear
	// both segments have an endpoint on the other one
	relCommonPoint
	// an endpoint of the query segment lies on the edge
	relQueryTouchesEdge
	// an endpoint of the edge lies on the query segment
	relEdgeTouchesQuery
)

var relationNames = [...]string{"none", "cross", "not_line", "collinear", "common_point", "query_touches_edge", "edge_touches_query"}

func (r relation) String() string {
	return relationNames[r]
}

// line is the infinite line A·x + B·y + C = 0 with x as longitude and y as latitude.
type line struct {
	a, b, c float64
}

func lineThrough(start, end Coordinate) line {
	return line{
		a: start.Lat - end.Lat,
		b: end.Lon - start.Lon,
		c: start.Lon*end.Lat - end.Lon*start.Lat,
	}
}

func (l line) degenerate(tol float64) bool {
	return math.Abs(l.a) <= tol && math.Abs(l.b) <= tol
}

// side is positive on one side of the line, negative on the other and zero on it.
func (l line) side(p Coordinate) float64 {
	return l.a*p.Lon + l.b*p.Lat + l.c
}

// sides holds each endpoint's side value against the other segment's line.
type sides struct {
	queryStart, queryEnd float64
	edgeStart, edgeEnd   float64
}

func onLine(d, tol float64) bool {
	return math.Abs(d) <= tol
}

func strictlySameSide(d1, d2, tol float64) bool {
	return (d1 > tol && d2 > tol) || (d1 < -tol && d2 < -tol)
}

// classify reports how the query segment [qs, qe] meets the edge [es, ee].
// The side values are only meaningful when the relation is not relNone or relNotLine.
func classify(qs, qe, es, ee Coordinate, tol float64) (relation, sides) {
	var s sides

	q := lineThrough(qs, qe)
	if q.degenerate(tol) {
		return relNotLine, s
	}
	s.edgeStart, s.edgeEnd = q.side(es), q.side(ee)
	if strictlySameSide(s.edgeStart, s.edgeEnd, tol) {
		return relNone, s
	}

	e := lineThrough(es, ee)
	if e.degenerate(tol) {
		return relNotLine, s
	}
	s.queryStart, s.queryEnd = e.side(qs), e.side(qe)
	if strictlySameSide(s.queryStart, s.queryEnd, tol) {
		return relNone, s
	}

	edgeTouches := onLine(s.edgeStart, tol) || onLine(s.edgeEnd, tol)
	queryTouches := onLine(s.queryStart, tol) || onLine(s.queryEnd, tol)

	switch {
	case onLine(s.edgeStart, tol) && onLine(s.edgeEnd, tol) && onLine(s.queryStart, tol) && onLine(s.queryEnd, tol):
		return relCollinear, s
	case !edgeTouches && !queryTouches:
		return relCross, s
	case edgeTouches && queryTouches:
		return relCommonPoint, s
	case edgeTouches:
		return relEdgeTouchesQuery, s
	case queryTouches:
		return relQueryTouchesEdge, s
	}

	assertf(false, "unclassified segment pair %+v", s)
	return relNone, s
}
