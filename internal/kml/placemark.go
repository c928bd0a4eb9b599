package kml

import "math"

// Placemark is one named feature: standalone lines, polygon outer boundaries
// and polygon holes.
type Placemark struct {
	Name  string
	Lines []Ring
	Outer []Ring
	Inner []Ring

	malformed int
}

// readPlacemark collects LineString and Polygon geometry, including geometry
// nested in MultiGeometry.
func readPlacemark(n *Node) Placemark {
	p := Placemark{Name: trimName(n.ChildText("name"))}
	p.readGeometry(n)
	return p
}

func (p *Placemark) readGeometry(n *Node) {
	for _, ls := range n.ChildrenNamed("LineString") {
		p.Lines = append(p.Lines, p.ring(ls, false))
	}
	for _, poly := range n.ChildrenNamed("Polygon") {
		for _, b := range poly.ChildrenNamed("outerBoundaryIs") {
			for _, lr := range b.ChildrenNamed("LinearRing") {
				p.Outer = append(p.Outer, p.ring(lr, true))
			}
		}
		for _, b := range poly.ChildrenNamed("innerBoundaryIs") {
			for _, lr := range b.ChildrenNamed("LinearRing") {
				p.Inner = append(p.Inner, p.ring(lr, true))
			}
		}
	}
	for _, mg := range n.ChildrenNamed("MultiGeometry") {
		p.readGeometry(mg)
	}
}

func (p *Placemark) ring(n *Node, closed bool) Ring {
	r, malformed := ParseRing(n.ChildText("coordinates"), closed)
	p.malformed += malformed
	return r
}

func (p *Placemark) rings() [][]Ring {
	return [][]Ring{p.Lines, p.Outer, p.Inner}
}

// BoundingBox returns the union of every ring's box.
func (p *Placemark) BoundingBox() BoundingBox {
	b := EmptyBoundingBox()
	for _, group := range p.rings() {
		for _, r := range group {
			b = b.Union(r.BoundingBox())
		}
	}
	return b
}

// Contains casts a ray from west of the bounding box to the point and sums
// crossings over lines, outer boundaries and holes. An odd total is inside.
func (p *Placemark) Contains(lat, lon float64) Containment {
	start := Coordinate{Lat: lat, Lon: p.BoundingBox().MinLon - RayMargin}
	end := Coordinate{Lat: lat, Lon: lon}

	total := 0
	for _, group := range p.rings() {
		for _, r := range group {
			c := r.CountCrossings(start, end, Tolerance)
			if c.OnBoundary {
				return OnBoundary
			}
			total += c.Count
		}
	}
	if total%2 == 1 {
		return Inside
	}
	return Outside
}

// PointInPolygon reports whether the point is inside or on the boundary.
func (p *Placemark) PointInPolygon(lat, lon float64) bool {
	return p.Contains(lat, lon).Inside()
}

// DistanceFrom returns the distance in meters to the nearest ring segment.
// ok is false when the placemark has no segment.
func (p *Placemark) DistanceFrom(lat, lon float64) (meters float64, ok bool) {
	point := Coordinate{Lat: lat, Lon: lon}
	meters = math.Inf(1)
	for _, group := range p.rings() {
		for _, r := range group {
			if d, has := r.DistanceFrom(point); has && d < meters {
				meters, ok = d, true
			}
		}
	}
	if !ok {
		return 0, false
	}
	return meters, true
}
