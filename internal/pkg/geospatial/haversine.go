package geospatial

import "math"

// EarthRadiusMeters is the mean earth radius used by every distance in this package.
const EarthRadiusMeters = 6371000.0

// LatLon is a position in decimal degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return CentralAngle(LatLon{lat1, lon1}, LatLon{lat2, lon2}) * EarthRadiusMeters
}

// CentralAngle returns the angular distance in radians between a and b.
func CentralAngle(a, b LatLon) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// InitialBearing returns the forward azimuth in radians, in (-π, π], from a towards b.
func InitialBearing(a, b LatLon) float64 {
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)
	dLon := toRad(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Atan2(y, x)
}

// DistanceToSegment returns the shortest great-circle distance in meters from p
// to the segment between start and end.
//
// When p lies behind start (bearings more than 90° apart) the distance to start
// is returned. Otherwise the foot of the perpendicular on the great circle is
// located; if it falls past end, the distance to end is returned.
func DistanceToSegment(p, start, end LatLon) float64 {
	toEnd := InitialBearing(start, end)
	toPoint := InitialBearing(start, p)
	startToPoint := CentralAngle(start, p)

	delta := math.Pi - math.Abs(math.Abs(toEnd-toPoint)-math.Pi)
	if delta >= math.Pi/2 {
		return startToPoint * EarthRadiusMeters
	}

	crossTrack := math.Asin(math.Sin(startToPoint) * math.Sin(toPoint-toEnd))
	alongTrack := math.Acos(clampUnit(math.Cos(startToPoint) / math.Cos(crossTrack)))

	if alongTrack < CentralAngle(start, end) {
		return math.Abs(crossTrack) * EarthRadiusMeters
	}
	return CentralAngle(end, p) * EarthRadiusMeters
}

// clampUnit keeps rounding noise from pushing an acos argument outside [-1, 1].
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
