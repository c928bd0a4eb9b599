package geospatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const oneDegree = math.Pi / 180 * EarthRadiusMeters

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		delta                  float64
	}{
		{"same point", -34.9, 138.6, -34.9, 138.6, 0, 1e-9},
		{"one degree of latitude", 0, 0, 1, 0, oneDegree, 1e-6},
		{"one degree of longitude at equator", 0, 0, 0, 1, oneDegree, 1e-6},
		{"adelaide to melbourne", -34.9285, 138.6007, -37.8136, 144.9631, 654_000, 2_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2), tt.delta)
		})
	}
}

func TestInitialBearing(t *testing.T) {
	origin := LatLon{0, 0}
	assert.InDelta(t, 0, InitialBearing(origin, LatLon{1, 0}), 1e-12)
	assert.InDelta(t, math.Pi/2, InitialBearing(origin, LatLon{0, 1}), 1e-12)
	assert.InDelta(t, math.Pi, math.Abs(InitialBearing(origin, LatLon{-1, 0})), 1e-12)
	assert.InDelta(t, -math.Pi/2, InitialBearing(origin, LatLon{0, -1}), 1e-12)
}

func TestDistanceToSegment(t *testing.T) {
	start, end := LatLon{0, 0}, LatLon{10, 0}

	t.Run("perpendicular foot inside segment", func(t *testing.T) {
		want := math.Asin(math.Sin(toRad(1))*math.Cos(toRad(5))) * EarthRadiusMeters
		assert.InDelta(t, want, DistanceToSegment(LatLon{5, 1}, start, end), 0.01)
		assert.InDelta(t, 111_000, DistanceToSegment(LatLon{5, 1}, start, end), 500)
	})

	t.Run("behind start", func(t *testing.T) {
		p := LatLon{-5, 0}
		assert.InDelta(t, Haversine(p.Lat, p.Lon, 0, 0), DistanceToSegment(p, start, end), 1e-6)
	})

	t.Run("beyond end", func(t *testing.T) {
		p := LatLon{12, 0.5}
		assert.InDelta(t, Haversine(p.Lat, p.Lon, 10, 0), DistanceToSegment(p, start, end), 1e-6)
	})

	t.Run("point on segment", func(t *testing.T) {
		assert.InDelta(t, 0, DistanceToSegment(LatLon{3, 0}, start, end), 1e-6)
	})

	t.Run("midpoint east uses perpendicular not endpoint", func(t *testing.T) {
		p := LatLon{0.5, 0.2}
		got := DistanceToSegment(p, LatLon{0, 0}, LatLon{1, 0})
		assert.Less(t, got, Haversine(p.Lat, p.Lon, 0, 0))
		assert.Less(t, got, Haversine(p.Lat, p.Lon, 1, 0))
		assert.InDelta(t, 0.2*oneDegree, got, 5)
	})

	t.Run("reversing the segment does not change the distance", func(t *testing.T) {
		for _, p := range []LatLon{{5, 1}, {-5, 0}, {12, 0.5}, {3, -2}, {0.5, 0.2}} {
			assert.InDelta(t, DistanceToSegment(p, start, end), DistanceToSegment(p, end, start), 1e-6, "point %v", p)
		}
	})
}
