package kml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func polygon(t *testing.T, outer string, inner ...string) *Placemark {
	t.Helper()
	p := &Placemark{Name: "test"}
	r, n := ParseRing(outer, true)
	require.Zero(t, n)
	p.Outer = append(p.Outer, r)
	for _, raw := range inner {
		r, n := ParseRing(raw, true)
		require.Zero(t, n)
		p.Inner = append(p.Inner, r)
	}
	return p
}

func TestPlacemarkContainsSquare(t *testing.T) {
	p := polygon(t, "0,0 10,0 10,10 0,10 0,0")

	tests := []struct {
		name     string
		lat, lon float64
		inside   bool
	}{
		{"centre", 5, 5, true},
		{"far outside", 15, 15, false},
		{"east of field", 5, 15, false},
		{"west of field", 5, -5, false},
		{"north of field", 11, 5, false},
		{"on southern edge", 0, 5, true},
		{"on eastern edge", 5, 10, true},
		{"on western edge", 5, 0, true},
		{"on corner", 10, 10, true},
		{"just inside corner", 9.999, 9.999, true},
		{"just outside corner", 10.001, 10.001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inside, p.PointInPolygon(tt.lat, tt.lon))
		})
	}

	assert.Equal(t, Inside, p.Contains(5, 5))
	assert.Equal(t, Outside, p.Contains(15, 15))
	assert.Equal(t, OnBoundary, p.Contains(5, 10))
}

func TestPlacemarkContainsHole(t *testing.T) {
	p := polygon(t, "0,0 10,0 10,10 0,10 0,0", "3,3 7,3 7,7 3,7 3,3")

	assert.False(t, p.PointInPolygon(5, 5), "inside the hole")
	assert.True(t, p.PointInPolygon(1, 1), "between outer boundary and hole")
	assert.True(t, p.PointInPolygon(5, 8.5), "east of the hole")
	assert.True(t, p.PointInPolygon(5, 7), "on the hole boundary")
	assert.False(t, p.PointInPolygon(5, 12))
}

func TestPlacemarkContainsConcave(t *testing.T) {
	// U shape open to the north.
	p := polygon(t, "0,0 9,0 9,9 6,9 6,3 3,3 3,9 0,9 0,0")

	assert.True(t, p.PointInPolygon(6, 1.5), "left arm")
	assert.True(t, p.PointInPolygon(6, 7.5), "right arm")
	assert.False(t, p.PointInPolygon(6, 4.5), "inside the notch")
	assert.True(t, p.PointInPolygon(1.5, 4.5), "base")
	assert.True(t, p.PointInPolygon(3, 4.5), "on the notch floor")
}

func TestPlacemarkContainsOffsetPolygon(t *testing.T) {
	p := polygon(t, "138.5,-34.8 138.7,-34.8 138.7,-35.0 138.5,-35.0 138.5,-34.8")

	assert.True(t, p.PointInPolygon(-34.9, 138.6))
	assert.False(t, p.PointInPolygon(138.6, -34.9), "transposed arguments")
	assert.False(t, p.PointInPolygon(-34.9, 138.8))
}

func TestPlacemarkWithoutGeometry(t *testing.T) {
	p := &Placemark{Name: "empty"}
	assert.Equal(t, Outside, p.Contains(0, 0))
	_, ok := p.DistanceFrom(0, 0)
	assert.False(t, ok)
	assert.True(t, p.BoundingBox().IsEmpty())
}

func TestPlacemarkDistanceUsesEveryRing(t *testing.T) {
	p := polygon(t, "0,0 10,0 10,10 0,10 0,0", "3,3 7,3 7,7 3,7 3,3")
	road, _ := ParseRing("20,0 20,10", false)
	p.Lines = append(p.Lines, road)

	fromHole, ok := p.DistanceFrom(5, 6.5)
	require.True(t, ok)
	assert.InDelta(t, 55_386, fromHole, 5, "nearest is the hole's eastern edge")

	fromRoad, ok := p.DistanceFrom(5, 19)
	require.True(t, ok)
	assert.InDelta(t, 110_771, fromRoad, 100)
}

func TestPlacemarkBoundingBox(t *testing.T) {
	p := polygon(t, "0,0 10,0 10,10 0,10 0,0")
	road, _ := ParseRing("-5,-2 20,3", false)
	p.Lines = append(p.Lines, road)

	assert.Equal(t, BoundingBox{MaxLat: 10, MinLat: -2, MaxLon: 20, MinLon: -5}, p.BoundingBox())
}
