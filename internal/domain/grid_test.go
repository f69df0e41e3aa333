package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testGrid() Grid {
	return Grid{
		Rows:   3,
		Cols:   4,
		MinLat: 10,
		MinLon: 20,
		DLat:   1,
		DLon:   0.5,
		Values: [][]float64{
			{1, 2, 3, 4},
			{5, 6, 7, 8},
			{9, 10, 11, 12},
		},
	}
}

func TestGrid_ValueAt(t *testing.T) {
	g := testGrid()

	tests := []struct {
		name     string
		lat, lon float64
		expected float64
		ok       bool
	}{
		{"origin", 10, 20, 1, true},
		{"far corner", 12, 21.5, 12, true},
		{"rounds to nearest", 10.6, 20.7, 6, true},
		{"half rounds up", 10.5, 20, 5, true},
		{"just below origin still rounds in", 9.6, 19.8, 1, true},
		{"negative half rounds to zero", 9.5, 20, 1, true},
		{"below grid", 9.4, 20, 0, false},
		{"above grid", 12.5, 20, 0, false},
		{"left of grid", 10, 19.7, 0, false},
		{"right of grid", 10, 21.75, 0, false},
		{"NaN", math.NaN(), 20, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := g.ValueAt(tt.lat, tt.lon)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestGrid_ValueAt_EmptyGrid(t *testing.T) {
	_, ok := Grid{}.ValueAt(0, 0)
	assert.False(t, ok)
}

func TestGrid_BoundsAndCoord(t *testing.T) {
	g := testGrid()
	assert.Equal(t, Bounds{MinLat: 10, MinLon: 20, MaxLat: 12, MaxLon: 21.5}, g.Bounds())

	lat, lon := g.Coord(2, 3)
	assert.Equal(t, 12.0, lat)
	assert.Equal(t, 21.5, lon)
}
