package surface

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s2"
)

const (
	// MetersPerDegree converts planar degree distances to ground meters. It
	// holds at mid-latitudes and is not geodesically exact.
	MetersPerDegree = 111000.0

	// EarthRadiusMeters is the mean Earth radius used by the geodesic metric.
	EarthRadiusMeters = 6371000.0
)

// Metric measures distance between two coordinates. SquaredDistance must be
// monotone in true distance; it is what the interpolator weights and the
// nearest-station lookup ranks by. Meters converts a SquaredDistance result
// to an approximate ground distance.
type Metric interface {
	SquaredDistance(aLat, aLon, bLat, bLon float64) float64
	Meters(d2 float64) float64
}

// Planar treats latitude and longitude degrees as flat Cartesian axes. It is
// the default everywhere.
var Planar Metric = planar{}

// Geodesic measures great-circle angles (in degrees, so IDW weights stay on
// the planar scale) and converts them with the mean Earth radius. Switching
// to it changes visible results, so it is strictly opt-in.
var Geodesic Metric = geodesic{}

type planar struct{}

func (planar) SquaredDistance(aLat, aLon, bLat, bLon float64) float64 {
	dy := aLat - bLat
	dx := aLon - bLon
	return dy*dy + dx*dx
}

func (planar) Meters(d2 float64) float64 {
	return math.Sqrt(d2) * MetersPerDegree
}

func (planar) String() string { return "planar" }

type geodesic struct{}

func (geodesic) SquaredDistance(aLat, aLon, bLat, bLon float64) float64 {
	a := s2.LatLngFromDegrees(aLat, aLon).Distance(s2.LatLngFromDegrees(bLat, bLon)).Degrees()
	return a * a
}

func (geodesic) Meters(d2 float64) float64 {
	return math.Sqrt(d2) * math.Pi / 180 * EarthRadiusMeters
}

func (geodesic) String() string { return "geodesic" }

// ParseMetric maps a configuration name to a Metric. An empty name means
// planar.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "planar":
		return Planar, nil
	case "geodesic":
		return Geodesic, nil
	default:
		return nil, fmt.Errorf("unknown distance metric %q", name)
	}
}
