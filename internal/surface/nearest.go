package surface

import (
	"math"

	"github.com/couchcryptid/aqi-surface/internal/domain"
)

// SnapRadiusMeters is how close a station must be for a hover query to
// report it instead of the grid estimate.
const SnapRadiusMeters = 800.0

// Match is the nearest station and its approximate ground distance.
type Match struct {
	Station domain.Sample `json:"station"`
	Meters  float64       `json:"meters"`
}

// FindNearest returns the closest sample under the planar metric when it is
// strictly within SnapRadiusMeters.
func FindNearest(lat, lon float64, samples []domain.Sample) (domain.Sample, bool) {
	m, ok := Nearest(Planar, lat, lon, samples)
	return m.Station, ok
}

// Nearest scans every sample with the given metric and applies the snapping
// radius. The first of several equidistant samples wins. A nil metric means
// Planar.
func Nearest(metric Metric, lat, lon float64, samples []domain.Sample) (Match, bool) {
	if metric == nil {
		metric = Planar
	}

	best := -1
	bestD := math.Inf(1)
	for i, s := range samples {
		if d := metric.SquaredDistance(lat, lon, s.Lat, s.Lon); d < bestD {
			bestD = d
			best = i
		}
	}
	if best < 0 {
		return Match{}, false
	}

	meters := metric.Meters(bestD)
	if !(meters < SnapRadiusMeters) {
		return Match{}, false
	}
	return Match{Station: samples[best], Meters: meters}, true
}
