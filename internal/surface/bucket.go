package surface

import (
	"math"

	"github.com/couchcryptid/aqi-surface/internal/domain"
)

// WeightScale is the AQI at which a cell reaches full heat intensity.
const WeightScale = 150.0

// HeatOptions are the heat-layer settings every bucket layer is drawn with.
type HeatOptions struct {
	Radius     int     `json:"radius"`
	Blur       int     `json:"blur"`
	MinOpacity float64 `json:"min_opacity"`
	MaxOpacity float64 `json:"max_opacity"`
}

// DefaultHeatOptions matches the map page's heat layers.
var DefaultHeatOptions = HeatOptions{Radius: 25, Blur: 10, MinOpacity: 0.3, MaxOpacity: 0.5}

// Layer holds every cell of one bucket, drawn in that bucket's single color.
type Layer struct {
	Bucket domain.SeverityBucket `json:"bucket"`
	Color  string                `json:"color"`
	Heat   HeatOptions           `json:"heat"`
	Cells  []domain.BucketedCell `json:"cells"`
}

// Weight maps an AQI value to clamp(aqi/150, 0, 1).
func Weight(aqi float64) float64 {
	return min(max(aqi/WeightScale, 0), 1)
}

// Classify buckets one value at (lat, lon).
func Classify(lat, lon, aqi float64) domain.BucketedCell {
	return domain.BucketedCell{
		Lat:    lat,
		Lon:    lon,
		Bucket: domain.BucketFor(aqi),
		Weight: Weight(aqi),
	}
}

// Bucketize classifies every cell in row-major order. Non-finite values
// have no meaningful bucket and are left out.
func Bucketize(g domain.Grid) []domain.BucketedCell {
	out := make([]domain.BucketedCell, 0, g.Rows*g.Cols)
	for i, row := range g.Values {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lat, lon := g.Coord(i, j)
			out = append(out, Classify(lat, lon, v))
		}
	}
	return out
}

// Layers groups Bucketize output by bucket in ascending severity. Buckets
// with no cells are omitted.
func Layers(g domain.Grid) []Layer {
	groups := make(map[domain.SeverityBucket][]domain.BucketedCell)
	for _, c := range Bucketize(g) {
		groups[c.Bucket] = append(groups[c.Bucket], c)
	}

	var layers []Layer
	for _, b := range domain.Buckets() {
		cells := groups[b]
		if len(cells) == 0 {
			continue
		}
		layers = append(layers, Layer{
			Bucket: b,
			Color:  b.Color(),
			Heat:   DefaultHeatOptions,
			Cells:  cells,
		})
	}
	return layers
}

// FogOpacity is the heat overlay opacity for a map zoom level: full (0.5)
// when zoomed out, fading linearly between zoom 9 and 11, gone from 11 in.
func FogOpacity(zoom float64) float64 {
	switch {
	case zoom >= 11:
		return 0
	case zoom >= 9:
		return 0.5 * (11 - zoom) / 2
	default:
		return 0.5
	}
}
