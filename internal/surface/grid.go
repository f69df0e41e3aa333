package surface

import (
	"fmt"
	"math"

	"github.com/couchcryptid/aqi-surface/internal/domain"
)

// Margin is added on every side of the stations' bounding box so edge
// stations are not clipped against the interpolation boundary.
const Margin = 0.4

// Builder lays out grids and fills them through an Interpolator.
type Builder struct {
	power  float64
	metric Metric
}

// NewBuilder validates power up front so every Build reports only
// per-request problems. A nil metric means Planar.
func NewBuilder(power float64, metric Metric) (*Builder, error) {
	if !(power > 0) || math.IsInf(power, 1) {
		return nil, fmt.Errorf("%w: power must be positive and finite, got %v", domain.ErrInvalidParameter, power)
	}
	if metric == nil {
		metric = Planar
	}
	return &Builder{power: power, metric: metric}, nil
}

// Build interpolates a p.Rows × p.Cols lattice over the samples. It returns
// domain.ErrNoData for an empty sample set and domain.ErrInvalidParameter
// for out-of-range parameters.
func (b *Builder) Build(samples []domain.Sample, p domain.GridParams) (domain.Grid, error) {
	if len(samples) == 0 {
		return domain.Grid{}, domain.ErrNoData
	}
	if err := p.Validate(); err != nil {
		return domain.Grid{}, err
	}
	ip, err := NewInterpolator(p.K, b.power, b.metric)
	if err != nil {
		return domain.Grid{}, err
	}

	env, _ := domain.Envelope(samples)
	env = env.Expand(Margin)

	g := domain.Grid{
		Rows:   p.Rows,
		Cols:   p.Cols,
		MinLat: env.MinLat,
		MinLon: env.MinLon,
		DLat:   (env.MaxLat - env.MinLat) / float64(p.Rows-1),
		DLon:   (env.MaxLon - env.MinLon) / float64(p.Cols-1),
		Values: make([][]float64, p.Rows),
	}

	cells := make([]float64, p.Rows*p.Cols)
	buf := make([]neighbor, 0, len(samples))
	for i := range p.Rows {
		row := cells[i*p.Cols : (i+1)*p.Cols : (i+1)*p.Cols]
		for j := range p.Cols {
			lat, lon := g.Coord(i, j)
			row[j], buf = ip.estimate(lat, lon, samples, buf)
		}
		g.Values[i] = row
	}
	return g, nil
}

// BuildGrid is the one-shot form with inverse-square weighting and the
// planar metric.
func BuildGrid(samples []domain.Sample, rows, cols, k int) (domain.Grid, error) {
	b, err := NewBuilder(DefaultPower, Planar)
	if err != nil {
		return domain.Grid{}, err
	}
	return b.Build(samples, domain.GridParams{Rows: rows, Cols: cols, K: k})
}
