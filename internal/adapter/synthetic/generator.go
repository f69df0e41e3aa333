// Package synthetic produces random stations for when no real source has
// data, so the map is never blank.
package synthetic

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/couchcryptid/aqi-surface/internal/domain"
)

// Station values are drawn uniformly from [MinAQI, MaxAQI].
const (
	MinAQI      = 20
	MaxAQI      = 160
	StationName = "Synthetic"
)

// Generator implements domain.StationSource with uniformly scattered
// stations inside a box.
type Generator struct {
	bounds domain.Bounds
	count  int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator with a random seed.
func NewGenerator(bounds domain.Bounds, count int) *Generator {
	return NewSeededGenerator(bounds, count, rand.Uint64())
}

// NewSeededGenerator creates a generator whose output is fully determined
// by seed.
func NewSeededGenerator(bounds domain.Bounds, count int, seed uint64) *Generator {
	return &Generator{
		bounds: bounds,
		count:  count,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Stations returns a fresh batch on every call.
func (g *Generator) Stations(ctx context.Context) ([]domain.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]domain.Sample, g.count)
	for i := range out {
		out[i] = domain.Sample{
			Lat:  g.uniform(g.bounds.MinLat, g.bounds.MaxLat),
			Lon:  g.uniform(g.bounds.MinLon, g.bounds.MaxLon),
			AQI:  float64(MinAQI + g.rng.IntN(MaxAQI-MinAQI+1)),
			Name: StationName,
		}
	}
	return out, nil
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
