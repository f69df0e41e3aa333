package surface

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func scenarioSamples() []domain.Sample {
	return []domain.Sample{
		{Lat: 35.0, Lon: 139.0, AQI: 20, Name: "A"},
		{Lat: 35.1, Lon: 139.0, AQI: 80, Name: "B"},
		{Lat: 35.0, Lon: 139.1, AQI: 200, Name: "C"},
	}
}

// randomSamples scatters n stations over the Japan box with a fixed seed.
func randomSamples(n int, seed uint64) []domain.Sample {
	r := rand.New(rand.NewPCG(seed, seed*31+7))
	out := make([]domain.Sample, n)
	for i := range out {
		out[i] = domain.Sample{
			Lat: 24 + r.Float64()*22,
			Lon: 123 + r.Float64()*23,
			AQI: float64(20 + r.IntN(141)),
		}
	}
	return out
}

func aqiValues(samples []domain.Sample) []float64 {
	v := make([]float64, len(samples))
	for i, s := range samples {
		v[i] = s.AQI
	}
	return v
}

func TestEstimate_ConcreteScenario(t *testing.T) {
	v, err := Estimate(35.05, 139.0, scenarioSamples(), 3, 2)
	require.NoError(t, err)

	assert.Greater(t, v, 20.0)
	assert.Less(t, v, 200.0)

	abMean := (20.0 + 80.0) / 2
	assert.Less(t, math.Abs(v-abMean), math.Abs(v-200), "estimate should sit nearer the two closest stations")
	// A and B are 0.05° away, C is sqrt(0.0125)°: weights 400, 400, 80.
	assert.InDelta(t, 56000.0/880.0, v, 1e-6)
}

func TestEstimate_EmptySamplesReturnsZero(t *testing.T) {
	v, err := Estimate(35, 139, nil, 6, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestEstimate_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		k     int
		power float64
	}{
		{"zero k", 0, 2},
		{"negative k", -3, 2},
		{"zero power", 3, 0},
		{"negative power", 3, -1},
		{"NaN power", 3, math.NaN()},
		{"infinite power", 3, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(35, 139, scenarioSamples(), tt.k, tt.power)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
		})
	}
}

func TestEstimate_ExactMatch(t *testing.T) {
	samples := scenarioSamples()
	for _, s := range samples {
		v, err := Estimate(s.Lat, s.Lon, samples, 3, DefaultPower)
		require.NoError(t, err)
		assert.InDelta(t, s.AQI, v, 1e-6, "station %s", s.Name)
	}
}

func TestEstimate_WithinSampleRange(t *testing.T) {
	samples := randomSamples(60, 1)
	values := aqiValues(samples)
	lo, hi := floats.Min(values), floats.Max(values)

	r := rand.New(rand.NewPCG(9, 9))
	for _, k := range []int{1, 3, 6, 60, 100} {
		ip, err := NewInterpolator(k, DefaultPower, Planar)
		require.NoError(t, err)
		for range 200 {
			lat := 20 + r.Float64()*30
			lon := 120 + r.Float64()*30
			v := ip.Estimate(lat, lon, samples)
			assert.GreaterOrEqual(t, v, lo-1e-9)
			assert.LessOrEqual(t, v, hi+1e-9)
		}
	}
}

func TestEstimate_KOneIsNearestNeighbor(t *testing.T) {
	v, err := Estimate(35.09, 139.0, scenarioSamples(), 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, v, 1e-9)
}

func TestEstimate_LargerKSmoothsTowardMean(t *testing.T) {
	// Equidistant stations: with all of them in play every weight is equal.
	samples := []domain.Sample{
		{Lat: 1, Lon: 0, AQI: 10},
		{Lat: 0, Lon: 1, AQI: 20},
		{Lat: -1, Lon: 0, AQI: 30},
		{Lat: 0, Lon: -1, AQI: 40},
	}
	mean := stat.Mean(aqiValues(samples), nil)

	prevGap := math.Inf(1)
	for k := 1; k <= len(samples); k++ {
		v, err := Estimate(0, 0, samples, k, 2)
		require.NoError(t, err)
		gap := math.Abs(v - mean)
		assert.Less(t, gap, prevGap, "k=%d", k)
		prevGap = gap
	}
	assert.InDelta(t, 0, prevGap, 1e-9)
}

func TestEstimate_TiesKeepInputOrder(t *testing.T) {
	samples := []domain.Sample{
		{Lat: 1, Lon: 0, AQI: 100},
		{Lat: -1, Lon: 0, AQI: 10},
	}
	v, err := Estimate(0, 0, samples, 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, v, 1e-9)

	samples[0], samples[1] = samples[1], samples[0]
	v, err = Estimate(0, 0, samples, 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, v, 1e-9)
}

func TestEstimate_PowerControlsLocality(t *testing.T) {
	samples := scenarioSamples()
	soft, err := Estimate(35.02, 139.02, samples, 3, 1)
	require.NoError(t, err)
	sharp, err := Estimate(35.02, 139.02, samples, 3, 4)
	require.NoError(t, err)

	// The query is closest to A (aqi 20); a higher power leans harder on it.
	assert.Less(t, sharp, soft)
}

func TestInterpolator_DoesNotMutateSamples(t *testing.T) {
	samples := scenarioSamples()
	before := append([]domain.Sample(nil), samples...)

	ip, err := NewInterpolator(2, DefaultPower, nil)
	require.NoError(t, err)
	_ = ip.Estimate(35.03, 139.07, samples)

	assert.Equal(t, before, samples)
}
