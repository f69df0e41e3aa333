package surface

import (
	"math"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize describes the finite values of a grid.
func Summarize(g domain.Grid) domain.Summary {
	values := make([]float64, 0, g.Rows*g.Cols)
	for _, row := range g.Values {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values = append(values, v)
		}
	}
	return summarize(values)
}

// SummarizeSamples describes the station AQI values themselves.
func SummarizeSamples(samples []domain.Sample) domain.Summary {
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		values = append(values, s.AQI)
	}
	return summarize(values)
}

func summarize(values []float64) domain.Summary {
	s := domain.Summary{
		Count:        len(values),
		BucketCounts: make(map[domain.SeverityBucket]int),
	}
	if len(values) == 0 {
		return s
	}

	for _, v := range values {
		s.BucketCounts[domain.BucketFor(v)]++
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if len(values) < 2 || math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	return s
}
