package surface

import (
	"fmt"
	"math"
	"sort"

	"github.com/couchcryptid/aqi-surface/internal/domain"
)

const (
	// DefaultPower weights neighbors by inverse squared distance.
	DefaultPower = 2.0

	// epsilon keeps the weight finite when the target sits exactly on a
	// station.
	epsilon = 1e-12
)

// Interpolator estimates AQI at arbitrary coordinates by inverse distance
// weighting over the k nearest samples.
type Interpolator struct {
	k      int
	power  float64
	metric Metric
}

// neighbor is a sample's squared distance to the current target.
type neighbor struct {
	d2  float64
	aqi float64
}

// NewInterpolator validates k and power. A nil metric means Planar.
func NewInterpolator(k int, power float64, metric Metric) (*Interpolator, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidParameter, k)
	}
	if !(power > 0) || math.IsInf(power, 1) {
		return nil, fmt.Errorf("%w: power must be positive and finite, got %v", domain.ErrInvalidParameter, power)
	}
	if metric == nil {
		metric = Planar
	}
	return &Interpolator{k: k, power: power, metric: metric}, nil
}

// Estimate returns the IDW estimate at (lat, lon). An empty sample set
// yields 0; callers must treat that as "no data".
func (ip *Interpolator) Estimate(lat, lon float64, samples []domain.Sample) float64 {
	v, _ := ip.estimate(lat, lon, samples, nil)
	return v
}

// estimate reuses buf for the neighbor list and returns it for the next call.
func (ip *Interpolator) estimate(lat, lon float64, samples []domain.Sample, buf []neighbor) (float64, []neighbor) {
	if len(samples) == 0 {
		return 0, buf
	}

	buf = buf[:0]
	for _, s := range samples {
		buf = append(buf, neighbor{
			d2:  ip.metric.SquaredDistance(lat, lon, s.Lat, s.Lon) + epsilon,
			aqi: s.AQI,
		})
	}

	// Stable so equidistant samples keep input order and results stay
	// deterministic.
	sort.SliceStable(buf, func(a, b int) bool { return buf[a].d2 < buf[b].d2 })

	n := min(ip.k, len(buf))
	var sumW, sumWA float64
	for _, nb := range buf[:n] {
		w := 1 / math.Pow(math.Sqrt(nb.d2), ip.power)
		sumW += w
		sumWA += w * nb.aqi
	}

	if sumW == 0 {
		return 0, buf
	}
	return sumWA / sumW, buf
}

// Estimate is the one-shot form with the planar metric. It fails only for
// invalid k or power.
func Estimate(lat, lon float64, samples []domain.Sample, k int, power float64) (float64, error) {
	ip, err := NewInterpolator(k, power, Planar)
	if err != nil {
		return 0, err
	}
	return ip.Estimate(lat, lon, samples), nil
}
