package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds is a latitude/longitude box in decimal degrees.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// ParseBounds parses "minLat,minLon,maxLat,maxLon", the same order the WAQI
// latlng parameter uses.
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("bounds %q: want minLat,minLon,maxLat,maxLon", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("bounds %q: %w", s, err)
		}
		v[i] = f
	}
	b := Bounds{MinLat: v[0], MinLon: v[1], MaxLat: v[2], MaxLon: v[3]}
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return Bounds{}, fmt.Errorf("bounds %q: min must be below max", s)
	}
	return b, nil
}

// String formats the box in ParseBounds order.
func (b Bounds) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Expand grows every side of the box by margin degrees.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinLat: b.MinLat - margin,
		MinLon: b.MinLon - margin,
		MaxLat: b.MaxLat + margin,
		MaxLon: b.MaxLon + margin,
	}
}

// Envelope returns the raw bounding box of the samples. ok is false for an
// empty slice.
func Envelope(samples []Sample) (b Bounds, ok bool) {
	if len(samples) == 0 {
		return Bounds{}, false
	}
	b = Bounds{
		MinLat: samples[0].Lat, MaxLat: samples[0].Lat,
		MinLon: samples[0].Lon, MaxLon: samples[0].Lon,
	}
	for _, s := range samples[1:] {
		b.MinLat = min(b.MinLat, s.Lat)
		b.MaxLat = max(b.MaxLat, s.Lat)
		b.MinLon = min(b.MinLon, s.Lon)
		b.MaxLon = max(b.MaxLon, s.Lon)
	}
	return b, true
}
