package domain

import (
	"fmt"
	"math"
)

// SeverityBucket is an EPA AQI category.
type SeverityBucket int

const (
	Good SeverityBucket = iota
	Moderate
	Sensitive
	Unhealthy
	VeryUnhealthy
	Hazardous
)

// Buckets lists every bucket in ascending severity.
func Buckets() []SeverityBucket {
	return []SeverityBucket{Good, Moderate, Sensitive, Unhealthy, VeryUnhealthy, Hazardous}
}

var bucketInfo = [...]struct {
	name  string
	label string
	color string
	upper float64 // inclusive upper edge
}{
	Good:          {"good", "Good", "#00e400", 50},
	Moderate:      {"moderate", "Moderate", "#ffff00", 100},
	Sensitive:     {"sensitive", "Unhealthy for Sensitive Groups", "#ff7e00", 150},
	Unhealthy:     {"unhealthy", "Unhealthy", "#ff0000", 200},
	VeryUnhealthy: {"very_unhealthy", "Very Unhealthy", "#8f3f97", 300},
	Hazardous:     {"hazardous", "Hazardous", "#7e0023", math.Inf(1)},
}

// BucketFor classifies an AQI value. Edges belong to the lower bucket, so 50
// is Good and 50.0001 is Moderate. Values that fail every comparison (NaN)
// land in Hazardous, matching the threshold chain used by the map page.
func BucketFor(aqi float64) SeverityBucket {
	switch {
	case aqi <= 50:
		return Good
	case aqi <= 100:
		return Moderate
	case aqi <= 150:
		return Sensitive
	case aqi <= 200:
		return Unhealthy
	case aqi <= 300:
		return VeryUnhealthy
	default:
		return Hazardous
	}
}

func (b SeverityBucket) valid() bool {
	return b >= Good && b <= Hazardous
}

// String returns the bucket's wire name, e.g. "very_unhealthy".
func (b SeverityBucket) String() string {
	if !b.valid() {
		return fmt.Sprintf("SeverityBucket(%d)", int(b))
	}
	return bucketInfo[b].name
}

// Label returns the EPA category name.
func (b SeverityBucket) Label() string {
	if !b.valid() {
		return ""
	}
	return bucketInfo[b].label
}

// Color returns the fixed display color as a #rrggbb string.
func (b SeverityBucket) Color() string {
	if !b.valid() {
		return ""
	}
	return bucketInfo[b].color
}

// Range returns the bucket's half-open AQI interval (lo, hi]. Good starts at
// -Inf and Hazardous ends at +Inf so the buckets cover the whole real line.
func (b SeverityBucket) Range() (lo, hi float64) {
	if !b.valid() {
		return math.NaN(), math.NaN()
	}
	hi = bucketInfo[b].upper
	if b == Good {
		return math.Inf(-1), hi
	}
	return bucketInfo[b-1].upper, hi
}

// MarshalText encodes the bucket by name.
func (b SeverityBucket) MarshalText() ([]byte, error) {
	if !b.valid() {
		return nil, fmt.Errorf("marshal severity bucket %d: out of range", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText decodes a bucket name produced by MarshalText.
func (b *SeverityBucket) UnmarshalText(text []byte) error {
	for _, c := range Buckets() {
		if bucketInfo[c].name == string(text) {
			*b = c
			return nil
		}
	}
	return fmt.Errorf("unknown severity bucket %q", text)
}
