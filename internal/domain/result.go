package domain

// GridResult is a built grid together with the snapshot it came from.
// Snapshot is the exact station set the grid was interpolated from, so
// callers never pair the grid with a newer snapshot.
type GridResult struct {
	SnapshotID string     `json:"snapshot_id"`
	Params     GridParams `json:"params"`
	Grid       Grid       `json:"grid"`
	Summary    Summary    `json:"summary"`
	Snapshot   Snapshot   `json:"-"`
}

// PointKind says what answered a hover query.
type PointKind string

const (
	PointStation PointKind = "station"
	PointGrid    PointKind = "grid"
	PointNone    PointKind = "none"
)

// PointResult answers "what is the AQI here?". A station within the snap
// radius wins; otherwise the nearest lattice value, rounded; otherwise
// nothing. AQI, Bucket and Color are unset for PointNone.
type PointResult struct {
	Kind    PointKind       `json:"kind"`
	Lat     float64         `json:"lat"`
	Lon     float64         `json:"lon"`
	AQI     *float64        `json:"aqi,omitempty"`
	Bucket  *SeverityBucket `json:"bucket,omitempty"`
	Color   string          `json:"color,omitempty"`
	Station *Sample         `json:"station,omitempty"`
	Meters  float64         `json:"meters,omitempty"`
}
