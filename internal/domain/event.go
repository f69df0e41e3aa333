package domain

import "time"

// Summary describes the distribution of a set of AQI values.
type Summary struct {
	Count        int                    `json:"count"`
	Min          float64                `json:"min"`
	Max          float64                `json:"max"`
	Mean         float64                `json:"mean"`
	StdDev       float64                `json:"stddev"`
	BucketCounts map[SeverityBucket]int `json:"bucket_counts"`
}

// GridEvent records one completed grid build. It is published downstream so
// consumers can track surface changes without re-running the build.
type GridEvent struct {
	SnapshotID     string     `json:"snapshot_id"`
	SnapshotSource string     `json:"snapshot_source"`
	Stations       int        `json:"stations"`
	Params         GridParams `json:"params"`
	Bounds         Bounds     `json:"bounds"`
	Summary        Summary    `json:"summary"`
	BuildDuration  float64    `json:"build_duration_seconds"`
	BuiltAt        time.Time  `json:"built_at"`
}
