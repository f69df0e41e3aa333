package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot sources.
const (
	SourceWAQI      = "waqi"
	SourceStore     = "store"
	SourceSynthetic = "synthetic"
	SourceFile      = "file"
)

// Snapshot is one immutable station set as it was obtained from a source.
// Grids are always built against exactly one snapshot.
type Snapshot struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
	Stations  []Sample  `json:"stations"`
}

// NewSnapshot stamps a station set with a fresh id and the package clock.
// The slice is copied so later changes by the caller do not leak in.
func NewSnapshot(source string, stations []Sample) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Source:    source,
		FetchedAt: clock.Now().UTC(),
		Stations:  append([]Sample(nil), stations...),
	}
}

// Empty reports whether the snapshot holds no stations.
func (s Snapshot) Empty() bool {
	return len(s.Stations) == 0
}
