package domain

import "context"

// StationSource yields the current station readings. An empty result with
// a nil error means the source had nothing to offer.
type StationSource interface {
	Stations(ctx context.Context) ([]Sample, error)
}

// SnapshotStore keeps recent snapshots so a restart or an upstream outage
// can fall back to the last known good station set.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s Snapshot) error
	LatestSnapshot(ctx context.Context) (Snapshot, error)
}

// GridPublisher announces completed grid builds downstream.
type GridPublisher interface {
	PublishGrid(ctx context.Context, e GridEvent) error
}
