// Package service owns the state around the pure surface engine: the
// current station snapshot, the source fallback chain, the grid cache and
// the periodic refresh loop.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	"github.com/couchcryptid/aqi-surface/internal/observability"
	"github.com/couchcryptid/aqi-surface/internal/surface"
	"github.com/jonboulle/clockwork"
)

// Options configures a Service. Only Metrics and Logger are required; any
// nil source is skipped in the chain.
type Options struct {
	// Primary is the live source, normally WAQI. PrimaryName labels its
	// snapshots and metrics and defaults to domain.SourceWAQI.
	Primary     domain.StationSource
	PrimaryName string

	// Store saves every successful primary fetch and serves the latest one
	// when the primary fails.
	Store domain.SnapshotStore

	// Fallback is the last resort, normally the synthetic generator.
	Fallback domain.StationSource

	// Publisher receives a GridEvent for every freshly built grid.
	Publisher domain.GridPublisher

	Metric          surface.Metric
	Power           float64
	DefaultParams   domain.GridParams
	CacheSize       int
	RefreshInterval time.Duration

	Clock   clockwork.Clock
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// Service serves grids and hover queries against the current snapshot.
type Service struct {
	primary     domain.StationSource
	primaryName string
	store       domain.SnapshotStore
	fallback    domain.StationSource
	publisher   domain.GridPublisher

	builder  *surface.Builder
	metric   surface.Metric
	defaults domain.GridParams
	interval time.Duration

	current atomic.Pointer[domain.Snapshot]
	cache   *gridCache
	ready   atomic.Bool

	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New validates the options and creates a Service with no snapshot loaded.
func New(opts Options) (*Service, error) {
	if opts.Metrics == nil {
		return nil, errors.New("metrics are required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Metric == nil {
		opts.Metric = surface.Planar
	}
	if opts.Power == 0 {
		opts.Power = surface.DefaultPower
	}
	builder, err := surface.NewBuilder(opts.Power, opts.Metric)
	if err != nil {
		return nil, err
	}

	if opts.DefaultParams == (domain.GridParams{}) {
		opts.DefaultParams = domain.DefaultGridParams()
	}
	if err := opts.DefaultParams.Validate(); err != nil {
		return nil, fmt.Errorf("default grid params: %w", err)
	}
	if opts.PrimaryName == "" {
		opts.PrimaryName = domain.SourceWAQI
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 10 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	return &Service{
		primary:     opts.Primary,
		primaryName: opts.PrimaryName,
		store:       opts.Store,
		fallback:    opts.Fallback,
		publisher:   opts.Publisher,
		builder:     builder,
		metric:      opts.Metric,
		defaults:    opts.DefaultParams,
		interval:    opts.RefreshInterval,
		cache:       newGridCache(opts.CacheSize),
		clock:       opts.Clock,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}, nil
}

// DefaultParams returns the grid parameters used when a request leaves them unset.
func (s *Service) DefaultParams() domain.GridParams {
	return s.defaults
}

// Snapshot returns the current snapshot; it is empty before the first
// successful refresh.
func (s *Service) Snapshot() domain.Snapshot {
	if p := s.current.Load(); p != nil {
		return *p
	}
	return domain.Snapshot{}
}

// SetSnapshot installs a snapshot directly, bypassing the source chain.
func (s *Service) SetSnapshot(snap domain.Snapshot) {
	s.current.Store(&snap)
	if dropped := s.cache.reset(snap.ID); dropped > 0 {
		s.logger.Debug("grid cache cleared", "snapshot_id", snap.ID, "dropped", dropped)
	}
	s.metrics.StationCount.Set(float64(len(snap.Stations)))
	s.metrics.SnapshotAge.Set(float64(snap.FetchedAt.Unix()))
	if !snap.Empty() {
		s.ready.Store(true)
	}
}

// CheckReadiness returns nil once a non-empty snapshot is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no station snapshot loaded yet")
	}
	return nil
}

// Grid returns the grid for the current snapshot, building and caching it
// on first request. A build publishes a GridEvent; publish failures are
// logged and never fail the request.
func (s *Service) Grid(ctx context.Context, p domain.GridParams) (*domain.GridResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	snap := s.Snapshot()
	if snap.Empty() {
		return nil, domain.ErrNoData
	}

	if r, ok := s.cache.get(snap.ID, p); ok {
		s.metrics.GridCache.WithLabelValues("hit").Inc()
		return r, nil
	}
	s.metrics.GridCache.WithLabelValues("miss").Inc()

	start := time.Now()
	g, err := s.builder.Build(snap.Stations, p)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.GridBuilds.WithLabelValues("error").Inc()
		return nil, err
	}
	s.metrics.GridBuilds.WithLabelValues("success").Inc()
	s.metrics.GridBuildDuration.Observe(elapsed.Seconds())

	r := &domain.GridResult{
		SnapshotID: snap.ID,
		Params:     p,
		Grid:       g,
		Summary:    surface.Summarize(g),
		Snapshot:   snap,
	}
	if !s.cache.put(snap.ID, p, r) {
		s.logger.Debug("grid outlived its snapshot, not cached", "snapshot_id", snap.ID)
	}

	s.logger.Debug("grid built",
		"snapshot_id", snap.ID,
		"rows", p.Rows,
		"cols", p.Cols,
		"k", p.K,
		"stations", len(snap.Stations),
		"duration", elapsed,
	)
	s.publish(ctx, snap, r, elapsed)
	return r, nil
}

func (s *Service) publish(ctx context.Context, snap domain.Snapshot, r *domain.GridResult, elapsed time.Duration) {
	if s.publisher == nil {
		return
	}
	event := domain.GridEvent{
		SnapshotID:     snap.ID,
		SnapshotSource: snap.Source,
		Stations:       len(snap.Stations),
		Params:         r.Params,
		Bounds:         r.Grid.Bounds(),
		Summary:        r.Summary,
		BuildDuration:  elapsed.Seconds(),
		BuiltAt:        domain.Now().UTC(),
	}
	if err := s.publisher.PublishGrid(ctx, event); err != nil {
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		s.logger.Warn("publish grid event failed", "error", err, "snapshot_id", snap.ID)
		return
	}
	s.metrics.EventsPublished.WithLabelValues("success").Inc()
}

// Point answers a hover query at (lat, lon). A point outside the grid is a
// PointNone result, not an error.
func (s *Service) Point(ctx context.Context, lat, lon float64, p domain.GridParams) (domain.PointResult, error) {
	res := domain.PointResult{Kind: domain.PointNone, Lat: lat, Lon: lon}

	snap := s.Snapshot()
	if snap.Empty() {
		return res, domain.ErrNoData
	}

	if m, ok := surface.Nearest(s.metric, lat, lon, snap.Stations); ok {
		st := m.Station
		if st.Name == "" {
			st.Name = domain.UnknownStationName
		}
		res = withAQI(res, domain.PointStation, st.AQI)
		res.Station = &st
		res.Meters = m.Meters
		s.metrics.PointQueries.WithLabelValues(string(res.Kind)).Inc()
		return res, nil
	}

	r, err := s.Grid(ctx, p)
	if err != nil {
		return res, err
	}
	if v, ok := r.Grid.ValueAt(lat, lon); ok && !math.IsNaN(v) {
		res = withAQI(res, domain.PointGrid, math.Floor(v+0.5))
	}
	s.metrics.PointQueries.WithLabelValues(string(res.Kind)).Inc()
	return res, nil
}

func withAQI(res domain.PointResult, kind domain.PointKind, aqi float64) domain.PointResult {
	b := domain.BucketFor(aqi)
	res.Kind = kind
	res.AQI = &aqi
	res.Bucket = &b
	res.Color = b.Color()
	return res
}
