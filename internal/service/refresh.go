package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Retry backoff after a failed refresh: start at 200ms, double each retry,
// cap at 5s.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Refresh walks the source chain (primary, store, fallback) and installs
// the first non-empty result as the current snapshot. If every source
// fails it returns domain.ErrNoData and the previous snapshot stays.
func (s *Service) Refresh(ctx context.Context) (domain.Snapshot, error) {
	start := time.Now()
	defer func() { s.metrics.RefreshDuration.Observe(time.Since(start).Seconds()) }()

	var errs []error

	if s.primary != nil {
		stations, err := s.fetch(ctx, s.primaryName, s.primary)
		if err == nil {
			snap := domain.NewSnapshot(s.primaryName, stations)
			s.save(ctx, snap)
			return s.install(snap), nil
		}
		errs = append(errs, err)
	}
	if ctx.Err() != nil {
		return domain.Snapshot{}, ctx.Err()
	}

	if s.store != nil {
		snap, err := s.latestStored(ctx)
		if err == nil {
			return s.install(snap), nil
		}
		errs = append(errs, err)
	}

	if s.fallback != nil {
		stations, err := s.fetch(ctx, domain.SourceSynthetic, s.fallback)
		if err == nil {
			return s.install(domain.NewSnapshot(domain.SourceSynthetic, stations)), nil
		}
		errs = append(errs, err)
	}

	err := fmt.Errorf("%w: every station source failed", domain.ErrNoData)
	if len(errs) > 0 {
		err = fmt.Errorf("%w: %w", err, errors.Join(errs...))
	}
	return domain.Snapshot{}, err
}

// fetch calls one source. An empty result counts as a failure so the
// chain moves on.
func (s *Service) fetch(ctx context.Context, name string, src domain.StationSource) ([]domain.Sample, error) {
	stations, err := src.Stations(ctx)
	if err != nil {
		s.metrics.StationFetches.WithLabelValues(name, "error").Inc()
		s.logger.Warn("station source failed", "source", name, "error", err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(stations) == 0 {
		s.metrics.StationFetches.WithLabelValues(name, "empty").Inc()
		s.logger.Warn("station source returned no stations", "source", name)
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNoData)
	}
	s.metrics.StationFetches.WithLabelValues(name, "success").Inc()
	return stations, nil
}

func (s *Service) latestStored(ctx context.Context) (domain.Snapshot, error) {
	snap, err := s.store.LatestSnapshot(ctx)
	if err == nil && snap.Empty() {
		err = domain.ErrNoData
	}
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrNoSnapshot) || errors.Is(err, domain.ErrNoData) {
			outcome = "empty"
		}
		s.metrics.StationFetches.WithLabelValues(domain.SourceStore, outcome).Inc()
		return domain.Snapshot{}, fmt.Errorf("%s: %w", domain.SourceStore, err)
	}
	s.metrics.StationFetches.WithLabelValues(domain.SourceStore, "success").Inc()
	// The id is kept so grids cached for this station set stay valid.
	snap.Source = domain.SourceStore
	return snap, nil
}

func (s *Service) save(ctx context.Context, snap domain.Snapshot) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		s.logger.Warn("save snapshot failed", "error", err, "snapshot_id", snap.ID)
	}
}

func (s *Service) install(snap domain.Snapshot) domain.Snapshot {
	prev := s.Snapshot()
	s.SetSnapshot(snap)
	if prev.ID != snap.ID {
		s.logger.Info("snapshot loaded",
			"snapshot_id", snap.ID,
			"source", snap.Source,
			"stations", len(snap.Stations),
			"fetched_at", snap.FetchedAt,
		)
	}
	return snap
}

// Run refreshes immediately and then every refresh interval until the
// context is cancelled. Failed refreshes are retried with exponential
// backoff instead of waiting a full interval.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("refresh loop started", "interval", s.interval)

	backoff := initialBackoff
	for {
		wait := s.interval
		if _, err := s.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				s.logger.Info("refresh loop stopping", "reason", ctx.Err())
				return nil
			}
			s.logger.Error("refresh failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = nextBackoff(backoff, maxBackoff)
		} else {
			backoff = initialBackoff
		}

		if !sleepWithContext(ctx, s.clock, wait) {
			s.logger.Info("refresh loop stopping", "reason", ctx.Err())
			return nil
		}
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
