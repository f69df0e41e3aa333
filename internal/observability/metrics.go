package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aqi_surface"

// Metrics holds the Prometheus counters, histograms, and gauges for the surface service.
type Metrics struct {
	// Station source metrics.
	StationFetches  *prometheus.CounterVec // labels: source={waqi,store,synthetic}, outcome={success,error,empty}
	StationCount    prometheus.Gauge
	SnapshotAge     prometheus.Gauge
	RefreshDuration prometheus.Histogram

	// Grid metrics.
	GridBuilds        *prometheus.CounterVec // labels: outcome={success,error}
	GridBuildDuration prometheus.Histogram
	GridCache         *prometheus.CounterVec // labels: result={hit,miss}

	PointQueries    *prometheus.CounterVec // labels: kind={station,grid,none}
	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.StationFetches,
		m.StationCount,
		m.SnapshotAge,
		m.RefreshDuration,
		m.GridBuilds,
		m.GridBuildDuration,
		m.GridCache,
		m.PointQueries,
		m.EventsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		StationFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "station_fetches_total",
			Help:      help("Station source fetches by source and outcome."),
		}, []string{"source", "outcome"}),
		StationCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stations",
			Help:      help("Stations in the current snapshot."),
		}),
		SnapshotAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_fetched_timestamp_seconds",
			Help:      help("Unix time the current snapshot was fetched."),
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      help("Duration of a full source-chain refresh."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GridBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_builds_total",
			Help:      help("Grid builds by outcome."),
		}, []string{"outcome"}),
		GridBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grid_build_duration_seconds",
			Help:      help("Time spent interpolating one grid."),
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		GridCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_cache_total",
			Help:      help("Grid cache lookups by result."),
		}, []string{"result"}),
		PointQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "point_queries_total",
			Help:      help("Hover point queries by answer kind."),
		}, []string{"kind"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_events_published_total",
			Help:      help("Grid build events published by outcome."),
		}, []string{"outcome"}),
	}
}
