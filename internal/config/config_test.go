package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker = "localhost:9092"
	testWAQIToken = "waqi-test-token"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)

	assert.False(t, cfg.WAQIEnabled)
	assert.Empty(t, cfg.WAQIToken)
	assert.Equal(t, "https://api.waqi.info", cfg.WAQIBaseURL)
	assert.Equal(t, 6*time.Second, cfg.WAQITimeout)
	assert.Equal(t, domain.Bounds{MinLat: 24, MinLon: 123, MaxLat: 46, MaxLon: 146}, cfg.RegionBounds)
	assert.Equal(t, DefaultRegionKeywords, cfg.RegionKeywords)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)

	assert.Equal(t, domain.DefaultGridParams(), cfg.Grid)
	assert.Equal(t, 32, cfg.GridCacheSize)
	assert.Equal(t, "planar", cfg.DistanceMetric)

	assert.Empty(t, cfg.SnapshotDBPath)
	assert.Equal(t, 10, cfg.SnapshotRetain)
	assert.True(t, cfg.SyntheticFallback)
	assert.Equal(t, 250, cfg.SyntheticCount)

	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "aqi-grid-builds", cfg.KafkaGridTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WAQI_TOKEN", testWAQIToken)
	t.Setenv("WAQI_BASE_URL", "http://waqi.local/")
	t.Setenv("WAQI_TIMEOUT", "2s")
	t.Setenv("REGION_BOUNDS", "30,130,40,142")
	t.Setenv("REGION_KEYWORDS", "Tokyo, Osaka")
	t.Setenv("REFRESH_INTERVAL", "1m")
	t.Setenv("GRID_ROWS", "50")
	t.Setenv("GRID_COLS", "80")
	t.Setenv("GRID_K", "4")
	t.Setenv("GRID_CACHE_SIZE", "8")
	t.Setenv("DISTANCE_METRIC", "Geodesic")
	t.Setenv("SNAPSHOT_DB_PATH", "/tmp/aqi.db")
	t.Setenv("SNAPSHOT_RETAIN", "3")
	t.Setenv("SYNTHETIC_FALLBACK", "false")
	t.Setenv("SYNTHETIC_COUNT", "40")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_GRID_TOPIC", "custom-grids")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.WAQIEnabled)
	assert.Equal(t, testWAQIToken, cfg.WAQIToken)
	assert.Equal(t, "http://waqi.local", cfg.WAQIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.WAQITimeout)
	assert.Equal(t, domain.Bounds{MinLat: 30, MinLon: 130, MaxLat: 40, MaxLon: 142}, cfg.RegionBounds)
	assert.Equal(t, []string{"tokyo", "osaka"}, cfg.RegionKeywords)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, domain.GridParams{Rows: 50, Cols: 80, K: 4}, cfg.Grid)
	assert.Equal(t, 8, cfg.GridCacheSize)
	assert.Equal(t, "geodesic", cfg.DistanceMetric)
	assert.Equal(t, "/tmp/aqi.db", cfg.SnapshotDBPath)
	assert.Equal(t, 3, cfg.SnapshotRetain)
	assert.False(t, cfg.SyntheticFallback)
	assert.Equal(t, 40, cfg.SyntheticCount)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-grids", cfg.KafkaGridTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidWAQITimeout(t *testing.T) {
	t.Setenv("WAQI_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WAQI_TIMEOUT")
}

func TestLoad_NegativeRefreshInterval(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "-1m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
}

func TestLoad_InvalidRegionBounds(t *testing.T) {
	for _, v := range []string{"24,123,46", "46,123,24,146", "a,b,c,d"} {
		t.Setenv("REGION_BOUNDS", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "REGION_BOUNDS", v)
	}
}

func TestLoad_GridRowsBelowMinimum(t *testing.T) {
	t.Setenv("GRID_ROWS", "1")
	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestLoad_GridTooLarge(t *testing.T) {
	t.Setenv("GRID_ROWS", "5000")
	t.Setenv("GRID_COLS", "5000")
	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestLoad_NonNumericGridFallsBackToDefault(t *testing.T) {
	t.Setenv("GRID_COLS", "wide")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCols, cfg.Grid.Cols)
}

func TestLoad_UnknownDistanceMetric(t *testing.T) {
	t.Setenv("DISTANCE_METRIC", "manhattan")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISTANCE_METRIC")
}

func TestLoad_WAQIEnabledWithoutToken(t *testing.T) {
	t.Setenv("WAQI_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WAQI_TOKEN")
}

func TestLoad_WAQITokenImpliesEnabled(t *testing.T) {
	t.Setenv("WAQI_TOKEN", testWAQIToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.WAQIEnabled)
}

func TestLoad_WAQIExplicitlyDisabled(t *testing.T) {
	t.Setenv("WAQI_TOKEN", testWAQIToken)
	t.Setenv("WAQI_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.WAQIEnabled)
}
