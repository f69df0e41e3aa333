package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultRegionKeywords keeps only Japanese stations out of the WAQI box.
var DefaultRegionKeywords = []string{
	"japan", "tokyo", "osaka", "kyoto", "nagoya", "sapporo", "fukuoka",
	"yokohama", "nara", "kobe", "hiroshima", "sendai", "okinawa",
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// WAQI station source.
	WAQIToken      string
	WAQIEnabled    bool
	WAQIBaseURL    string
	WAQITimeout    time.Duration
	RegionBounds   domain.Bounds
	RegionKeywords []string

	RefreshInterval time.Duration

	// Grid defaults and caching.
	Grid           domain.GridParams
	GridCacheSize  int
	DistanceMetric string

	// Last-known-good snapshot store. Empty path disables it.
	SnapshotDBPath string
	SnapshotRetain int

	SyntheticFallback bool
	SyntheticCount    int

	// Grid build events.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaGridTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	waqiTimeout, err := parseDuration("WAQI_TIMEOUT", "6s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}

	bounds, err := domain.ParseBounds(sharedcfg.EnvOrDefault("REGION_BOUNDS", "24,123,46,146"))
	if err != nil {
		return nil, fmt.Errorf("invalid REGION_BOUNDS: %w", err)
	}

	grid := domain.GridParams{
		Rows: parsePositiveInt("GRID_ROWS", domain.DefaultRows),
		Cols: parsePositiveInt("GRID_COLS", domain.DefaultCols),
		K:    parsePositiveInt("GRID_K", domain.DefaultK),
	}
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid defaults: %w", err)
	}

	waqiToken := os.Getenv("WAQI_TOKEN")
	waqiEnabled := waqiToken != ""
	if v := os.Getenv("WAQI_ENABLED"); v != "" {
		waqiEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     splitList(sharedcfg.EnvOrDefault("CORS_ORIGINS", "*")),

		WAQIToken:      waqiToken,
		WAQIEnabled:    waqiEnabled,
		WAQIBaseURL:    strings.TrimRight(sharedcfg.EnvOrDefault("WAQI_BASE_URL", "https://api.waqi.info"), "/"),
		WAQITimeout:    waqiTimeout,
		RegionBounds:   bounds,
		RegionKeywords: DefaultRegionKeywords,

		RefreshInterval: refreshInterval,

		Grid:           grid,
		GridCacheSize:  parsePositiveInt("GRID_CACHE_SIZE", 32),
		DistanceMetric: strings.ToLower(sharedcfg.EnvOrDefault("DISTANCE_METRIC", "planar")),

		SnapshotDBPath: os.Getenv("SNAPSHOT_DB_PATH"),
		SnapshotRetain: parsePositiveInt("SNAPSHOT_RETAIN", 10),

		SyntheticFallback: sharedcfg.EnvOrDefault("SYNTHETIC_FALLBACK", "true") == "true",
		SyntheticCount:    parsePositiveInt("SYNTHETIC_COUNT", 250),

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaGridTopic: sharedcfg.EnvOrDefault("KAFKA_GRID_TOPIC", "aqi-grid-builds"),
	}
	if v := os.Getenv("REGION_KEYWORDS"); v != "" {
		cfg.RegionKeywords = splitList(strings.ToLower(v))
	}

	if cfg.WAQIEnabled && cfg.WAQIToken == "" {
		return nil, errors.New("WAQI_ENABLED is true but WAQI_TOKEN is not set")
	}
	if cfg.DistanceMetric != "planar" && cfg.DistanceMetric != "geodesic" {
		return nil, fmt.Errorf("invalid DISTANCE_METRIC %q", cfg.DistanceMetric)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaGridTopic == "" {
			return nil, errors.New("KAFKA_GRID_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
