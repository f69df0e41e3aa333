// Command gridgen builds an AQI grid offline and writes it as a JSON
// fixture for the validate command, API clients, and map prototyping. It
// runs the same surface package the service uses, so the fixture matches
// what /api/grid would serve for the same stations.
//
// Usage:
//
//	go run ./cmd/gridgen -stations data/stations.json -out data/grid.json
//	go run ./cmd/gridgen -synthetic 250 -seed 7 -rows 50 -cols 80 -out data/grid.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/adapter/synthetic"
	"github.com/couchcryptid/aqi-surface/internal/domain"
	"github.com/couchcryptid/aqi-surface/internal/surface"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// fixture is the document gridgen writes and validate reads.
type fixture struct {
	Snapshot domain.Snapshot   `json:"snapshot"`
	Params   domain.GridParams `json:"params"`
	Metric   string            `json:"metric"`
	Power    float64           `json:"power"`
	Grid     domain.Grid       `json:"grid"`
	Summary  domain.Summary    `json:"summary"`
	Layers   []surface.Layer   `json:"layers,omitempty"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	stationsPath := flag.String("stations", "", "JSON file of stations [{lat,lon,aqi,name}]")
	syntheticN := flag.Int("synthetic", 0, "generate this many synthetic stations instead of reading -stations")
	seed := flag.Uint64("seed", 1, "seed for -synthetic")
	bounds := flag.String("bounds", "24,123,46,146", "box for -synthetic as minLat,minLon,maxLat,maxLon")
	rows := flag.Int("rows", domain.DefaultRows, "grid rows")
	cols := flag.Int("cols", domain.DefaultCols, "grid columns")
	k := flag.Int("k", domain.DefaultK, "neighbors per cell")
	power := flag.Float64("power", surface.DefaultPower, "IDW distance exponent")
	metricName := flag.String("metric", "planar", "distance metric: planar or geodesic")
	withLayers := flag.Bool("layers", false, "include bucketed layers in the output")
	out := flag.String("out", "", "output path for the grid fixture")
	flag.Parse()

	if *out == "" || (*stationsPath == "") == (*syntheticN == 0) {
		flag.Usage()
		return fmt.Errorf("need -out and exactly one of -stations or -synthetic")
	}

	// Set a fixed clock for reproducible snapshot timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	snap, err := loadSnapshot(*stationsPath, *syntheticN, *seed, *bounds)
	if err != nil {
		return err
	}
	log.Printf("%s: %d stations", snap.Source, len(snap.Stations))

	metric, err := surface.ParseMetric(*metricName)
	if err != nil {
		return err
	}
	builder, err := surface.NewBuilder(*power, metric)
	if err != nil {
		return err
	}

	params := domain.GridParams{Rows: *rows, Cols: *cols, K: *k}
	start := time.Now()
	g, err := builder.Build(snap.Stations, params)
	if err != nil {
		return fmt.Errorf("build grid: %w", err)
	}
	log.Printf("grid %dx%d k=%d built in %s", params.Rows, params.Cols, params.K, time.Since(start))

	fx := fixture{
		Snapshot: snap,
		Params:   params,
		Metric:   *metricName,
		Power:    *power,
		Grid:     g,
		Summary:  surface.Summarize(g),
	}
	if *withLayers {
		fx.Layers = surface.Layers(g)
	}

	if err := writeJSON(*out, fx); err != nil {
		return err
	}
	log.Printf("wrote %s", *out)
	return nil
}

func loadSnapshot(path string, n int, seed uint64, boundsStr string) (domain.Snapshot, error) {
	if n > 0 {
		b, err := domain.ParseBounds(boundsStr)
		if err != nil {
			return domain.Snapshot{}, err
		}
		stations, err := synthetic.NewSeededGenerator(b, n, seed).Stations(context.Background())
		if err != nil {
			return domain.Snapshot{}, err
		}
		return withContentID(domain.NewSnapshot(domain.SourceSynthetic, stations))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	var stations []domain.Sample
	if err := json.Unmarshal(data, &stations); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(stations) == 0 {
		return domain.Snapshot{}, fmt.Errorf("%s: %w", path, domain.ErrNoData)
	}
	return withContentID(domain.NewSnapshot(domain.SourceFile, stations))
}

// withContentID replaces the random snapshot id with a name-based UUID of
// the source and stations, so the same input always yields the same fixture.
func withContentID(snap domain.Snapshot) (domain.Snapshot, error) {
	data, err := json.Marshal(snap.Stations)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("hash stations: %w", err)
	}
	snap.ID = uuid.NewSHA1(uuid.NameSpaceOID, append([]byte(snap.Source+":"), data...)).String()
	return snap, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
