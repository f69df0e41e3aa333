// Command validate checks a grid fixture written by gridgen: station
// sanity, lattice layout, interpolation bounds, bucket coverage, and that
// rebuilding from the same stations reproduces the stored grid.
//
// Usage:
//
//	go run ./cmd/validate -fixture data/grid.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	"github.com/couchcryptid/aqi-surface/internal/surface"
)

// fixture mirrors the document gridgen writes.
type fixture struct {
	Snapshot domain.Snapshot   `json:"snapshot"`
	Params   domain.GridParams `json:"params"`
	Metric   string            `json:"metric"`
	Power    float64           `json:"power"`
	Grid     domain.Grid       `json:"grid"`
	Summary  domain.Summary    `json:"summary"`
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixturePath := flag.String("fixture", "", "path to a gridgen fixture")
	flag.Parse()

	if *fixturePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*fixturePath))
}

func run(path string) int {
	fmt.Println("=== AQI Grid Fixture Validation ===")
	fmt.Println()

	fx, err := loadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateStations(fx),
		validateLayout(fx),
		validateRange(fx),
		validateBuckets(fx),
		validateReproducible(fx),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Stations: %d (%s), grid %dx%d k=%d metric=%s\n",
		len(fx.Snapshot.Stations), fx.Snapshot.Source, fx.Grid.Rows, fx.Grid.Cols, fx.Params.K, fx.Metric)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
			if i == 19 && len(p.errors) > 20 {
				fmt.Printf("  ... %d more\n", len(p.errors)-20)
				break
			}
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadFixture(path string) (fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, err
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return fixture{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if fx.Power == 0 {
		fx.Power = surface.DefaultPower
	}
	return fx, nil
}

// ── Phases ──

func validateStations(fx fixture) *phase {
	p := &phase{name: "Phase 1: Station sanity"}
	if len(fx.Snapshot.Stations) == 0 {
		p.errorf("fixture has no stations")
	}
	for i, s := range fx.Snapshot.Stations {
		if !finite(s.Lat) || s.Lat < -90 || s.Lat > 90 {
			p.errorf("station %d: latitude %v out of range", i, s.Lat)
		}
		if !finite(s.Lon) || s.Lon < -180 || s.Lon > 180 {
			p.errorf("station %d: longitude %v out of range", i, s.Lon)
		}
		if !finite(s.AQI) || s.AQI < 0 {
			p.errorf("station %d (%s): aqi %v is not a non-negative number", i, s.Name, s.AQI)
		}
	}
	return p
}

func validateLayout(fx fixture) *phase {
	p := &phase{name: "Phase 2: Lattice layout"}
	g := fx.Grid

	if g.Rows != fx.Params.Rows || g.Cols != fx.Params.Cols {
		p.errorf("grid is %dx%d but params say %dx%d", g.Rows, g.Cols, fx.Params.Rows, fx.Params.Cols)
	}
	if len(g.Values) != g.Rows {
		p.errorf("values has %d rows, want %d", len(g.Values), g.Rows)
	}
	for i, row := range g.Values {
		if len(row) != g.Cols {
			p.errorf("row %d has %d values, want %d", i, len(row), g.Cols)
		}
	}

	env, ok := domain.Envelope(fx.Snapshot.Stations)
	if !ok {
		return p
	}
	want := env.Expand(surface.Margin)
	got := g.Bounds()
	if !floatEq(got.MinLat, want.MinLat) || !floatEq(got.MaxLat, want.MaxLat) ||
		!floatEq(got.MinLon, want.MinLon) || !floatEq(got.MaxLon, want.MaxLon) {
		p.errorf("grid envelope %s, want station envelope plus %.1f° margin %s", got, surface.Margin, want)
	}
	for i, s := range fx.Snapshot.Stations {
		if !got.Contains(s.Lat, s.Lon) {
			p.errorf("station %d at (%v,%v) lies outside the grid", i, s.Lat, s.Lon)
		}
	}
	return p
}

func validateRange(fx fixture) *phase {
	p := &phase{name: "Phase 3: Interpolation bounds"}
	if len(fx.Snapshot.Stations) == 0 {
		return p
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range fx.Snapshot.Stations {
		lo = min(lo, s.AQI)
		hi = max(hi, s.AQI)
	}
	for i, row := range fx.Grid.Values {
		for j, v := range row {
			if !finite(v) {
				p.errorf("cell (%d,%d) is %v", i, j, v)
				continue
			}
			if v < lo-1e-9 || v > hi+1e-9 {
				p.errorf("cell (%d,%d) = %v outside station range [%v,%v]", i, j, v, lo, hi)
			}
		}
	}
	return p
}

func validateBuckets(fx fixture) *phase {
	p := &phase{name: "Phase 4: Bucket coverage"}
	cells := 0
	for _, row := range fx.Grid.Values {
		cells += len(row)
	}

	total := 0
	for _, l := range surface.Layers(fx.Grid) {
		total += len(l.Cells)
		for _, c := range l.Cells {
			if c.Bucket != l.Bucket {
				p.errorf("cell (%v,%v) in %s layer has bucket %s", c.Lat, c.Lon, l.Bucket, c.Bucket)
			}
			if c.Weight < 0 || c.Weight > 1 {
				p.errorf("cell (%v,%v) weight %v outside [0,1]", c.Lat, c.Lon, c.Weight)
			}
		}
	}
	if total != cells {
		p.errorf("layers hold %d cells, grid has %d", total, cells)
	}

	s := surface.Summarize(fx.Grid)
	if fx.Summary.Count != 0 && s.Count != fx.Summary.Count {
		p.errorf("stored summary counts %d cells, recomputed %d", fx.Summary.Count, s.Count)
	}
	return p
}

func validateReproducible(fx fixture) *phase {
	p := &phase{name: "Phase 5: Rebuild reproduces grid"}
	metric, err := surface.ParseMetric(fx.Metric)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	b, err := surface.NewBuilder(fx.Power, metric)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	g, err := b.Build(fx.Snapshot.Stations, fx.Params)
	if err != nil {
		p.errorf("rebuild: %v", err)
		return p
	}
	if g.Rows != fx.Grid.Rows || g.Cols != fx.Grid.Cols || len(fx.Grid.Values) != g.Rows {
		p.errorf("rebuilt grid is %dx%d, stored %dx%d", g.Rows, g.Cols, fx.Grid.Rows, fx.Grid.Cols)
		return p
	}
	for i := range g.Values {
		if len(fx.Grid.Values[i]) != g.Cols {
			continue
		}
		for j, v := range g.Values[i] {
			if !floatEq(v, fx.Grid.Values[i][j]) {
				p.errorf("cell (%d,%d): stored %v, rebuilt %v", i, j, fx.Grid.Values[i][j], v)
			}
		}
	}
	return p
}

// ── Helpers ──

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
