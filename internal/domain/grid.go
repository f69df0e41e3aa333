package domain

import "math"

// Grid is a regular lattice of AQI estimates. Row i sits at latitude
// MinLat + i*DLat and column j at longitude MinLon + j*DLon.
type Grid struct {
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	MinLat float64     `json:"min_lat"`
	MinLon float64     `json:"min_lon"`
	DLat   float64     `json:"dlat"`
	DLon   float64     `json:"dlon"`
	Values [][]float64 `json:"values"`
}

// BucketedCell is one grid cell classified for layered heat rendering.
// Weight is in [0,1] and modulates visual intensity independently of the
// bucket color.
type BucketedCell struct {
	Lat    float64        `json:"lat"`
	Lon    float64        `json:"lon"`
	Bucket SeverityBucket `json:"bucket"`
	Weight float64        `json:"weight"`
}

// Bounds returns the lattice envelope.
func (g Grid) Bounds() Bounds {
	return Bounds{
		MinLat: g.MinLat,
		MinLon: g.MinLon,
		MaxLat: g.MinLat + float64(g.Rows-1)*g.DLat,
		MaxLon: g.MinLon + float64(g.Cols-1)*g.DLon,
	}
}

// Coord returns the coordinate of lattice point (i, j).
func (g Grid) Coord(i, j int) (lat, lon float64) {
	return g.MinLat + float64(i)*g.DLat, g.MinLon + float64(j)*g.DLon
}

// ValueAt returns the value of the lattice point nearest to (lat, lon). ok is
// false when the point falls outside the grid; that is an expected result
// for hover queries, not an error.
func (g Grid) ValueAt(lat, lon float64) (v float64, ok bool) {
	if g.Rows == 0 || g.Cols == 0 || g.DLat == 0 || g.DLon == 0 {
		return 0, false
	}
	i, ok := latticeIndex((lat-g.MinLat)/g.DLat, g.Rows)
	if !ok {
		return 0, false
	}
	j, ok := latticeIndex((lon-g.MinLon)/g.DLon, g.Cols)
	if !ok {
		return 0, false
	}
	return g.Values[i][j], true
}

// latticeIndex rounds half up (so -0.5 maps to 0) and checks [0, n).
func latticeIndex(x float64, n int) (int, bool) {
	r := math.Floor(x + 0.5)
	if math.IsNaN(r) || r < 0 || r >= float64(n) {
		return 0, false
	}
	return int(r), true
}
