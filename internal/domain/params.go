package domain

import "fmt"

// Grid defaults used when the caller leaves a parameter unset.
const (
	DefaultRows = 100
	DefaultCols = 160
	DefaultK    = 6

	// MaxCells caps Rows × Cols for a single grid.
	MaxCells = 1_000_000
)

// GridParams are the caller-tunable grid resolution and neighbor count.
// Builds cost O(Rows × Cols × stations × log stations), so callers trade
// resolution for latency here.
type GridParams struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	K    int `json:"k"`
}

// DefaultGridParams returns 100×160 with k=6.
func DefaultGridParams() GridParams {
	return GridParams{Rows: DefaultRows, Cols: DefaultCols, K: DefaultK}
}

// Validate rejects parameters that would produce non-finite step sizes or an
// undefined weighting.
func (p GridParams) Validate() error {
	if p.Rows < 2 {
		return fmt.Errorf("%w: rows must be at least 2, got %d", ErrInvalidParameter, p.Rows)
	}
	if p.Cols < 2 {
		return fmt.Errorf("%w: cols must be at least 2, got %d", ErrInvalidParameter, p.Cols)
	}
	if p.Rows > MaxCells/p.Cols {
		return fmt.Errorf("%w: grid of %d×%d exceeds %d cells", ErrInvalidParameter, p.Rows, p.Cols, MaxCells)
	}
	if p.K < 1 {
		return fmt.Errorf("%w: k must be at least 1, got %d", ErrInvalidParameter, p.K)
	}
	return nil
}
