package domain

import "errors"

var (
	// ErrNoData means there are no station samples to work from. It is a
	// normal outcome (for example before the first successful fetch), not a
	// fault.
	ErrNoData = errors.New("no station data")

	// ErrInvalidParameter is returned for grid or interpolation parameters
	// outside their valid range (rows or cols below 2, k below 1, power not
	// strictly positive).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNoSnapshot is returned by a SnapshotStore that has nothing saved yet.
	ErrNoSnapshot = errors.New("no snapshot stored")
)
