package atoms

import "errors"

var (
	// ErrNoCalculator indicates an energy query on atoms with no potential attached.
	ErrNoCalculator = errors.New("atoms: no calculator attached")

	// ErrUnknownElement indicates a species symbol with no known mass.
	ErrUnknownElement = errors.New("atoms: unknown element")

	// ErrDimensionMismatch indicates a per-atom slice of the wrong length.
	ErrDimensionMismatch = errors.New("atoms: dimension mismatch")
)
