package potentials

import "errors"

var (
	// ErrUnsupportedElement indicates a species the potential has no parameters for.
	ErrUnsupportedElement = errors.New("potentials: unsupported element")

	// ErrNonFinite indicates the potential evaluated to NaN or Inf.
	ErrNonFinite = errors.New("potentials: non-finite energy or force")
)
