package sweep

import "errors"

var (
	// ErrMalformedInput indicates the phase column cannot yield a cycle length:
	// the boundary marker is missing, appears fewer than two times, or the
	// sample table is empty.
	ErrMalformedInput = errors.New("sweep: malformed input")
	// ErrShapeMismatch indicates the sample count is not a whole number of
	// inner sweep cycles.
	ErrShapeMismatch = errors.New("sweep: sample count not divisible by cycle length")
)
