// Package sweep rebuilds a 2D value grid from a flat stream of lock-in sweep samples.
package sweep

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultBoundaryMarker is the phase value that marks the start of an inner sweep cycle.
const DefaultBoundaryMarker = 3

// Sample is one measurement row.
type Sample struct {
	Phase int     // Sweep-phase marker
	S1    float64 // Inner (fast) swept parameter
	S2    float64 // Outer (slow) swept parameter
	Value float64 // Measured value
}

// ScanMode describes how the inner sweep traverses its range.
type ScanMode int

const (
	// Monotonic scans run the inner parameter in the same direction every cycle.
	Monotonic ScanMode = iota
	// BackAndForth scans run forward then backward within each cycle.
	BackAndForth
)

func (m ScanMode) String() string {
	switch m {
	case Monotonic:
		return "monotonic"
	case BackAndForth:
		return "back-and-forth"
	default:
		return fmt.Sprintf("ScanMode(%d)", int(m))
	}
}

// Options controls reconstruction.
type Options struct {
	// BoundaryMarker is the phase value delimiting inner cycles.
	BoundaryMarker int
	// AllowPartial drops a trailing incomplete cycle instead of failing
	// with ErrShapeMismatch.
	AllowPartial bool
}

// DefaultOptions returns strict reconstruction options.
func DefaultOptions() Options {
	return Options{BoundaryMarker: DefaultBoundaryMarker}
}

// Result holds a reconstructed sweep.
type Result struct {
	X    []float64  // Inner axis, one value per grid column
	Y    []float64  // Outer axis, one value per grid row
	Grid *mat.Dense // Primary grid, rows indexed by Y and columns by X

	// Backward holds the return leg of a back-and-forth scan with each row
	// reversed so column j lines up with X[j]. Nil for monotonic scans.
	Backward *mat.Dense

	Mode     ScanMode
	InnerLen int // Samples per raw inner cycle
	Dropped  int // Trailing samples discarded under AllowPartial
}

// Reconstruct rebuilds the grid using DefaultOptions.
func Reconstruct(samples []Sample) (*Result, error) {
	return ReconstructWithOptions(samples, DefaultOptions())
}

// ReconstructWithOptions infers the cycle length and scan mode from samples
// and reshapes the measured values into a grid.
func ReconstructWithOptions(samples []Sample, opts Options) (*Result, error) {
	innerLen, err := CycleLength(samples, opts.BoundaryMarker)
	if err != nil {
		return nil, err
	}

	n := len(samples)
	dropped := n % innerLen
	if dropped != 0 {
		if !opts.AllowPartial {
			return nil, fmt.Errorf("%w: %d samples, cycle length %d", ErrShapeMismatch, n, innerLen)
		}
		log.Printf("sweep: dropping %d trailing samples of incomplete cycle (cycle length %d)", dropped, innerLen)
		n -= dropped
	}
	samples = samples[:n]
	outer := n / innerLen

	candidate := make([]float64, innerLen)
	for i := range candidate {
		candidate[i] = samples[i].S1
	}

	y := make([]float64, outer)
	for i := range y {
		y[i] = samples[i*innerLen].S2
	}

	values := make([]float64, n)
	for i, s := range samples {
		values[i] = s.Value
	}

	res := &Result{
		Y:        y,
		InnerLen: innerLen,
		Dropped:  dropped,
	}

	if countDistinct(candidate) == innerLen {
		res.Mode = Monotonic
		res.X = candidate
		res.Grid = mat.NewDense(outer, innerLen, values)
		return res, nil
	}

	if innerLen%2 != 0 {
		return nil, fmt.Errorf("%w: back-and-forth cycle of odd length %d", ErrMalformedInput, innerLen)
	}
	half := innerLen / 2

	res.Mode = BackAndForth
	res.X = candidate[:half:half]
	res.Grid = mat.NewDense(outer, half, nil)
	res.Backward = mat.NewDense(outer, half, nil)

	reversed := make([]float64, half)
	for k := 0; k < 2*outer; k++ {
		chunk := values[k*half : (k+1)*half]
		if k%2 == 0 {
			res.Grid.SetRow(k/2, chunk)
			continue
		}
		for j, v := range chunk {
			reversed[half-1-j] = v
		}
		res.Backward.SetRow(k/2, reversed)
	}
	return res, nil
}

// CycleLength returns the number of samples per inner cycle: the distance
// between the first two rows whose phase equals marker.
func CycleLength(samples []Sample, marker int) (int, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("%w: no samples", ErrMalformedInput)
	}
	first := -1
	for i, s := range samples {
		if s.Phase != marker {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		return i - first, nil
	}
	if first < 0 {
		return 0, fmt.Errorf("%w: boundary marker %d not found", ErrMalformedInput, marker)
	}
	return 0, fmt.Errorf("%w: boundary marker %d found only once", ErrMalformedInput, marker)
}

// ValueRange returns the smallest and largest finite values in m.
// ok is false when m holds no finite value.
func ValueRange(m mat.Matrix) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

func countDistinct(vals []float64) int {
	seen := make(map[float64]struct{}, len(vals))
	for _, v := range vals {
		seen[v] = struct{}{}
	}
	return len(seen)
}
