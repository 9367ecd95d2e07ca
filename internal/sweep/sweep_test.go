package sweep

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func makeSamples(phase []int, s1, s2, vals []float64) []Sample {
	out := make([]Sample, len(phase))
	for i := range phase {
		out[i] = Sample{Phase: phase[i], S1: s1[i], S2: s2[i], Value: vals[i]}
	}
	return out
}

// monotonicSweep builds an L x M raster scan with the marker on the last
// sample of every cycle and Value = flat index.
func monotonicSweep(l, m int) []Sample {
	var out []Sample
	for i := 0; i < m; i++ {
		for j := 0; j < l; j++ {
			phase := 1
			if j == l-1 {
				phase = 3
			}
			out = append(out, Sample{
				Phase: phase,
				S1:    float64(j) * 0.5,
				S2:    float64(i) * 10,
				Value: float64(i*l + j),
			})
		}
	}
	return out
}

func TestReconstruct_MonotonicScenario(t *testing.T) {
	samples := makeSamples(
		[]int{1, 2, 3, 1, 2, 3, 1, 2, 3},
		[]float64{0, 1, 2, 0, 1, 2, 0, 1, 2},
		[]float64{0, 0, 0, 1, 1, 1, 2, 2, 2},
		[]float64{10, 20, 30, 40, 50, 60, 70, 80, 90},
	)

	res, err := Reconstruct(samples)
	require.NoError(t, err)

	assert.Equal(t, Monotonic, res.Mode)
	assert.Equal(t, 3, res.InnerLen)
	assert.Equal(t, []float64{0, 1, 2}, res.X)
	assert.Equal(t, []float64{0, 1, 2}, res.Y)
	assert.Nil(t, res.Backward)

	want := mat.NewDense(3, 3, []float64{10, 20, 30, 40, 50, 60, 70, 80, 90})
	assert.True(t, mat.Equal(want, res.Grid), "grid = %v", mat.Formatted(res.Grid))
}

func TestReconstruct_MonotonicShapes(t *testing.T) {
	cases := []struct{ l, m int }{{2, 2}, {4, 3}, {7, 5}, {16, 9}}
	for _, tc := range cases {
		samples := monotonicSweep(tc.l, tc.m)
		res, err := Reconstruct(samples)
		require.NoError(t, err, "L=%d M=%d", tc.l, tc.m)

		require.Len(t, res.X, tc.l)
		require.Len(t, res.Y, tc.m)
		r, c := res.Grid.Dims()
		require.Equal(t, tc.m, r)
		require.Equal(t, tc.l, c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				assert.Equal(t, samples[i*tc.l+j].Value, res.Grid.At(i, j))
			}
		}
	}
}

func TestReconstruct_BackAndForth(t *testing.T) {
	// Two outer steps of an 8-sample forward/backward cycle.
	s1 := []float64{0, 1, 2, 3, 3, 2, 1, 0, 0, 1, 2, 3, 3, 2, 1, 0}
	s2 := []float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1}
	phase := []int{3, 1, 1, 1, 1, 1, 1, 1, 3, 1, 1, 1, 1, 1, 1, 1}
	vals := make([]float64, 16)
	for i := range vals {
		vals[i] = float64(100 + i)
	}

	res, err := Reconstruct(makeSamples(phase, s1, s2, vals))
	require.NoError(t, err)

	assert.Equal(t, BackAndForth, res.Mode)
	assert.Equal(t, 8, res.InnerLen)
	assert.Equal(t, []float64{0, 1, 2, 3}, res.X)
	assert.Equal(t, []float64{0, 1}, res.Y)

	wantFwd := mat.NewDense(2, 4, []float64{
		100, 101, 102, 103,
		108, 109, 110, 111,
	})
	assert.True(t, mat.Equal(wantFwd, res.Grid), "forward = %v", mat.Formatted(res.Grid))

	// Odd chunks reversed so columns align with X.
	wantBwd := mat.NewDense(2, 4, []float64{
		107, 106, 105, 104,
		115, 114, 113, 112,
	})
	require.NotNil(t, res.Backward)
	assert.True(t, mat.Equal(wantBwd, res.Backward), "backward = %v", mat.Formatted(res.Backward))
}

func TestReconstruct_BackAndForthForwardRowsAreEvenChunks(t *testing.T) {
	const half, outer = 5, 6
	var samples []Sample
	for i := 0; i < outer; i++ {
		for j := 0; j < 2*half; j++ {
			x := j
			if j >= half {
				x = 2*half - 1 - j
			}
			phase := 0
			if j == 0 {
				phase = 3
			}
			samples = append(samples, Sample{Phase: phase, S1: float64(x), S2: float64(i), Value: float64(len(samples))})
		}
	}

	res, err := Reconstruct(samples)
	require.NoError(t, err)
	require.Len(t, res.X, half)

	for k := 0; k < 2*outer; k += 2 {
		row := mat.Row(nil, k/2, res.Grid)
		for j, v := range row {
			assert.Equal(t, samples[k*half+j].Value, v)
		}
	}
}

func TestReconstruct_Idempotent(t *testing.T) {
	samples := monotonicSweep(6, 4)
	a, err := Reconstruct(samples)
	require.NoError(t, err)
	b, err := Reconstruct(samples)
	require.NoError(t, err)

	assert.Equal(t, a.X, b.X)
	assert.Equal(t, a.Y, b.Y)
	assert.Equal(t, a.Grid.RawMatrix().Data, b.Grid.RawMatrix().Data)
	assert.NotSame(t, a.Grid, b.Grid)
}

func TestReconstruct_Errors(t *testing.T) {
	cases := []struct {
		name    string
		samples []Sample
		err     error
	}{
		{"Empty", nil, ErrMalformedInput},
		{"NoMarker", makeSamples([]int{1, 2, 1, 2}, make([]float64, 4), make([]float64, 4), make([]float64, 4)), ErrMalformedInput},
		{"SingleMarker", makeSamples([]int{1, 3, 1, 2}, make([]float64, 4), make([]float64, 4), make([]float64, 4)), ErrMalformedInput},
		{"Indivisible", append(monotonicSweep(3, 2), Sample{Phase: 1}), ErrShapeMismatch},
		{
			"OddBackAndForth",
			makeSamples([]int{3, 1, 1, 3, 1, 1}, []float64{0, 1, 0, 0, 1, 0}, make([]float64, 6), make([]float64, 6)),
			ErrMalformedInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Reconstruct(tc.samples)
			if !errors.Is(err, tc.err) {
				t.Errorf("Reconstruct() error = %v; want %v", err, tc.err)
			}
		})
	}
}

func TestReconstruct_AllowPartialDropsTrailingCycle(t *testing.T) {
	samples := append(monotonicSweep(4, 3), Sample{Phase: 1, Value: -1}, Sample{Phase: 1, Value: -2})

	opts := DefaultOptions()
	opts.AllowPartial = true
	res, err := ReconstructWithOptions(samples, opts)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Dropped)
	r, c := res.Grid.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 11.0, res.Grid.At(2, 3))
}

func TestCycleLength(t *testing.T) {
	cases := []struct {
		name   string
		phase  []int
		marker int
		want   int
	}{
		{"MarkerAtStart", []int{3, 1, 2, 3, 1, 2}, 3, 3},
		{"MarkerAtEnd", []int{1, 2, 3, 1, 2, 3}, 3, 3},
		{"CustomMarker", []int{0, 7, 0, 0, 7, 0}, 7, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			samples := make([]Sample, len(tc.phase))
			for i, p := range tc.phase {
				samples[i].Phase = p
			}
			got, err := CycleLength(samples, tc.marker)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValueRange(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{3, -1, 7, 2})
	lo, hi, ok := ValueRange(m)
	require.True(t, ok)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.0, hi)
}

func TestScanModeString(t *testing.T) {
	assert.Equal(t, "monotonic", Monotonic.String())
	assert.Equal(t, "back-and-forth", BackAndForth.String())
}
