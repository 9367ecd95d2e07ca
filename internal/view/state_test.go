package view

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testGrid() *mat.Dense {
	// 3 rows x 4 cols, value = 10*row + col.
	g := mat.NewDense(3, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			g.Set(i, j, float64(10*i+j))
		}
	}
	return g
}

func TestNewState_Initial(t *testing.T) {
	s := NewState(testGrid())

	_, hovering := s.Cursor()
	assert.False(t, hovering)

	lo, hi := s.ColorRange()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 23.0, hi)

	f := s.Frame()
	assert.False(t, f.Hovering)
	assert.Nil(t, f.RowProfile)
	assert.Nil(t, f.ColProfile)
}

func TestDispatch_PointerMovedUpdatesProfiles(t *testing.T) {
	s := NewState(testGrid())

	f := s.Dispatch(PointerMoved{X: 2.7, Y: 1.2})
	require.True(t, f.Redraw)
	require.True(t, f.Hovering)
	assert.Equal(t, Cell{Row: 1, Col: 2}, f.Cell)
	assert.Equal(t, []float64{10, 11, 12, 13}, f.RowProfile)
	assert.Equal(t, []float64{2, 12, 22}, f.ColProfile)
	assert.Equal(t, 2.5, f.MarkerX)
	assert.Equal(t, 1.5, f.MarkerY)
}

func TestDispatch_HoverIsHistoryFree(t *testing.T) {
	g := testGrid()
	fresh := NewState(g).Dispatch(PointerMoved{X: 3.1, Y: 0.4})

	s := NewState(g)
	for _, p := range [][2]float64{{0, 0}, {1.5, 2.5}, {3.9, 2.9}, {0.2, 1.1}} {
		s.Dispatch(PointerMoved{X: p[0], Y: p[1]})
	}
	s.Dispatch(PointerLeft{})
	got := s.Dispatch(PointerMoved{X: 3.1, Y: 0.4})

	assert.Equal(t, fresh, got)
}

func TestDispatch_EveryCellMatchesGrid(t *testing.T) {
	g := testGrid()
	s := NewState(g)
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			f := s.Dispatch(PointerMoved{X: float64(c) + 0.3, Y: float64(r) + 0.6})
			assert.Equal(t, mat.Row(nil, r, g), f.RowProfile, "row %d", r)
			assert.Equal(t, mat.Col(nil, c, g), f.ColProfile, "col %d", c)
		}
	}
}

func TestDispatch_EdgeClamping(t *testing.T) {
	s := NewState(testGrid())

	f := s.Dispatch(PointerMoved{X: 4.0, Y: 3.0})
	require.True(t, f.Hovering)
	assert.Equal(t, Cell{Row: 2, Col: 3}, f.Cell)

	f = s.Dispatch(PointerMoved{X: -0.2, Y: -0.5})
	assert.Equal(t, Cell{Row: 0, Col: 0}, f.Cell)
}

func TestDispatch_OutOfRangeIgnored(t *testing.T) {
	s := NewState(testGrid())
	s.Dispatch(PointerMoved{X: 1.5, Y: 1.5})

	for _, p := range [][2]float64{{100, 1}, {1, -7}, {math.NaN(), 1}, {math.Inf(1), 0}} {
		f := s.Dispatch(PointerMoved{X: p[0], Y: p[1]})
		assert.False(t, f.Redraw, "pointer %v", p)
		assert.Equal(t, Cell{Row: 1, Col: 1}, f.Cell)
	}
}

func TestResolveCell_Error(t *testing.T) {
	s := NewState(testGrid())
	_, err := s.ResolveCell(9, 0)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestDispatch_PointerLeft(t *testing.T) {
	s := NewState(testGrid())

	f := s.Dispatch(PointerLeft{})
	assert.False(t, f.Redraw, "leaving while idle is a no-op")

	s.Dispatch(PointerMoved{X: 1, Y: 1})
	f = s.Dispatch(PointerLeft{})
	assert.True(t, f.Redraw)
	assert.False(t, f.Hovering)
	assert.Nil(t, f.RowProfile)
}

func TestDispatch_RangeChanged(t *testing.T) {
	s := NewState(testGrid())
	s.Dispatch(PointerMoved{X: 1, Y: 1})

	f := s.Dispatch(RangeChanged{Min: 5, Max: 15})
	assert.True(t, f.Redraw)
	assert.Equal(t, 5.0, f.ColorMin)
	assert.Equal(t, 15.0, f.ColorMax)
	assert.True(t, f.Hovering, "range changes leave the cursor alone")

	f = s.Dispatch(RangeChanged{Min: 20, Max: 2})
	assert.Equal(t, 2.0, f.ColorMin)
	assert.Equal(t, 20.0, f.ColorMax)

	f = s.Dispatch(RangeChanged{Min: math.NaN(), Max: 2})
	assert.False(t, f.Redraw)
	assert.Equal(t, 2.0, f.ColorMin)
}

func TestDispatch_RangeResetMatchesInitial(t *testing.T) {
	s := NewState(testGrid())
	initial := s.Frame()

	s.Dispatch(RangeChanged{Min: 3, Max: 4})
	lo, hi := s.DataRange()
	f := s.Dispatch(RangeChanged{Min: lo, Max: hi})

	assert.Equal(t, initial.ColorMin, f.ColorMin)
	assert.Equal(t, initial.ColorMax, f.ColorMax)
}

func TestReplace(t *testing.T) {
	s := NewState(testGrid())
	s.Dispatch(PointerMoved{X: 3.5, Y: 2.5})

	small := mat.NewDense(2, 2, []float64{-1, 0, 1, 100})
	f := s.Replace(small)
	assert.Equal(t, Cell{Row: 1, Col: 1}, f.Cell)
	assert.Equal(t, -1.0, f.ColorMin, "untouched range follows data")
	assert.Equal(t, 100.0, f.ColorMax)

	s.Dispatch(RangeChanged{Min: 0, Max: 50})
	f = s.Replace(testGrid())
	assert.Equal(t, 0.0, f.ColorMin, "user range is kept")
	assert.Equal(t, 50.0, f.ColorMax)
}
