// Package view holds the toolkit-independent state of one heatmap viewer:
// the hovered grid cell and the color-scale bounds.
//
// Rendering code feeds pointer and slider events to State.Dispatch and applies
// the returned Frame to its image, line and marker layers.
package view

import (
	"errors"
	"math"

	"sweepview/internal/sweep"

	"gonum.org/v1/gonum/mat"
)

// ErrIndexOutOfRange indicates a pointer position that does not map to a grid cell.
var ErrIndexOutOfRange = errors.New("view: pointer outside grid")

// edgeSlack is how far, in cells, a pointer may overshoot the grid and still
// be clamped onto the border cell. Panels report positions slightly past
// their last pixel.
const edgeSlack = 1.0

// Cell addresses one grid value.
type Cell struct {
	Row, Col int
}

// Event is an input to State.Dispatch.
type Event interface {
	isEvent()
}

// PointerMoved reports the pointer inside the heatmap panel, in grid
// coordinates: X spans [0, cols) and Y spans [0, rows).
type PointerMoved struct {
	X, Y float64
}

// PointerLeft reports the pointer leaving the heatmap panel.
type PointerLeft struct{}

// RangeChanged reports new slider handle values.
type RangeChanged struct {
	Min, Max float64
}

func (PointerMoved) isEvent() {}
func (PointerLeft) isEvent()  {}
func (RangeChanged) isEvent() {}

// Frame is everything a renderer needs to draw the current state.
type Frame struct {
	Hovering bool
	Cell     Cell

	// Marker positions in grid coordinates (cell centers).
	MarkerX, MarkerY float64

	// RowProfile is grid row Cell.Row, indexed by column.
	// ColProfile is grid column Cell.Col, indexed by row.
	// Both are nil when not hovering.
	RowProfile []float64
	ColProfile []float64

	ColorMin, ColorMax float64

	// Redraw is false when the event changed nothing.
	Redraw bool
}

// State is the mutable view state of one viewer. It is not safe for
// concurrent use; the UI event loop owns it.
type State struct {
	grid       mat.Matrix
	rows, cols int

	hovering bool
	cell     Cell

	dataMin, dataMax   float64
	colorMin, colorMax float64
}

// NewState returns an idle state over grid with the color range set to the
// data range.
func NewState(grid mat.Matrix) *State {
	s := &State{}
	s.setGrid(grid)
	s.colorMin, s.colorMax = s.dataMin, s.dataMax
	return s
}

func (s *State) setGrid(grid mat.Matrix) {
	s.grid = grid
	s.rows, s.cols = grid.Dims()
	lo, hi, ok := sweep.ValueRange(grid)
	if !ok {
		lo, hi = 0, 0
	}
	s.dataMin, s.dataMax = lo, hi
}

// Replace swaps in a new grid. A color range still equal to the old data
// range follows the new data range; a user-chosen range is kept. A hovered
// cell is clamped into the new grid.
func (s *State) Replace(grid mat.Matrix) Frame {
	followData := s.colorMin == s.dataMin && s.colorMax == s.dataMax
	s.setGrid(grid)
	if followData {
		s.colorMin, s.colorMax = s.dataMin, s.dataMax
	}
	if s.hovering {
		s.cell.Row = clampIndex(s.cell.Row, s.rows)
		s.cell.Col = clampIndex(s.cell.Col, s.cols)
	}
	f := s.Frame()
	f.Redraw = true
	return f
}

// Dispatch applies ev and returns the resulting frame. Pointer positions
// that do not resolve to a cell are ignored.
func (s *State) Dispatch(ev Event) Frame {
	switch e := ev.(type) {
	case PointerMoved:
		cell, err := s.ResolveCell(e.X, e.Y)
		if err != nil {
			return s.Frame()
		}
		s.hovering = true
		s.cell = cell

	case PointerLeft:
		if !s.hovering {
			return s.Frame()
		}
		s.hovering = false

	case RangeChanged:
		lo, hi := e.Min, e.Max
		if math.IsNaN(lo) || math.IsNaN(hi) {
			return s.Frame()
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		s.colorMin, s.colorMax = lo, hi

	default:
		return s.Frame()
	}

	f := s.Frame()
	f.Redraw = true
	return f
}

// ResolveCell truncates grid coordinates to a cell, clamping positions just
// past the border onto the edge cell.
func (s *State) ResolveCell(x, y float64) (Cell, error) {
	if s.rows == 0 || s.cols == 0 {
		return Cell{}, ErrIndexOutOfRange
	}
	col, err := resolveIndex(x, s.cols)
	if err != nil {
		return Cell{}, err
	}
	row, err := resolveIndex(y, s.rows)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Row: row, Col: col}, nil
}

func resolveIndex(v float64, n int) (int, error) {
	if math.IsNaN(v) || v < -edgeSlack || v >= float64(n)+edgeSlack {
		return 0, ErrIndexOutOfRange
	}
	return clampIndex(int(math.Floor(v)), n), nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Frame returns a snapshot of the current state.
func (s *State) Frame() Frame {
	f := Frame{
		Hovering: s.hovering,
		ColorMin: s.colorMin,
		ColorMax: s.colorMax,
	}
	if !s.hovering {
		return f
	}
	f.Cell = s.cell
	f.MarkerX = float64(s.cell.Col) + 0.5
	f.MarkerY = float64(s.cell.Row) + 0.5
	f.RowProfile = mat.Row(nil, s.cell.Row, s.grid)
	f.ColProfile = mat.Col(nil, s.cell.Col, s.grid)
	return f
}

// Cursor returns the hovered cell, or false when idle.
func (s *State) Cursor() (Cell, bool) {
	return s.cell, s.hovering
}

// Value returns the grid value at c.
func (s *State) Value(c Cell) float64 {
	return s.grid.At(c.Row, c.Col)
}

// ColorRange returns the current color-scale bounds.
func (s *State) ColorRange() (lo, hi float64) {
	return s.colorMin, s.colorMax
}

// DataRange returns the finite min and max of the grid.
func (s *State) DataRange() (lo, hi float64) {
	return s.dataMin, s.dataMax
}

// Dims returns the grid dimensions.
func (s *State) Dims() (rows, cols int) {
	return s.rows, s.cols
}
