// Package canvas provides the raster widgets that make up a sweep viewer:
// the heatmap, the cross-section profiles and the color range slider.
package canvas

import (
	"image"
	"image/color"
	"sync"

	"sweepview/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/mat"
)

var heatmapMinSize = fyne.NewSize(200, 200)

// Heatmap draws a value grid as colored cells with row 0 at the bottom, plus
// a vertical and a horizontal marker line through the hovered cell.
//
// Pointer positions are reported in grid coordinates: x in [0, cols) left to
// right and y in [0, rows) bottom to top.
type Heatmap struct {
	widget.BaseWidget

	mu         sync.RWMutex
	grid       mat.Matrix
	rows, cols int
	cmap       *colorutil.Colormap
	cells      []color.RGBA // Row-major colors for the current range

	showMarkers      bool
	markerX, markerY float64

	raster *fynecanvas.Raster

	onMove  func(x, y float64)
	onLeave func()
}

var _ desktop.Hoverable = (*Heatmap)(nil)

// NewHeatmap creates a heatmap over grid colored by cmap's current range.
func NewHeatmap(grid mat.Matrix, cmap *colorutil.Colormap) *Heatmap {
	h := &Heatmap{cmap: cmap}
	h.raster = fynecanvas.NewRaster(h.draw)
	h.raster.ScaleMode = fynecanvas.ImageScalePixels
	h.raster.SetMinSize(heatmapMinSize)
	h.setGrid(grid)
	h.ExtendBaseWidget(h)
	return h
}

// SetGrid replaces the displayed grid.
func (h *Heatmap) SetGrid(grid mat.Matrix) {
	h.setGrid(grid)
	h.raster.Refresh()
}

func (h *Heatmap) setGrid(grid mat.Matrix) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.grid = grid
	h.rows, h.cols = grid.Dims()
	h.recolorLocked()
}

// SetColorRange changes the values mapped to the palette ends. The cell
// colors are recomputed in place; the raster layer is kept.
func (h *Heatmap) SetColorRange(lo, hi float64) {
	h.mu.Lock()
	h.cmap.SetRange(lo, hi)
	h.recolorLocked()
	h.mu.Unlock()
	h.raster.Refresh()
}

// ColorRange returns the current color bounds.
func (h *Heatmap) ColorRange() (lo, hi float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cmap.Range()
}

func (h *Heatmap) recolorLocked() {
	n := h.rows * h.cols
	if cap(h.cells) < n {
		h.cells = make([]color.RGBA, n)
	}
	h.cells = h.cells[:n]
	for i := 0; i < h.rows; i++ {
		for j := 0; j < h.cols; j++ {
			h.cells[i*h.cols+j] = h.cmap.At(h.grid.At(i, j))
		}
	}
}

// CellColor returns the color currently used for cell (row, col).
func (h *Heatmap) CellColor(row, col int) color.RGBA {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cells[row*h.cols+col]
}

// SetMarkers positions the marker lines in grid coordinates.
func (h *Heatmap) SetMarkers(x, y float64, visible bool) {
	h.mu.Lock()
	h.markerX, h.markerY = x, y
	h.showMarkers = visible
	h.mu.Unlock()
	h.raster.Refresh()
}

// OnPointerMove sets the callback for pointer movement over the heatmap.
func (h *Heatmap) OnPointerMove(callback func(x, y float64)) {
	h.onMove = callback
}

// OnPointerLeave sets the callback for the pointer leaving the heatmap.
func (h *Heatmap) OnPointerLeave(callback func()) {
	h.onLeave = callback
}

// PositionToGrid converts a widget-relative position to grid coordinates.
func (h *Heatmap) PositionToGrid(pos fyne.Position) (x, y float64) {
	size := h.Size()
	h.mu.RLock()
	rows, cols := h.rows, h.cols
	h.mu.RUnlock()
	if size.Width <= 0 || size.Height <= 0 {
		return -1, -1
	}
	x = float64(pos.X) / float64(size.Width) * float64(cols)
	y = float64(size.Height-pos.Y) / float64(size.Height) * float64(rows)
	return x, y
}

// MouseIn implements desktop.Hoverable.
func (h *Heatmap) MouseIn(ev *desktop.MouseEvent) {
	h.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (h *Heatmap) MouseMoved(ev *desktop.MouseEvent) {
	if h.onMove == nil {
		return
	}
	x, y := h.PositionToGrid(ev.Position)
	h.onMove(x, y)
}

// MouseOut implements desktop.Hoverable.
func (h *Heatmap) MouseOut() {
	if h.onLeave != nil {
		h.onLeave()
	}
}

// CreateRenderer implements fyne.Widget.
func (h *Heatmap) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(h.raster)
}

// draw is the raster drawing function. Each output pixel takes the color of
// the cell under it (nearest neighbour).
func (h *Heatmap) draw(w, hgt int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, hgt))
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.rows == 0 || h.cols == 0 || w == 0 || hgt == 0 {
		fill(output, colorutil.LightGray)
		return output
	}

	colIdx := make([]int, w)
	for x := range colIdx {
		colIdx[x] = x * h.cols / w
	}
	for y := 0; y < hgt; y++ {
		row := h.rows - 1 - y*h.rows/hgt
		base := row * h.cols
		for x := 0; x < w; x++ {
			output.SetRGBA(x, y, h.cells[base+colIdx[x]])
		}
	}

	if h.showMarkers {
		px := int(h.markerX / float64(h.cols) * float64(w))
		py := hgt - 1 - int(h.markerY/float64(h.rows)*float64(hgt))
		drawLine(output, px, 0, px, hgt-1, colorutil.C0, 1)
		drawLine(output, 0, py, w-1, py, colorutil.C1, 1)
	}
	return output
}
