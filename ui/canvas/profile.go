package canvas

import (
	"image"
	"image/color"
	"math"
	"sync"

	"sweepview/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/floats"
)

// Orientation selects which axis of a Profile carries the grid index.
type Orientation int

const (
	// Horizontal plots the index left to right and the value bottom to top.
	// Used above the heatmap for a grid row.
	Horizontal Orientation = iota
	// Vertical plots the index bottom to top and the value left to right.
	// Used right of the heatmap for a grid column.
	Vertical
)

// profileMargin keeps the line off the frame, in pixels.
const profileMargin = 4

// Profile is a line plot of one grid row or column. Sample i is drawn at the
// center of cell i so the line lines up with the heatmap it sits beside.
// The value axis rescales to the data on every update.
type Profile struct {
	widget.BaseWidget

	mu     sync.RWMutex
	orient Orientation
	extent int // Cells along the index axis
	data   []float64
	color  color.RGBA

	raster *fynecanvas.Raster
}

// NewProfile creates an empty profile spanning extent cells.
func NewProfile(orient Orientation, extent int, lineColor color.RGBA, thickness float32) *Profile {
	p := &Profile{
		orient: orient,
		extent: extent,
		color:  lineColor,
	}
	p.raster = fynecanvas.NewRaster(p.draw)
	p.raster.ScaleMode = fynecanvas.ImageScalePixels
	if orient == Horizontal {
		p.raster.SetMinSize(fyne.NewSize(heatmapMinSize.Width, thickness))
	} else {
		p.raster.SetMinSize(fyne.NewSize(thickness, heatmapMinSize.Height))
	}
	p.ExtendBaseWidget(p)
	return p
}

// SetData replaces the plotted values. Nil clears the line.
func (p *Profile) SetData(vals []float64) {
	p.mu.Lock()
	p.data = vals
	p.mu.Unlock()
	p.raster.Refresh()
}

// SetExtent changes the number of cells along the index axis.
func (p *Profile) SetExtent(n int) {
	p.mu.Lock()
	p.extent = n
	p.mu.Unlock()
	p.raster.Refresh()
}

// Data returns the plotted values.
func (p *Profile) Data() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data
}

// ValueRange returns the autoscaled value axis. A flat profile is padded so
// it draws through the middle.
func (p *Profile) ValueRange() (lo, hi float64, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return valueRange(p.data)
}

func valueRange(data []float64) (lo, hi float64, ok bool) {
	finite := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0, false
	}
	lo, hi = floats.Min(finite), floats.Max(finite)
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.05, 0.5)
		lo, hi = lo-pad, hi+pad
	}
	return lo, hi, true
}

// CreateRenderer implements fyne.Widget.
func (p *Profile) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.raster)
}

func (p *Profile) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(output, colorutil.White)
	drawFrame(output, colorutil.LightGray)

	p.mu.RLock()
	defer p.mu.RUnlock()

	lo, hi, ok := valueRange(p.data)
	if !ok || p.extent == 0 {
		return output
	}

	// Value axis length in pixels, inside the margins.
	span := h
	if p.orient == Vertical {
		span = w
	}
	span -= 2 * profileMargin
	if span < 1 {
		span = 1
	}

	pts := make([]image.Point, 0, len(p.data))
	for i, v := range p.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		frac := (float64(i) + 0.5) / float64(p.extent)
		val := profileMargin + int((v-lo)/(hi-lo)*float64(span))
		switch p.orient {
		case Horizontal:
			pts = append(pts, image.Pt(int(frac*float64(w)), h-1-val))
		case Vertical:
			pts = append(pts, image.Pt(val, h-1-int(frac*float64(h))))
		}
	}
	drawPolyline(output, pts, p.color, 1)

	hiLabel, loLabel := formatValue(hi), formatValue(lo)
	switch p.orient {
	case Horizontal:
		drawText(output, hiLabel, 2, 1, colorutil.Gray)
		drawText(output, loLabel, 2, h-14, colorutil.Gray)
	case Vertical:
		drawText(output, loLabel, 2, 1, colorutil.Gray)
		drawText(output, hiLabel, w-2-textWidth(hiLabel), 1, colorutil.Gray)
	}
	return output
}
