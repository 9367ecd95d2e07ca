package canvas

import (
	"image"
	"math"
	"sync"

	"sweepview/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// sliderPad is the inset of the track ends from the widget edges, in fyne units.
const sliderPad = 6

type handle int

const (
	handleNone handle = iota
	handleLow
	handleHigh
)

// RangeSlider is a two-handle slider selecting [low, high] within [min, max].
// Its track shows the palette as it is currently applied, saturating outside
// the handles.
type RangeSlider struct {
	widget.BaseWidget

	mu        sync.RWMutex
	min, max  float64
	low, high float64
	cmap      *colorutil.Colormap
	active    handle

	raster *fynecanvas.Raster

	// OnChanged is called with the new handle values after every change
	// made by the user.
	OnChanged func(low, high float64)
}

var (
	_ fyne.Draggable = (*RangeSlider)(nil)
	_ fyne.Tappable  = (*RangeSlider)(nil)
)

// NewRangeSlider creates a slider over [min, max] with both handles at the ends.
func NewRangeSlider(min, max float64, cmap *colorutil.Colormap, height float32) *RangeSlider {
	s := &RangeSlider{cmap: cmap}
	s.setBounds(min, max)
	s.low, s.high = s.min, s.max
	s.raster = fynecanvas.NewRaster(s.draw)
	s.raster.ScaleMode = fynecanvas.ImageScalePixels
	s.raster.SetMinSize(fyne.NewSize(heatmapMinSize.Width, height))
	s.ExtendBaseWidget(s)
	return s
}

func (s *RangeSlider) setBounds(min, max float64) {
	if min > max {
		min, max = max, min
	}
	s.min, s.max = min, max
}

// SetBounds changes the selectable range, clamping the handles into it.
func (s *RangeSlider) SetBounds(min, max float64) {
	s.mu.Lock()
	s.setBounds(min, max)
	s.low = clamp(s.low, s.min, s.max)
	s.high = clamp(s.high, s.min, s.max)
	s.mu.Unlock()
	s.raster.Refresh()
}

// Bounds returns the selectable range.
func (s *RangeSlider) Bounds() (min, max float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.min, s.max
}

// SetValues moves both handles without calling OnChanged.
func (s *RangeSlider) SetValues(low, high float64) {
	s.mu.Lock()
	if low > high {
		low, high = high, low
	}
	s.low = clamp(low, s.min, s.max)
	s.high = clamp(high, s.min, s.max)
	s.mu.Unlock()
	s.raster.Refresh()
}

// Values returns the handle values.
func (s *RangeSlider) Values() (low, high float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.low, s.high
}

// valueAt converts an x position in fyne units to a slider value.
func (s *RangeSlider) valueAt(x, width float32) float64 {
	track := width - 2*sliderPad
	if track <= 0 || s.max == s.min {
		return s.min
	}
	frac := clamp(float64(x-sliderPad)/float64(track), 0, 1)
	return s.min + frac*(s.max-s.min)
}

// positionOf converts a slider value to an x position in fyne units.
func (s *RangeSlider) positionOf(v float64, width float32) float32 {
	track := width - 2*sliderPad
	if track <= 0 || s.max == s.min {
		return sliderPad
	}
	frac := clamp((v-s.min)/(s.max-s.min), 0, 1)
	return sliderPad + float32(frac)*track
}

// Tapped moves the nearer handle to the tap position.
func (s *RangeSlider) Tapped(ev *fyne.PointEvent) {
	s.moveTo(ev.Position.X, true)
}

// Dragged moves the handle picked at drag start.
func (s *RangeSlider) Dragged(ev *fyne.DragEvent) {
	s.moveTo(ev.Position.X, false)
}

// DragEnd releases the active handle.
func (s *RangeSlider) DragEnd() {
	s.mu.Lock()
	s.active = handleNone
	s.mu.Unlock()
}

func (s *RangeSlider) moveTo(x float32, oneShot bool) {
	width := s.Size().Width

	s.mu.Lock()
	active := s.active
	if active == handleNone {
		active = s.nearestHandle(x, width)
	}
	if !oneShot {
		s.active = active
	}

	v := s.valueAt(x, width)
	oldLow, oldHigh := s.low, s.high
	switch active {
	case handleLow:
		s.low = math.Min(v, s.high)
	case handleHigh:
		s.high = math.Max(v, s.low)
	}
	low, high := s.low, s.high
	changed := low != oldLow || high != oldHigh
	s.mu.Unlock()

	if !changed {
		return
	}
	s.raster.Refresh()
	if s.OnChanged != nil {
		s.OnChanged(low, high)
	}
}

func (s *RangeSlider) nearestHandle(x, width float32) handle {
	lowX := s.positionOf(s.low, width)
	highX := s.positionOf(s.high, width)
	dLow := math.Abs(float64(x - lowX))
	dHigh := math.Abs(float64(x - highX))
	switch {
	case dLow < dHigh:
		return handleLow
	case dHigh < dLow:
		return handleHigh
	case x < lowX:
		// Overlapping handles: pick by direction.
		return handleLow
	default:
		return handleHigh
	}
}

// CreateRenderer implements fyne.Widget.
func (s *RangeSlider) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.raster)
}

func (s *RangeSlider) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(output, colorutil.White)

	s.mu.RLock()
	defer s.mu.RUnlock()

	width := s.Size().Width
	scale := float32(1)
	if width > 0 {
		scale = float32(w) / width
	}
	pad := int(sliderPad * scale)
	if w <= 2*pad {
		return output
	}

	// Palette strip across the track, colored as the heatmap maps each value.
	top, bottom := h/4, h-h/4
	span := s.high - s.low
	for x := pad; x < w-pad; x++ {
		v := s.valueAt(float32(x)/scale, width)
		t := 0.5
		if span > 0 {
			t = (v - s.low) / span
		}
		fillRect(output, image.Rect(x, top, x+1, bottom), s.cmap.AtFraction(t))
	}

	for _, v := range []float64{s.low, s.high} {
		x := int(s.positionOf(v, width) * scale)
		fillRect(output, image.Rect(x-2, 1, x+2, h-1), colorutil.Black)
	}
	return output
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
