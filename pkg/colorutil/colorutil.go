// Package colorutil provides shared colors and the value-to-color mapping used by the heatmap.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// Common colors used throughout the application.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	LightGray = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	Gray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}

	// Line colors for the two cross-sections (matplotlib C0 and C1).
	C0 = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}
	C1 = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255}
)

// DefaultPalette is the diverging red-white-blue map.
const DefaultPalette = "RdBu"

var palettes = map[string]func() palette.ColorMap{
	"RdBu":        func() palette.ColorMap { return palette.Reverse(moreland.SmoothBlueRed()) },
	"BlueRed":     func() palette.ColorMap { return moreland.SmoothBlueRed() },
	"BlueTan":     func() palette.ColorMap { return moreland.SmoothBlueTan() },
	"GreenPurple": func() palette.ColorMap { return moreland.SmoothGreenPurple() },
	"BlackBody":   moreland.BlackBody,
	"Kindlmann":   moreland.Kindlmann,
}

// PaletteNames returns the names accepted by NewColormap, sorted.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Colormap maps values in [Min, Max] onto a continuous palette. Values
// outside the range saturate at the end colors; NaN maps to NaNColor.
type Colormap struct {
	name     string
	cmap     palette.ColorMap
	min, max float64

	NaNColor color.RGBA
}

// NewColormap returns the named colormap spanning [0, 1].
func NewColormap(name string) (*Colormap, error) {
	if name == "" {
		name = DefaultPalette
	}
	ctor, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q (have %v)", name, PaletteNames())
	}
	cm := ctor()
	cm.SetMin(0)
	cm.SetMax(1)
	return &Colormap{
		name:     name,
		cmap:     cm,
		min:      0,
		max:      1,
		NaNColor: Gray,
	}, nil
}

// Name returns the palette name.
func (c *Colormap) Name() string {
	return c.name
}

// SetRange sets the values mapped to the two ends of the palette.
func (c *Colormap) SetRange(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}
	c.min, c.max = lo, hi
}

// Range returns the current bounds.
func (c *Colormap) Range() (lo, hi float64) {
	return c.min, c.max
}

// Normalize maps v onto [0, 1] relative to the current range. A collapsed
// range maps everything to the palette midpoint.
func (c *Colormap) Normalize(v float64) float64 {
	if c.max <= c.min {
		return 0.5
	}
	t := (v - c.min) / (c.max - c.min)
	return math.Max(0, math.Min(1, t))
}

// At returns the color for v.
func (c *Colormap) At(v float64) color.RGBA {
	if math.IsNaN(v) {
		return c.NaNColor
	}
	return c.AtFraction(c.Normalize(v))
}

// AtFraction returns the palette color at t in [0, 1].
func (c *Colormap) AtFraction(t float64) color.RGBA {
	col, err := c.cmap.At(math.Max(0, math.Min(1, t)))
	if err != nil {
		return c.NaNColor
	}
	return color.RGBAModel.Convert(col).(color.RGBA)
}
