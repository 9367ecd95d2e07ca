package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// fill paints the whole output with col.
func fill(output *image.RGBA, col color.RGBA) {
	draw.Draw(output, output.Bounds(), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// fillRect paints r, clipped to the output bounds.
func fillRect(output *image.RGBA, r image.Rectangle, col color.RGBA) {
	draw.Draw(output, r.Intersect(output.Bounds()), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// drawFrame draws a one pixel border just inside the output bounds.
func drawFrame(output *image.RGBA, col color.RGBA) {
	b := output.Bounds()
	fillRect(output, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+1), col)
	fillRect(output, image.Rect(b.Min.X, b.Max.Y-1, b.Max.X, b.Max.Y), col)
	fillRect(output, image.Rect(b.Min.X, b.Min.Y, b.Min.X+1, b.Max.Y), col)
	fillRect(output, image.Rect(b.Max.X-1, b.Min.Y, b.Max.X, b.Max.Y), col)
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawPolyline joins consecutive points.
func drawPolyline(output *image.RGBA, pts []image.Point, col color.RGBA, thickness int) {
	if len(pts) == 1 {
		drawLine(output, pts[0].X, pts[0].Y, pts[0].X, pts[0].Y, col, thickness)
		return
	}
	for i := 1; i < len(pts); i++ {
		drawLine(output, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col, thickness)
	}
}

// drawText draws label with its top-left corner at (x, y).
func drawText(output *image.RGBA, label string, x, y int, col color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(label)
}

// textWidth returns the pixel width of label in the label face.
func textWidth(label string) int {
	return font.MeasureString(basicfont.Face7x13, label).Ceil()
}

// formatValue renders a tick or readout value compactly.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
