package paint

import (
	"image"
	"math"
)

// Point is a pointer position in display coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Viewport maps display coordinates onto the surface. The surface has a fixed
// internal resolution while the display may be any size, and the two axes
// scale independently.
type Viewport struct {
	DisplayW, DisplayH float64
	SurfaceW, SurfaceH int
}

// maxCoord bounds mapped coordinates so disc arithmetic cannot overflow.
// Anything this far out is off every surface.
const maxCoord = 1 << 24

// Finite reports whether both coordinates are real numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// ToSurface returns the surface pixel under p. Results are clamped to
// ±maxCoord; a NaN maps to -maxCoord.
func (v Viewport) ToSurface(p Point) image.Point {
	return image.Pt(mapAxis(p.X, v.SurfaceW, v.DisplayW), mapAxis(p.Y, v.SurfaceH, v.DisplayH))
}

// mapAxis multiplies before dividing so exact fractions of the display land on
// exact surface pixels. A display extent that is not a positive finite number
// maps one to one.
func mapAxis(d float64, surface int, display float64) int {
	f := d
	if display > 0 && !math.IsInf(display, 0) {
		f = d * float64(surface) / display
	}
	f = math.Floor(f)
	switch {
	case math.IsNaN(f), f < -maxCoord:
		return -maxCoord
	case f > maxCoord:
		return maxCoord
	}
	return int(f)
}
