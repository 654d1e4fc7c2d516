// Package paint turns pointer input into brush stamps on a surface.
package paint

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/maskstudio/internal/surface"
)

// Engine applies strokes to a single surface. It is not safe for concurrent
// use; the editing session serializes access.
type Engine struct {
	surface *surface.Surface
	brush   Brush
	radii   RadiusRange

	displayW, displayH float64

	active bool
	last   image.Point
}

// New returns an engine painting onto s with the default brush.
func New(s *surface.Surface) *Engine {
	return &Engine{
		surface: s,
		brush:   Brush{Radius: DefaultRadius, Mode: ModeMark},
		radii:   DefaultRadiusRange(),
	}
}

// Brush returns the current brush.
func (e *Engine) Brush() Brush { return e.brush }

// SetRadiusRange changes the allowed radius range and re-clamps the brush.
func (e *Engine) SetRadiusRange(rr RadiusRange) {
	e.radii = rr
	e.brush.Radius = e.radii.Clamp(e.brush.Radius)
}

// SetRadius sets the brush radius, clamped to the allowed range, and returns
// the value actually applied.
func (e *Engine) SetRadius(r int) int {
	e.brush.Radius = e.radii.Clamp(r)
	return e.brush.Radius
}

// SetMode switches between mark and unmark.
func (e *Engine) SetMode(m Mode) { e.brush.Mode = m }

// SetSurface points the engine at a different surface and drops any active
// stroke.
func (e *Engine) SetSurface(s *surface.Surface) {
	e.surface = s
	e.active = false
}

// SetDisplaySize records the on-screen size of the surface. Zero or
// non-finite values mean the surface is displayed at its native resolution.
func (e *Engine) SetDisplaySize(w, h float64) {
	e.displayW, e.displayH = sanitizeExtent(w), sanitizeExtent(h)
}

func sanitizeExtent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Viewport returns the current display to surface mapping.
func (e *Engine) Viewport() Viewport {
	size := e.surface.Size()
	v := Viewport{DisplayW: e.displayW, DisplayH: e.displayH, SurfaceW: size, SurfaceH: size}
	if v.DisplayW <= 0 {
		v.DisplayW = float64(size)
	}
	if v.DisplayH <= 0 {
		v.DisplayH = float64(size)
	}
	return v
}

// Active reports whether a stroke is in progress.
func (e *Engine) Active() bool { return e.active }

// BeginStroke starts a stroke and stamps at p.
func (e *Engine) BeginStroke(p Point) error {
	if !e.surface.Ready() {
		return surface.ErrNotReady
	}
	e.active = true
	return e.stamp(p)
}

// ContinueStroke stamps one disc at p if a stroke is active.
func (e *Engine) ContinueStroke(p Point) error {
	if !e.surface.Ready() {
		return surface.ErrNotReady
	}
	if !e.active {
		return nil
	}
	return e.stamp(p)
}

// EndStroke finishes the current stroke, if any.
func (e *Engine) EndStroke() {
	e.active = false
}

// Clear removes all paint and ends any stroke.
func (e *Engine) Clear() error {
	e.active = false
	return e.surface.Reset()
}

func (e *Engine) stamp(p Point) error {
	img, err := e.surface.Image()
	if err != nil {
		return err
	}
	if !p.Finite() {
		return nil
	}
	c := e.Viewport().ToSurface(p)
	e.last = c
	// keep the centre within one radius of the surface; further out the disc
	// misses it anyway
	size := e.surface.Size()
	r := e.brush.Radius
	c.X = clampInt(c.X, -r-1, size+r+1)
	c.Y = clampInt(c.Y, -r-1, size+r+1)
	d := disc{c: c, r: r}
	area := d.Bounds().Intersect(img.Bounds())
	if area.Empty() {
		return nil
	}
	switch e.brush.Mode {
	case ModeUnmark:
		for y := area.Min.Y; y < area.Max.Y; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				if d.contains(x, y) {
					e.surface.Restore(x, y)
				}
			}
		}
	default:
		draw.DrawMask(img, area, image.NewUniform(OverlayColor), image.Point{}, d, area.Min, draw.Over)
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LastStamp returns the surface position of the most recent stamp.
func (e *Engine) LastStamp() image.Point { return e.last }

// disc is a hard-edged circular alpha mask.
type disc struct {
	c image.Point
	r int
}

func (d disc) ColorModel() color.Model { return color.AlphaModel }

func (d disc) Bounds() image.Rectangle {
	return image.Rect(d.c.X-d.r, d.c.Y-d.r, d.c.X+d.r+1, d.c.Y+d.r+1)
}

func (d disc) At(x, y int) color.Color {
	if d.contains(x, y) {
		return color.Opaque
	}
	return color.Transparent
}

func (d disc) contains(x, y int) bool {
	dx := x - d.c.X
	dy := y - d.c.Y
	return dx*dx+dy*dy <= d.r*d.r
}
